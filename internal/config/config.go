package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// LedgerStore selects the credential ledger backend: memory|sql.
	LedgerStore string

	AuthHMACSecret string
	AdminUser      string
	AdminPassHash  string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	TutorProvider string // mock|anthropic|openai
	TutorModel    string
	TutorAPIKey   string
	TutorBaseURL  string
	TutorTimeout  time.Duration

	// SinglePerCourse switches credential issuance to at most one per
	// course per session. Default keeps the permissive behavior.
	SinglePerCourse bool

	SeedDemoCredential bool
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:     mode,
		HTTPAddr: addr,

		DBDriver:    envOr("DB_DRIVER", "sqlite"),
		DBDSN:       envOr("DB_DSN", ""),
		LedgerStore: envOr("LEDGER_STORE", "memory"),

		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://passport.example.com"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000"),

		TutorProvider: envOr("TUTOR_PROVIDER", "mock"),
		TutorModel:    os.Getenv("TUTOR_MODEL"),
		TutorAPIKey:   os.Getenv("TUTOR_API_KEY"),
		TutorBaseURL:  os.Getenv("TUTOR_BASE_URL"),
		TutorTimeout:  time.Duration(envInt("TUTOR_TIMEOUT", 30)) * time.Second,

		SinglePerCourse:    envBool("CREDENTIAL_SINGLE_PER_COURSE", false),
		SeedDemoCredential: envBool("SEED_DEMO_CREDENTIAL", false),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
