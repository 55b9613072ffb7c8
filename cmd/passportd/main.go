package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/K-Charitharth/proof-of-learning/internal/api/http"
	"github.com/K-Charitharth/proof-of-learning/internal/auth"
	authmw "github.com/K-Charitharth/proof-of-learning/internal/auth/middleware"
	"github.com/K-Charitharth/proof-of-learning/internal/catalog"
	"github.com/K-Charitharth/proof-of-learning/internal/config"
	"github.com/K-Charitharth/proof-of-learning/internal/credential"
	"github.com/K-Charitharth/proof-of-learning/internal/db"
	"github.com/K-Charitharth/proof-of-learning/internal/quiz"
	"github.com/K-Charitharth/proof-of-learning/internal/session"
	"github.com/K-Charitharth/proof-of-learning/internal/tutor"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	// --- Credential ledger ---
	var store credential.Store
	memStore := credential.NewMemoryStore()
	switch cfg.LedgerStore {
	case "sql":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		store = credential.NewSQLStore(dbh)
	default:
		store = memStore
	}

	minter := credential.NewSimulatedMinter()
	issuer := credential.NewIssuer(store, minter, cat, cfg.SinglePerCourse)

	// --- Workflow services ---
	mgr := session.NewManager(session.NewMockWallet(), session.MockVerifier{}, cat)
	quizSvc := quiz.NewService(cat)

	provider, err := tutor.NewProvider(tutor.ProviderConfig{
		Provider: cfg.TutorProvider,
		APIKey:   cfg.TutorAPIKey,
		Model:    cfg.TutorModel,
		BaseURL:  cfg.TutorBaseURL,
	})
	if err != nil {
		log.Fatalf("tutor provider: %v", err)
	}
	tutorSvc := tutor.NewService(provider, cfg.TutorTimeout)

	authSvc := authmw.NewAuthService(cfg.AuthHMACSecret)

	var onConnect []func(string)
	if cfg.SeedDemoCredential && cfg.LedgerStore != "sql" {
		onConnect = append(onConnect, memStore.SeedDemo)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public surface
	r.Post("/auth/admin", auth.AdminLoginHandler(authSvc, cfg.AdminUser, cfg.AdminPassHash))
	r.Post("/session/connect", api.ConnectHandler(mgr, authSvc, onConnect...))
	r.Get("/courses", api.ListCoursesHandler(cat))
	r.Get("/courses/{courseID}", api.GetCourseHandler(cat))

	// Session-scoped API (JWT -> session id in context)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))

		pr.Post("/session/verify", api.VerifyHandler(mgr))
		pr.Post("/session/course", api.SelectCourseHandler(mgr, tutorSvc, cat))
		pr.Post("/session/logout", api.LogoutHandler(mgr, quizSvc, tutorSvc))

		pr.Post("/quiz/start", api.StartQuizHandler(quizSvc))
		pr.Post("/quiz/answers", api.RecordAnswerHandler(quizSvc))
		pr.Post("/quiz/submit", api.SubmitQuizHandler(quizSvc, issuer, mgr))
		pr.Post("/quiz/validate", api.ValidateAnswerHandler(tutorSvc))

		pr.Get("/credentials", api.ListCredentialsHandler(issuer))
		pr.Get("/credentials/{tokenID}", api.GetCredentialHandler(minter))

		pr.Post("/chat/start", api.StartChatHandler(tutorSvc, cat))
		pr.Post("/chat/messages", api.SendMessageHandler(tutorSvc))
		pr.Get("/chat", api.TranscriptHandler(tutorSvc))

		pr.With(authmw.RequireRole("admin")).
			Put("/admin/courses", api.UpsertCourseHandler(cat))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, ledger=%s, tutor=%s)",
		cfg.HTTPAddr, cfg.Mode, cfg.LedgerStore, provider.ModelID())
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
