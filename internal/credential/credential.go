package credential

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotEligible   = errors.New("not eligible for credential")
	ErrAlreadyIssued = errors.New("credential already issued for course")
	ErrUnknownToken  = errors.New("unknown token")
)

// Credential is a soulbound completion record. Immutable once issued;
// it lives in the session's ledger for the life of the session (or in
// SQL when a persistent ledger is configured).
type Credential struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name"`
	IssueDate  string `json:"issue_date"` // YYYY-MM-DD
	TokenID    string `json:"token_id"`
	Verified   bool   `json:"verified"`
}

// Store is the credential ledger. Append order is issuance order and
// List must preserve it.
type Store interface {
	Append(ctx context.Context, sessionID string, c Credential) error
	List(ctx context.Context, sessionID string) ([]Credential, error)
	HasCourse(ctx context.Context, sessionID, courseID string) (bool, error)
}

// Minted is the read-back shape of the minting contract: course name,
// completion date and verified flag keyed by token.
type Minted struct {
	CourseName     string    `json:"course_name"`
	CompletionDate time.Time `json:"completion_date"`
	Verified       bool      `json:"verified"`
}

// Minter is the non-transferable-token contract surface. The simulated
// implementation mints locally; a chain-backed one must keep the same
// shape: (account, course name, completion date) in, token id out, and
// a per-token read-back.
type Minter interface {
	Mint(ctx context.Context, account, courseName string, completionDate time.Time) (string, error)
	Credential(ctx context.Context, tokenID string) (Minted, error)
}
