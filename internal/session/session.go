package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/K-Charitharth/proof-of-learning/internal/catalog"
)

var (
	ErrUnknownSession     = errors.New("unknown session")
	ErrNotConnected       = errors.New("wallet not connected")
	ErrNotAuthorized      = errors.New("humanity not verified")
	ErrVerificationFailed = errors.New("humanity verification failed")
)

// Session tracks one learner's progress through the passport workflow.
// ActiveCourseID is only ever set while Connected && VerifiedHuman;
// VerifiedHuman only flips true through VerifyHumanity.
type Session struct {
	ID             string    `json:"id"`
	Account        string    `json:"account"`
	Connected      bool      `json:"connected"`
	VerifiedHuman  bool      `json:"verified_human"`
	ActiveCourseID string    `json:"active_course_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Manager owns all live sessions. Handlers may hit the same session
// concurrently, so every mutation goes through the mutex.
type Manager struct {
	mu       sync.Mutex
	wallet   WalletProvider
	verifier VerificationProvider
	catalog  *catalog.Catalog
	sessions map[string]*Session
	now      func() time.Time
}

func NewManager(wallet WalletProvider, verifier VerificationProvider, cat *catalog.Catalog) *Manager {
	return &Manager{
		wallet:   wallet,
		verifier: verifier,
		catalog:  cat,
		sessions: map[string]*Session{},
		now:      time.Now,
	}
}

// Connect asks the wallet provider for an account and opens a session
// for the first one returned. Provider errors pass through unchanged
// (ErrProviderUnavailable, ErrUserRejected).
func (m *Manager) Connect(ctx context.Context) (Session, error) {
	accounts, err := m.wallet.RequestAccounts(ctx)
	if err != nil {
		return Session{}, err
	}
	if len(accounts) == 0 {
		return Session{}, ErrUserRejected
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Session{
		ID:        uuid.NewString(),
		Account:   accounts[0],
		Connected: true,
		CreatedAt: m.now(),
	}
	m.sessions[s.ID] = s
	return *s, nil
}

func (m *Manager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrUnknownSession
	}
	return *s, nil
}

// VerifyHumanity runs the identity check for a connected session.
// A failed check leaves the session untouched.
func (m *Manager) VerifyHumanity(ctx context.Context, id string) (Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return Session{}, ErrUnknownSession
	}
	if !s.Connected {
		m.mu.Unlock()
		return Session{}, ErrNotConnected
	}
	account := s.Account
	m.mu.Unlock()

	// Provider call happens outside the lock; it may block.
	ok, err := m.verifier.Verify(ctx, account)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ErrVerificationFailed
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, stillThere := m.sessions[id]
	if !stillThere || !s.Connected {
		// Logged out while the check was in flight.
		return Session{}, ErrNotConnected
	}
	s.VerifiedHuman = true
	return *s, nil
}

// SelectCourse sets the active course. Requires a connected and
// verified session and a course known to the catalog.
func (m *Manager) SelectCourse(id, courseID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrUnknownSession
	}
	if !s.Connected || !s.VerifiedHuman {
		return Session{}, ErrNotAuthorized
	}
	if _, err := m.catalog.Get(courseID); err != nil {
		return Session{}, err
	}
	s.ActiveCourseID = courseID
	return *s, nil
}

// Logout resets the session to its initial state. Always succeeds.
// Callers also reset the session's quiz attempt and conversation log.
func (m *Manager) Logout(id string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{ID: id, CreatedAt: m.now()}
	}
	*s = Session{ID: s.ID, CreatedAt: m.now()}
	return *s
}
