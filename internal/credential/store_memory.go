package credential

import (
	"context"
	"sync"
)

// MemoryStore is the default session-lifetime ledger.
type MemoryStore struct {
	mu     sync.RWMutex
	ledger map[string][]Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ledger: map[string][]Credential{}}
}

// SeedDemo pre-loads the demo credential shown before any quiz is
// taken. Enabled via SEED_DEMO_CREDENTIAL.
func (m *MemoryStore) SeedDemo(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger[sessionID] = append(m.ledger[sessionID], Credential{
		ID:         "1",
		CourseID:   "web3-basics",
		CourseName: "Blockchain Basics",
		IssueDate:  "2024-01-15",
		TokenID:    "0x1234...5678",
		Verified:   true,
	})
}

func (m *MemoryStore) Append(ctx context.Context, sessionID string, c Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger[sessionID] = append(m.ledger[sessionID], c)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, sessionID string) ([]Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Credential, len(m.ledger[sessionID]))
	copy(out, m.ledger[sessionID])
	return out, nil
}

func (m *MemoryStore) HasCourse(ctx context.Context, sessionID, courseID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.ledger[sessionID] {
		if c.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}
