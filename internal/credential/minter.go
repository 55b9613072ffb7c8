package credential

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SimulatedMinter mints tokens locally. Token ids follow the wallet
// display shape 0x12345678...9abc, derived from a uuid so each mint is
// distinguishable without being cryptographically meaningful.
type SimulatedMinter struct {
	mu     sync.RWMutex
	minted map[string]Minted
}

func NewSimulatedMinter() *SimulatedMinter {
	return &SimulatedMinter{minted: map[string]Minted{}}
}

func (m *SimulatedMinter) Mint(ctx context.Context, account, courseName string, completionDate time.Time) (string, error) {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	token := fmt.Sprintf("0x%s...%s", hex[:8], hex[len(hex)-4:])
	m.mu.Lock()
	defer m.mu.Unlock()
	m.minted[token] = Minted{
		CourseName:     courseName,
		CompletionDate: completionDate,
		Verified:       true,
	}
	return token, nil
}

func (m *SimulatedMinter) Credential(ctx context.Context, tokenID string) (Minted, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.minted[tokenID]
	if !ok {
		return Minted{}, ErrUnknownToken
	}
	return c, nil
}
