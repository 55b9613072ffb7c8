package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
	ErrUserRejected        = errors.New("user rejected wallet request")
)

// WalletProvider is the browser-wallet collaborator. Implementations
// return ErrProviderUnavailable when no wallet exists and
// ErrUserRejected when the user declines the connection prompt.
type WalletProvider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
}

// VerificationProvider runs the proof-of-humanity check for an account.
type VerificationProvider interface {
	Verify(ctx context.Context, account string) (bool, error)
}

// MockWallet hands out a stable fake account per instance, standing in
// for an injected browser wallet.
type MockWallet struct {
	account string
}

func NewMockWallet() *MockWallet {
	return &MockWallet{account: "0x" + strings.ReplaceAll(uuid.NewString(), "-", "")[:40]}
}

func (w *MockWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	return []string{w.account}, nil
}

// MockVerifier always passes, like the demo's simulated check. Real
// providers return (false, nil) on a clean rejection.
type MockVerifier struct{}

func (MockVerifier) Verify(ctx context.Context, account string) (bool, error) {
	return true, nil
}
