package credential

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/K-Charitharth/proof-of-learning/internal/catalog"
	"github.com/K-Charitharth/proof-of-learning/internal/quiz"
	"github.com/K-Charitharth/proof-of-learning/internal/session"
)

func testIssuer(t *testing.T, singlePerCourse bool) (*Issuer, *SimulatedMinter) {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	minter := NewSimulatedMinter()
	return NewIssuer(NewMemoryStore(), minter, cat, singlePerCourse), minter
}

func verifiedSession() session.Session {
	return session.Session{ID: "s1", Account: "0xabc", Connected: true, VerifiedHuman: true}
}

func passing() quiz.ScoreResult {
	return quiz.ScoreResult{CourseID: "web3-basics", CorrectCount: 3, Total: 3, Passed: true}
}

func TestIssue(t *testing.T) {
	issuer, _ := testIssuer(t, false)
	ctx := context.Background()

	cred, err := issuer.Issue(ctx, verifiedSession(), "web3-basics", passing())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if cred.CourseID != "web3-basics" || cred.CourseName != "Web3 Fundamentals" {
		t.Errorf("course fields %+v", cred)
	}
	if !cred.Verified {
		t.Error("credential must be verified")
	}
	if cred.ID == "" {
		t.Error("missing id")
	}
	if !strings.HasPrefix(cred.TokenID, "0x") || !strings.Contains(cred.TokenID, "...") {
		t.Errorf("token id %q has wrong shape", cred.TokenID)
	}
	if len(cred.IssueDate) != 10 || cred.IssueDate[4] != '-' {
		t.Errorf("issue date %q not YYYY-MM-DD", cred.IssueDate)
	}

	creds, err := issuer.List(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(creds) != 1 {
		t.Fatalf("ledger length %d, want 1", len(creds))
	}
}

func TestIssue_NotEligibleWhenUnverified(t *testing.T) {
	issuer, _ := testIssuer(t, false)
	sess := verifiedSession()
	sess.VerifiedHuman = false

	// Even a perfect score cannot mint for an unverified session.
	_, err := issuer.Issue(context.Background(), sess, "web3-basics", passing())
	if !errors.Is(err, ErrNotEligible) {
		t.Errorf("got %v, want ErrNotEligible", err)
	}
}

func TestIssue_NotEligibleWhenFailed(t *testing.T) {
	issuer, _ := testIssuer(t, false)
	failed := passing()
	failed.CorrectCount = 1
	failed.Passed = false

	_, err := issuer.Issue(context.Background(), verifiedSession(), "web3-basics", failed)
	if !errors.Is(err, ErrNotEligible) {
		t.Errorf("got %v, want ErrNotEligible", err)
	}
	creds, _ := issuer.List(context.Background(), "s1")
	if len(creds) != 0 {
		t.Errorf("failed issue must not touch the ledger, got %d", len(creds))
	}
}

func TestIssue_ResultCourseMismatch(t *testing.T) {
	issuer, _ := testIssuer(t, false)
	_, err := issuer.Issue(context.Background(), verifiedSession(), "defi-advanced", passing())
	if !errors.Is(err, ErrNotEligible) {
		t.Errorf("got %v, want ErrNotEligible", err)
	}
}

func TestIssue_RepeatsAllowedByDefault(t *testing.T) {
	issuer, _ := testIssuer(t, false)
	ctx := context.Background()

	first, _ := issuer.Issue(ctx, verifiedSession(), "web3-basics", passing())
	second, err := issuer.Issue(ctx, verifiedSession(), "web3-basics", passing())
	if err != nil {
		t.Fatalf("repeat issue: %v", err)
	}
	if first.ID == second.ID || first.TokenID == second.TokenID {
		t.Error("repeat issuance must mint a distinct credential")
	}
	creds, _ := issuer.List(ctx, "s1")
	if len(creds) != 2 {
		t.Fatalf("ledger length %d, want 2", len(creds))
	}
	if creds[0].ID != first.ID || creds[1].ID != second.ID {
		t.Error("ledger not in issuance order")
	}
}

func TestIssue_SinglePerCourseMode(t *testing.T) {
	issuer, _ := testIssuer(t, true)
	ctx := context.Background()

	if _, err := issuer.Issue(ctx, verifiedSession(), "web3-basics", passing()); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	if _, err := issuer.Issue(ctx, verifiedSession(), "web3-basics", passing()); !errors.Is(err, ErrAlreadyIssued) {
		t.Errorf("got %v, want ErrAlreadyIssued", err)
	}

	// A different course still mints.
	other := passing()
	other.CourseID = "defi-advanced"
	if _, err := issuer.Issue(ctx, verifiedSession(), "defi-advanced", other); err != nil {
		t.Errorf("different course: %v", err)
	}
}

func TestMinter_ReadBack(t *testing.T) {
	issuer, minter := testIssuer(t, false)
	ctx := context.Background()

	cred, err := issuer.Issue(ctx, verifiedSession(), "web3-basics", passing())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	minted, err := minter.Credential(ctx, cred.TokenID)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if minted.CourseName != "Web3 Fundamentals" || !minted.Verified {
		t.Errorf("read back %+v", minted)
	}
	if minted.CompletionDate.IsZero() {
		t.Error("completion date missing")
	}

	if _, err := minter.Credential(ctx, "0xdead...beef"); !errors.Is(err, ErrUnknownToken) {
		t.Errorf("got %v, want ErrUnknownToken", err)
	}
}

func TestMemoryStore_SeedDemo(t *testing.T) {
	store := NewMemoryStore()
	store.SeedDemo("s1")
	creds, _ := store.List(context.Background(), "s1")
	if len(creds) != 1 || creds[0].TokenID != "0x1234...5678" {
		t.Errorf("seed %+v", creds)
	}
	creds, _ = store.List(context.Background(), "s2")
	if len(creds) != 0 {
		t.Error("seed leaked across sessions")
	}
}
