package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/K-Charitharth/proof-of-learning/internal/catalog"
)

func testCourse() catalog.Course {
	return catalog.Course{
		ID:    "web3-basics",
		Title: "Web3 Fundamentals",
		Questions: []catalog.Question{
			{ID: "q1", Prompt: "p", Options: []string{"a", "b"}, CorrectIndex: 1},
		},
	}
}

// waitSettled polls until the responding flag clears.
func waitSettled(t *testing.T, svc *Service, sessionID string) []ChatMessage {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		msgs, responding, err := svc.Transcript(sessionID)
		if err != nil {
			t.Fatalf("transcript: %v", err)
		}
		if !responding {
			return msgs
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("conversation never left responding state")
	return nil
}

func TestStart_SeedsGreeting(t *testing.T) {
	svc := NewService(NewMockProvider(), time.Second)
	svc.Start("s1", testCourse())

	msgs, responding, err := svc.Transcript("s1")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if responding {
		t.Error("fresh conversation must not be responding")
	}
	if len(msgs) != 1 || msgs[0].Role != RoleAssistant {
		t.Fatalf("greeting missing: %+v", msgs)
	}
	if !strings.Contains(msgs[0].Content, "Web3 Fundamentals") {
		t.Errorf("greeting does not reference the course: %q", msgs[0].Content)
	}
}

func TestSend_AppendsReply(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: "A blockchain is a distributed ledger."})
	svc := NewService(mock, time.Second)
	svc.Start("s1", testCourse())

	if err := svc.Send(context.Background(), "s1", "What is a blockchain?"); err != nil {
		t.Fatalf("send: %v", err)
	}

	// The user message is observable immediately, before the reply.
	msgs, _, _ := svc.Transcript("s1")
	if msgs[len(msgs)-1].Role != RoleUser || msgs[len(msgs)-1].Content != "What is a blockchain?" {
		t.Fatalf("user message not appended synchronously: %+v", msgs)
	}

	msgs = waitSettled(t, svc, "s1")
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want greeting+user+assistant", len(msgs))
	}
	if msgs[2].Role != RoleAssistant || msgs[2].Content != "A blockchain is a distributed ledger." {
		t.Errorf("reply %+v", msgs[2])
	}

	// Provider saw the course context and the history.
	if mock.CallCount() != 1 {
		t.Fatalf("calls %d", mock.CallCount())
	}
	req := mock.Calls[0]
	if !strings.Contains(req.System, "Web3 Fundamentals") {
		t.Errorf("system prompt %q lacks course context", req.System)
	}
	if req.MaxTokens != 200 || req.Temperature != 0.7 {
		t.Errorf("generation params %d/%v", req.MaxTokens, req.Temperature)
	}
	if req.Messages[len(req.Messages)-1].Role != RoleUser {
		t.Error("history must end with the user turn")
	}
}

func TestSend_FallbackOnProviderFailure(t *testing.T) {
	// Empty mock queue: every call fails with ErrProviderUnavailable.
	svc := NewService(NewMockProvider(), time.Second)
	svc.Start("s1", testCourse())

	if err := svc.Send(context.Background(), "s1", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	msgs := waitSettled(t, svc, "s1")
	last := msgs[len(msgs)-1]
	if last.Role != RoleAssistant || last.Content != FallbackMessage {
		t.Errorf("want fallback assistant message, got %+v", last)
	}
	if msgs[len(msgs)-2].Role != RoleUser || msgs[len(msgs)-2].Content != "hello" {
		t.Errorf("user message must precede fallback: %+v", msgs)
	}
}

func TestSend_Validation(t *testing.T) {
	svc := NewService(NewMockProvider(), time.Second)
	if err := svc.Send(context.Background(), "s1", "hi"); !errors.Is(err, ErrNoConversation) {
		t.Errorf("got %v, want ErrNoConversation", err)
	}
	svc.Start("s1", testCourse())
	if err := svc.Send(context.Background(), "s1", "   \t  "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("got %v, want ErrEmptyMessage", err)
	}
}

func TestSend_OrderingAcrossTurns(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: "first reply"},
		MockResponse{Content: "second reply"},
	)
	svc := NewService(mock, time.Second)
	svc.Start("s1", testCourse())

	_ = svc.Send(context.Background(), "s1", "one")
	waitSettled(t, svc, "s1")
	_ = svc.Send(context.Background(), "s1", "two")
	msgs := waitSettled(t, svc, "s1")

	want := []struct {
		role    Role
		content string
	}{
		{RoleAssistant, ""}, // greeting
		{RoleUser, "one"},
		{RoleAssistant, "first reply"},
		{RoleUser, "two"},
		{RoleAssistant, "second reply"},
	}
	if len(msgs) != len(want) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(want))
	}
	for i, w := range want {
		if msgs[i].Role != w.role {
			t.Errorf("msgs[%d].Role = %s, want %s", i, msgs[i].Role, w.role)
		}
		if w.content != "" && msgs[i].Content != w.content {
			t.Errorf("msgs[%d].Content = %q, want %q", i, msgs[i].Content, w.content)
		}
	}
}

// slowProvider blocks until released, standing in for a generation call
// still in flight when the session logs out.
type slowProvider struct {
	release chan struct{}
}

func (p *slowProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	select {
	case <-p.release:
		return &Response{Content: "stale reply", Model: "slow"}, nil
	case <-ctx.Done():
		return nil, &ErrProviderUnavailable{Err: ctx.Err()}
	}
}

func (p *slowProvider) ModelID() string { return "slow" }

func TestReset_DropsStaleReply(t *testing.T) {
	slow := &slowProvider{release: make(chan struct{})}
	svc := NewService(slow, 5*time.Second)
	svc.Start("s1", testCourse())

	_ = svc.Send(context.Background(), "s1", "hello")
	svc.Reset("s1")

	// A new conversation begins while the old generation is in flight.
	svc.Start("s1", testCourse())
	close(slow.release)

	// Give the stale goroutine a chance to (incorrectly) land.
	time.Sleep(50 * time.Millisecond)
	msgs, responding, err := svc.Transcript("s1")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if responding {
		t.Error("new conversation must not inherit responding state")
	}
	for _, m := range msgs {
		if m.Content == "stale reply" {
			t.Fatal("stale reply applied to a reset conversation")
		}
	}
	if len(msgs) != 1 {
		t.Errorf("new conversation should only hold the greeting, got %d messages", len(msgs))
	}
}

func TestValidateAnswer(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: "CORRECT"},
		MockResponse{Content: "INCORRECT"},
	)
	svc := NewService(mock, time.Second)

	ok, err := svc.ValidateAnswer(context.Background(), "What is DeFi?", "decentralized finance", "decentralized finance")
	if err != nil || !ok {
		t.Errorf("got (%v, %v), want correct", ok, err)
	}
	ok, err = svc.ValidateAnswer(context.Background(), "What is DeFi?", "a bank", "decentralized finance")
	if err != nil || ok {
		t.Errorf("got (%v, %v), want incorrect", ok, err)
	}

	// Provider failure propagates so callers can decide.
	_, err = svc.ValidateAnswer(context.Background(), "q", "a", "c")
	var unavailable *ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Errorf("got %v, want ErrProviderUnavailable", err)
	}
}
