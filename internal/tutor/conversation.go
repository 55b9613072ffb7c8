package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/K-Charitharth/proof-of-learning/internal/catalog"
)

var (
	ErrEmptyMessage   = errors.New("empty message")
	ErrNoConversation = errors.New("no conversation started")
)

// FallbackMessage is appended when the generation collaborator fails or
// times out, so the conversation never stalls in "responding".
const FallbackMessage = "I'm having trouble connecting to the AI compute network. Please try again."

const (
	greetingFormat = "Welcome to %s! I'm your AI tutor powered by 0G's compute network. I'll guide you through this course step by step. What would you like to learn first?"
	systemFormat   = "You are an AI tutor for a course on %s. Provide helpful, educational responses that guide the student through learning. Keep responses concise but informative."

	replyMaxTokens   = 200
	replyTemperature = 0.7
)

// ChatMessage is one turn of the tutor transcript. The transcript is
// append-only and never reordered.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type conversation struct {
	courseID    string
	courseTitle string
	messages    []ChatMessage
	responding  bool
}

// Service keeps one conversation per session and drives the async
// generation call. Each in-flight generation carries the epoch observed
// at send time; Reset bumps the epoch, so a reply landing after logout
// is dropped instead of being applied to a fresh log.
type Service struct {
	mu       sync.Mutex
	provider Provider
	timeout  time.Duration
	convs    map[string]*conversation
	epochs   map[string]uint64
	now      func() time.Time
}

func NewService(provider Provider, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		provider: provider,
		timeout:  timeout,
		convs:    map[string]*conversation{},
		epochs:   map[string]uint64{},
		now:      time.Now,
	}
}

// Start opens a conversation for the course, seeded with the tutor's
// greeting. Restarting replaces the previous conversation.
func (s *Service) Start(sessionID string, course catalog.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epochs[sessionID]++
	s.convs[sessionID] = &conversation{
		courseID:    course.ID,
		courseTitle: course.Title,
		messages: []ChatMessage{{
			Role:      RoleAssistant,
			Content:   fmt.Sprintf(greetingFormat, course.Title),
			Timestamp: s.now(),
		}},
	}
}

// Send appends the user message synchronously and requests the tutor's
// reply in the background. The responding flag is true exactly between
// the user append and the matching assistant append.
func (s *Service) Send(ctx context.Context, sessionID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	conv, ok := s.convs[sessionID]
	if !ok {
		s.mu.Unlock()
		return ErrNoConversation
	}
	conv.messages = append(conv.messages, ChatMessage{
		Role:      RoleUser,
		Content:   text,
		Timestamp: s.now(),
	})
	conv.responding = true
	epoch := s.epochs[sessionID]
	title := conv.courseTitle
	history := make([]Message, len(conv.messages))
	for i, m := range conv.messages {
		history[i] = Message{Role: m.Role, Content: m.Content}
	}
	s.mu.Unlock()

	// Detached from the request context: the reply (or fallback) must
	// land even after the HTTP caller has gone away.
	go s.generate(sessionID, epoch, title, history)
	return nil
}

func (s *Service) generate(sessionID string, epoch uint64, courseTitle string, history []Message) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	content := ""
	resp, err := s.provider.Generate(ctx, Request{
		System:      fmt.Sprintf(systemFormat, courseTitle),
		Messages:    history,
		MaxTokens:   replyMaxTokens,
		Temperature: replyTemperature,
	})
	if err == nil && resp != nil {
		content = strings.TrimSpace(resp.Content)
	}
	if content == "" {
		content = FallbackMessage
	}
	s.complete(sessionID, epoch, content)
}

func (s *Service) complete(sessionID string, epoch uint64, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epochs[sessionID] != epoch {
		// Conversation was reset while the request was in flight.
		return
	}
	conv, ok := s.convs[sessionID]
	if !ok {
		return
	}
	conv.messages = append(conv.messages, ChatMessage{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: s.now(),
	})
	conv.responding = false
}

// Transcript returns the ordered messages and the responding flag.
func (s *Service) Transcript(sessionID string) ([]ChatMessage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[sessionID]
	if !ok {
		return nil, false, ErrNoConversation
	}
	out := make([]ChatMessage, len(conv.messages))
	copy(out, conv.messages)
	return out, conv.responding, nil
}

// Reset drops the session's conversation and invalidates any in-flight
// generation (logout).
func (s *Service) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epochs[sessionID]++
	delete(s.convs, sessionID)
}
