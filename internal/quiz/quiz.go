package quiz

import (
	"errors"
	"sync"

	"github.com/K-Charitharth/proof-of-learning/internal/catalog"
)

var (
	ErrNotInProgress   = errors.New("no quiz in progress")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrInvalidOption   = errors.New("option index out of range")
)

type State int

const (
	NotStarted State = iota
	InProgress
	Scored
)

// ScoreResult is the verdict for one scored attempt.
type ScoreResult struct {
	CourseID     string `json:"course_id"`
	CorrectCount int    `json:"correct_count"`
	Total        int    `json:"total"`
	Passed       bool   `json:"passed"`
}

type attempt struct {
	courseID  string
	state     State
	questions []catalog.Question
	answers   map[string]int
}

// Service runs one quiz attempt per session. An attempt moves
// NotStarted -> InProgress -> Scored; restarting after Scored begins a
// fresh attempt, so quizzes are always retakeable.
type Service struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	attempts map[string]*attempt
}

func NewService(cat *catalog.Catalog) *Service {
	return &Service{catalog: cat, attempts: map[string]*attempt{}}
}

// Start begins an attempt for the given course, replacing any prior
// attempt for the session.
func (s *Service) Start(sessionID, courseID string) error {
	course, err := s.catalog.Get(courseID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[sessionID] = &attempt{
		courseID:  courseID,
		state:     InProgress,
		questions: course.Questions,
		answers:   map[string]int{},
	}
	return nil
}

// RecordAnswer stores the chosen option for a question, overwriting a
// prior answer for the same question.
func (s *Service) RecordAnswer(sessionID, questionID string, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[sessionID]
	if !ok || a.state != InProgress {
		return ErrNotInProgress
	}
	q, found := findQuestion(a.questions, questionID)
	if !found {
		return ErrUnknownQuestion
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return ErrInvalidOption
	}
	a.answers[questionID] = optionIndex
	return nil
}

// Score finalizes the attempt. Unanswered questions count as wrong;
// missing answers never error. Pass mark is ceil(2/3) of the set, so
// the default three-question quiz needs 2 of 3.
func (s *Service) Score(sessionID string) (ScoreResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[sessionID]
	if !ok || a.state != InProgress {
		return ScoreResult{}, ErrNotInProgress
	}
	correct := 0
	for _, q := range a.questions {
		if idx, answered := a.answers[q.ID]; answered && idx == q.CorrectIndex {
			correct++
		}
	}
	total := len(a.questions)
	a.state = Scored
	return ScoreResult{
		CourseID:     a.courseID,
		CorrectCount: correct,
		Total:        total,
		Passed:       correct >= PassThreshold(total),
	}, nil
}

// Reset drops the session's attempt (logout).
func (s *Service) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, sessionID)
}

// StateOf reports the attempt state for a session.
func (s *Service) StateOf(sessionID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[sessionID]
	if !ok {
		return NotStarted
	}
	return a.state
}

// PassThreshold is ceil(total * 2 / 3).
func PassThreshold(total int) int {
	return (2*total + 2) / 3
}

func findQuestion(qs []catalog.Question, id string) (catalog.Question, bool) {
	for _, q := range qs {
		if q.ID == id {
			return q, true
		}
	}
	return catalog.Question{}, false
}
