package tutor

import (
	"context"
	"fmt"
	"strings"
)

const validatorSystem = `You are a quiz validator. Determine if the student answer is correct. Respond with only "CORRECT" or "INCORRECT".`

// ValidateAnswer asks the model whether a free-form answer matches the
// expected one. Used for questions too open-ended for index grading.
func (s *Service) ValidateAnswer(ctx context.Context, question, answer, correctAnswer string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.provider.Generate(ctx, Request{
		System: validatorSystem,
		Messages: []Message{{
			Role:    RoleUser,
			Content: fmt.Sprintf("Question: %s\nStudent Answer: %s\nCorrect Answer: %s", question, answer, correctAnswer),
		}},
		MaxTokens: 10,
	})
	if err != nil {
		return false, err
	}
	verdict := strings.TrimSpace(resp.Content)
	return strings.HasPrefix(verdict, "CORRECT"), nil
}
