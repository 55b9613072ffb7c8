package http

import (
	"errors"
	"net/http"

	"github.com/K-Charitharth/proof-of-learning/internal/catalog"
	"github.com/K-Charitharth/proof-of-learning/internal/credential"
	"github.com/K-Charitharth/proof-of-learning/internal/quiz"
	"github.com/K-Charitharth/proof-of-learning/internal/session"
	"github.com/K-Charitharth/proof-of-learning/internal/tutor"
)

// writeError maps domain errors to HTTP status codes. All of these are
// precondition violations recoverable by retrying the user action, so
// nothing here is fatal.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrProviderUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, session.ErrUserRejected),
		errors.Is(err, session.ErrUnknownSession):
		status = http.StatusUnauthorized
	case errors.Is(err, session.ErrNotConnected),
		errors.Is(err, session.ErrNotAuthorized),
		errors.Is(err, session.ErrVerificationFailed),
		errors.Is(err, credential.ErrNotEligible):
		status = http.StatusForbidden
	case errors.Is(err, catalog.ErrUnknownCourse),
		errors.Is(err, quiz.ErrUnknownQuestion),
		errors.Is(err, credential.ErrUnknownToken):
		status = http.StatusNotFound
	case errors.Is(err, quiz.ErrInvalidOption),
		errors.Is(err, tutor.ErrEmptyMessage):
		status = http.StatusBadRequest
	case errors.Is(err, quiz.ErrNotInProgress),
		errors.Is(err, credential.ErrAlreadyIssued),
		errors.Is(err, tutor.ErrNoConversation):
		status = http.StatusConflict
	default:
		var unavailable *tutor.ErrProviderUnavailable
		var limited *tutor.ErrRateLimit
		if errors.As(err, &unavailable) || errors.As(err, &limited) {
			status = http.StatusServiceUnavailable
		}
	}
	http.Error(w, err.Error(), status)
}
