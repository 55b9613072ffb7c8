package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/K-Charitharth/proof-of-learning/internal/auth/middleware"
	"github.com/K-Charitharth/proof-of-learning/internal/credential"
	"github.com/K-Charitharth/proof-of-learning/internal/quiz"
	"github.com/K-Charitharth/proof-of-learning/internal/session"
	"github.com/K-Charitharth/proof-of-learning/internal/tutor"
)

func StartQuizHandler(quizSvc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := authmw.SubjectFromContext(r.Context())
		var req struct {
			CourseID string `json:"course_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := quizSvc.Start(id, req.CourseID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func RecordAnswerHandler(quizSvc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := authmw.SubjectFromContext(r.Context())
		var req struct {
			QuestionID  string `json:"question_id"`
			OptionIndex int    `json:"option_index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := quizSvc.RecordAnswer(id, req.QuestionID, req.OptionIndex); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SubmitQuizHandler scores the attempt and, on a pass, mints the
// credential in the same response. A failed quiz is a normal 200 with
// passed=false, not an error.
func SubmitQuizHandler(quizSvc *quiz.Service, issuer *credential.Issuer, mgr *session.Manager) http.HandlerFunc {
	type out struct {
		Score      quiz.ScoreResult       `json:"score"`
		Credential *credential.Credential `json:"credential,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := authmw.SubjectFromContext(r.Context())
		result, err := quizSvc.Score(id)
		if err != nil {
			writeError(w, err)
			return
		}
		resp := out{Score: result}
		if result.Passed {
			sess, err := mgr.Get(id)
			if err != nil {
				writeError(w, err)
				return
			}
			cred, err := issuer.Issue(r.Context(), sess, result.CourseID, result)
			if err != nil {
				writeError(w, err)
				return
			}
			resp.Credential = &cred
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// ValidateAnswerHandler grades a free-form answer through the tutor
// model, for prompts too open-ended for option indexes.
func ValidateAnswerHandler(tutorSvc *tutor.Service) http.HandlerFunc {
	type out struct {
		Correct bool `json:"correct"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Question      string `json:"question"`
			Answer        string `json:"answer"`
			CorrectAnswer string `json:"correct_answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		ok, err := tutorSvc.ValidateAnswer(r.Context(), req.Question, req.Answer, req.CorrectAnswer)
		if err != nil {
			writeError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(out{Correct: ok})
	}
}
