package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/K-Charitharth/proof-of-learning/internal/auth/middleware"
	"github.com/K-Charitharth/proof-of-learning/internal/quiz"
	"github.com/K-Charitharth/proof-of-learning/internal/session"
	"github.com/K-Charitharth/proof-of-learning/internal/tutor"
)

// ConnectHandler opens a session through the wallet provider and hands
// back a bearer token scoped to it. onConnect hooks run after the
// session exists (demo-credential seeding).
func ConnectHandler(mgr *session.Manager, auth *authmw.AuthService, onConnect ...func(sessionID string)) http.HandlerFunc {
	type out struct {
		AccessToken string          `json:"access_token"`
		Session     session.Session `json:"session"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Connect(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		for _, hook := range onConnect {
			hook(s.ID)
		}
		tok, err := auth.IssueJWT(s.ID, "learner")
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(out{AccessToken: tok, Session: s})
	}
}

func VerifyHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := authmw.SubjectFromContext(r.Context())
		s, err := mgr.VerifyHumanity(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(s)
	}
}

// SelectCourseHandler sets the active course and seeds the tutor
// conversation for it, so the greeting is ready before the first poll.
func SelectCourseHandler(mgr *session.Manager, tutorSvc *tutor.Service, cat courseGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := authmw.SubjectFromContext(r.Context())
		var req struct {
			CourseID string `json:"course_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		s, err := mgr.SelectCourse(id, req.CourseID)
		if err != nil {
			writeError(w, err)
			return
		}
		course, err := cat.Get(req.CourseID)
		if err != nil {
			writeError(w, err)
			return
		}
		tutorSvc.Start(id, course)
		_ = json.NewEncoder(w).Encode(s)
	}
}

// LogoutHandler resets the session and clears its quiz attempt and
// conversation log.
func LogoutHandler(mgr *session.Manager, quizSvc *quiz.Service, tutorSvc *tutor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := authmw.SubjectFromContext(r.Context())
		s := mgr.Logout(id)
		quizSvc.Reset(id)
		tutorSvc.Reset(id)
		_ = json.NewEncoder(w).Encode(s)
	}
}
