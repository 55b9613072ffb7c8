package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/K-Charitharth/proof-of-learning/internal/auth/middleware"
	"github.com/K-Charitharth/proof-of-learning/internal/tutor"
)

// StartChatHandler opens a tutor conversation for a course, seeded with
// the assistant greeting.
func StartChatHandler(tutorSvc *tutor.Service, cat courseGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := authmw.SubjectFromContext(r.Context())
		var req struct {
			CourseID string `json:"course_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		course, err := cat.Get(req.CourseID)
		if err != nil {
			writeError(w, err)
			return
		}
		tutorSvc.Start(id, course)
		writeTranscript(w, tutorSvc, id)
	}
}

// SendMessageHandler appends the user message and kicks off generation.
// The reply arrives asynchronously; clients poll the transcript.
func SendMessageHandler(tutorSvc *tutor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := authmw.SubjectFromContext(r.Context())
		var req struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := tutorSvc.Send(r.Context(), id, req.Content); err != nil {
			writeError(w, err)
			return
		}
		writeTranscript(w, tutorSvc, id)
	}
}

func TranscriptHandler(tutorSvc *tutor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := authmw.SubjectFromContext(r.Context())
		writeTranscript(w, tutorSvc, id)
	}
}

func writeTranscript(w http.ResponseWriter, tutorSvc *tutor.Service, sessionID string) {
	type out struct {
		Messages   []tutor.ChatMessage `json:"messages"`
		Responding bool                `json:"responding"`
	}
	msgs, responding, err := tutorSvc.Transcript(sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(out{Messages: msgs, Responding: responding})
}
