package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/K-Charitharth/proof-of-learning/internal/catalog"
)

// courseGetter is the slice of the catalog handlers need.
type courseGetter interface {
	Get(id string) (catalog.Course, error)
}

// ListCoursesHandler serves the catalog in stable order. Correct
// indexes never reach the wire; catalog.Question hides them from JSON.
func ListCoursesHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(cat.List())
	}
}

func GetCourseHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		course, err := cat.Get(chi.URLParam(r, "courseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(course)
	}
}

// UpsertCourseHandler replaces or adds a course definition at runtime.
// Admin-only; this is the one payload that carries correct indexes.
func UpsertCourseHandler(cat *catalog.Catalog) http.HandlerFunc {
	type questionIn struct {
		ID           string   `json:"id"`
		Prompt       string   `json:"prompt"`
		Options      []string `json:"options"`
		CorrectIndex int      `json:"correct_index"`
	}
	type courseIn struct {
		ID          string       `json:"id"`
		Title       string       `json:"title"`
		Description string       `json:"description"`
		Duration    string       `json:"duration"`
		Difficulty  string       `json:"difficulty"`
		Topics      []string     `json:"topics"`
		Questions   []questionIn `json:"questions"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req courseIn
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		course := catalog.Course{
			ID:          req.ID,
			Title:       req.Title,
			Description: req.Description,
			Duration:    req.Duration,
			Difficulty:  req.Difficulty,
			Topics:      req.Topics,
		}
		for _, q := range req.Questions {
			course.Questions = append(course.Questions, catalog.Question{
				ID:           q.ID,
				Prompt:       q.Prompt,
				Options:      q.Options,
				CorrectIndex: q.CorrectIndex,
			})
		}
		if err := cat.Upsert(course); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
