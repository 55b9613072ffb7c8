package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

var ErrUnknownCourse = errors.New("unknown course")

type Question struct {
	ID      string   `yaml:"id" json:"id"`
	Prompt  string   `yaml:"prompt" json:"prompt"`
	Options []string `yaml:"options" json:"options"`
	// CorrectIndex is never serialized to clients; quiz answers are
	// graded server-side only.
	CorrectIndex int `yaml:"correct_index" json:"-"`
}

type Course struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Duration    string     `yaml:"duration" json:"duration"`
	Difficulty  string     `yaml:"difficulty" json:"difficulty"` // Beginner|Intermediate|Advanced
	Topics      []string   `yaml:"topics" json:"topics"`
	Questions   []Question `yaml:"questions" json:"questions"`
}

//go:embed courses.yaml
var defaultCoursesYAML []byte

// Catalog is the read-mostly course registry. List order is stable:
// file order for the built-in courses, append order for courses added
// at runtime by an admin.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	courses map[string]Course
}

// Load parses the embedded default course file.
func Load() (*Catalog, error) {
	return Parse(defaultCoursesYAML)
}

// Parse builds a catalog from YAML. Every course is validated; a bad
// definition fails the whole load so the server never starts with a
// half-usable catalog.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Courses []Course `yaml:"courses"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Courses) == 0 {
		return nil, errors.New("catalog has no courses")
	}
	c := &Catalog{courses: make(map[string]Course, len(doc.Courses))}
	for _, course := range doc.Courses {
		if err := Validate(course); err != nil {
			return nil, fmt.Errorf("course %q: %w", course.ID, err)
		}
		if _, dup := c.courses[course.ID]; dup {
			return nil, fmt.Errorf("duplicate course id %q", course.ID)
		}
		c.order = append(c.order, course.ID)
		c.courses[course.ID] = course
	}
	return c, nil
}

// Validate checks a single course definition.
func Validate(course Course) error {
	if course.ID == "" {
		return errors.New("missing id")
	}
	if course.Title == "" {
		return errors.New("missing title")
	}
	switch course.Difficulty {
	case "Beginner", "Intermediate", "Advanced":
	default:
		return fmt.Errorf("bad difficulty %q", course.Difficulty)
	}
	if len(course.Questions) == 0 {
		return errors.New("empty question set")
	}
	seen := make(map[string]struct{}, len(course.Questions))
	for _, q := range course.Questions {
		if q.ID == "" {
			return errors.New("question missing id")
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %q needs at least 2 options", q.ID)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("question %q correct_index out of range", q.ID)
		}
	}
	return nil
}

// List returns courses in stable order. Same order every call.
func (c *Catalog) List() []Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Course, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.courses[id])
	}
	return out
}

func (c *Catalog) Get(id string) (Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	course, ok := c.courses[id]
	if !ok {
		return Course{}, ErrUnknownCourse
	}
	return course, nil
}

// Upsert replaces or appends a course definition. Admin-only surface;
// the new definition is validated first so readers never observe a
// broken course.
func (c *Catalog) Upsert(course Course) error {
	if err := Validate(course); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.courses[course.ID]; !exists {
		c.order = append(c.order, course.ID)
	}
	c.courses[course.ID] = course
	return nil
}
