// Package catalog holds the read-only set of AR lessons, their lab steps and
// quizzes. Lessons are loaded once from a versioned JSON data file and never
// mutated afterwards; every accessor hands out deep copies.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
)

var (
	// ErrInvalidCatalog is returned when catalog data fails structural checks.
	ErrInvalidCatalog = errors.New("catalog validation failed")

	// ErrUnsupportedVersion is returned for data files of an unknown format.
	ErrUnsupportedVersion = errors.New("unsupported catalog version")
)

//go:embed data/lessons.json
var embeddedLessons []byte

// document is the on-disk layout of a catalog data file.
type document struct {
	Version string   `json:"version"`
	Lessons []Lesson `json:"lessons"`
}

// Catalog is an immutable, indexed collection of lessons.
type Catalog struct {
	version   string
	lessons   []Lesson
	byID      map[string]int
	bySubject map[Subject][]int
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Parse(embeddedLessons)
})

// Default returns the catalog built into the binary.
func Default() (*Catalog, error) {
	return defaultCatalog()
}

// LoadFile reads a catalog data file from disk. An empty path selects the
// built-in catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes, validates and indexes raw catalog JSON.
func Parse(raw []byte) (*Catalog, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}

	for i := range doc.Lessons {
		applyDefaults(&doc.Lessons[i])
	}
	if err := validateLessons(doc.Lessons); err != nil {
		return nil, err
	}

	return build(doc.Version, doc.Lessons), nil
}

// New builds a catalog from in-memory lessons after defaulting and validating them.
func New(lessons []Lesson) (*Catalog, error) {
	ls := make([]Lesson, len(lessons))
	for i, l := range lessons {
		ls[i] = l.clone()
		applyDefaults(&ls[i])
	}
	if err := validateLessons(ls); err != nil {
		return nil, err
	}
	return build("", ls), nil
}

func applyDefaults(l *Lesson) {
	if l.Quiz.LessonID == "" {
		l.Quiz.LessonID = l.ID
	}
	if l.Quiz.PassingScore == 0 {
		l.Quiz.PassingScore = DefaultPassingScore
	}
	for i := range l.Steps {
		s := &l.Steps[i]
		if s.Interaction == "" {
			s.Interaction = InteractionNone
		}
		if s.Highlight != nil && s.Highlight.DurationMs == 0 {
			s.Highlight.DurationMs = DefaultHighlightMs
		}
	}
}

func build(version string, lessons []Lesson) *Catalog {
	c := &Catalog{
		version:   version,
		lessons:   lessons,
		byID:      make(map[string]int, len(lessons)),
		bySubject: make(map[Subject][]int),
	}
	for i, l := range lessons {
		c.byID[l.ID] = i
		c.bySubject[l.Subject] = append(c.bySubject[l.Subject], i)
	}
	return c
}

// Version returns the data file version the catalog was loaded from.
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of lessons.
func (c *Catalog) Len() int {
	return len(c.lessons)
}

// All returns every lesson in data file order.
func (c *Catalog) All() []Lesson {
	out := make([]Lesson, len(c.lessons))
	for i, l := range c.lessons {
		out[i] = l.clone()
	}
	return out
}

// Get returns the lesson with the given ID. Unknown IDs report false.
func (c *Catalog) Get(id string) (Lesson, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Lesson{}, false
	}
	return c.lessons[i].clone(), true
}

// BySubject returns the lessons of one subject in data file order.
func (c *Catalog) BySubject(s Subject) []Lesson {
	idx := c.bySubject[s]
	out := make([]Lesson, len(idx))
	for i, j := range idx {
		out[i] = c.lessons[j].clone()
	}
	return out
}

// Subjects returns the subjects that have at least one lesson, in display order.
func (c *Catalog) Subjects() []Subject {
	var out []Subject
	for _, s := range AllSubjects() {
		if len(c.bySubject[s]) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// IDs returns all lesson IDs sorted.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
