package catalog

import (
	"errors"
	"strings"
	"testing"
)

func testLesson(id string) Lesson {
	return Lesson{
		ID:         id,
		Subject:    SubjectPhysics,
		Title:      "Test " + id,
		Difficulty: DifficultyBeginner,
		Steps: []LabStep{
			{Number: 1, Title: "One", Interaction: InteractionNone},
			{Number: 2, Title: "Two", Interaction: InteractionTap},
		},
		Quiz: Quiz{
			ID:           "quiz_" + id,
			LessonID:     id,
			PassingScore: 70,
			Questions: []Question{
				{ID: "q1", Type: QuestionMultipleChoice, Options: []string{"a", "b"}, CorrectAnswer: "a"},
			},
		},
	}
}

func TestValidate_DefaultCatalogPasses(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if err := validateLessons(c.All()); err != nil {
		t.Fatalf("default catalog validation failed: %v", err)
	}
}

func TestValidateLessons(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]Lesson) []Lesson
		want   string
	}{
		{
			name: "duplicate id",
			mutate: func(ls []Lesson) []Lesson {
				dup := testLesson("a")
				dup.Quiz.ID = "quiz_other"
				return append(ls, dup)
			},
			want: "duplicate lesson ID",
		},
		{
			name: "no steps",
			mutate: func(ls []Lesson) []Lesson {
				ls[0].Steps = nil
				return ls
			},
			want: "no lab steps",
		},
		{
			name: "step numbering",
			mutate: func(ls []Lesson) []Lesson {
				ls[0].Steps[1].Number = 5
				return ls
			},
			want: "does not match position",
		},
		{
			name: "empty quiz",
			mutate: func(ls []Lesson) []Lesson {
				ls[0].Quiz.Questions = nil
				return ls
			},
			want: "has no questions",
		},
		{
			name: "answer not in options",
			mutate: func(ls []Lesson) []Lesson {
				ls[0].Quiz.Questions[0].CorrectAnswer = "z"
				return ls
			},
			want: "not among the options",
		},
		{
			name: "passing score range",
			mutate: func(ls []Lesson) []Lesson {
				ls[0].Quiz.PassingScore = 101
				return ls
			},
			want: "passing score",
		},
		{
			name: "quiz owner mismatch",
			mutate: func(ls []Lesson) []Lesson {
				ls[0].Quiz.LessonID = "b"
				return ls
			},
			want: "belongs to lesson",
		},
		{
			name: "true false option count",
			mutate: func(ls []Lesson) []Lesson {
				ls[0].Quiz.Questions[0].Type = QuestionTrueFalse
				ls[0].Quiz.Questions[0].Options = []string{"a", "b", "c"}
				return ls
			},
			want: "exactly 2 options",
		},
		{
			name: "dangling prerequisite",
			mutate: func(ls []Lesson) []Lesson {
				ls[0].Prerequisites = []string{"nonexistent"}
				return ls
			},
			want: "nonexistent",
		},
		{
			name: "prerequisite cycle",
			mutate: func(ls []Lesson) []Lesson {
				ls[0].Prerequisites = []string{"b"}
				ls[1].Prerequisites = []string{"a"}
				return ls
			},
			want: "cycle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lessons := tt.mutate([]Lesson{testLesson("a"), testLesson("b")})
			err := validateLessons(lessons)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("error should wrap ErrInvalidCatalog, got: %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	l := testLesson("a")
	l.Quiz.PassingScore = 0
	l.Quiz.LessonID = ""
	l.Steps[0].Interaction = ""
	l.Steps[0].Highlight = &ModelHighlight{ObjectID: "box", Color: "#FF0000"}

	c, err := New([]Lesson{l})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, _ := c.Get("a")
	if got.Quiz.PassingScore != DefaultPassingScore {
		t.Errorf("passing score = %d, want %d", got.Quiz.PassingScore, DefaultPassingScore)
	}
	if got.Quiz.LessonID != "a" {
		t.Errorf("quiz lesson = %q, want %q", got.Quiz.LessonID, "a")
	}
	if got.Steps[0].Interaction != InteractionNone {
		t.Errorf("interaction = %q, want %q", got.Steps[0].Interaction, InteractionNone)
	}
	if got.Steps[0].Highlight.DurationMs != DefaultHighlightMs {
		t.Errorf("highlight duration = %d, want %d", got.Steps[0].Highlight.DurationMs, DefaultHighlightMs)
	}
}

func TestNew_DoesNotAliasInput(t *testing.T) {
	l := testLesson("a")
	c, err := New([]Lesson{l})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Steps[0].Title = "mutated"
	got, _ := c.Get("a")
	if got.Steps[0].Title != "One" {
		t.Errorf("catalog aliased caller slice: title = %q", got.Steps[0].Title)
	}
}
