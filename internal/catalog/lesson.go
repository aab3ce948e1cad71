package catalog

// Subject is the science area a lesson belongs to.
type Subject string

const (
	SubjectPhysics   Subject = "physics"
	SubjectBiology   Subject = "biology"
	SubjectChemistry Subject = "chemistry"
)

// AllSubjects returns all subjects in display order.
func AllSubjects() []Subject {
	return []Subject{SubjectPhysics, SubjectBiology, SubjectChemistry}
}

// SubjectDisplayName returns a human-readable name for a subject.
func SubjectDisplayName(s Subject) string {
	switch s {
	case SubjectPhysics:
		return "Physics"
	case SubjectBiology:
		return "Biology"
	case SubjectChemistry:
		return "Chemistry"
	default:
		return string(s)
	}
}

// Difficulty is the lesson difficulty band.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Level returns the ordinal level 1-3, or 0 for an unknown difficulty.
func (d Difficulty) Level() int {
	switch d {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	default:
		return 0
	}
}

// InteractionType is the gesture a lab step asks the learner to perform.
type InteractionType string

const (
	InteractionTap    InteractionType = "tap"
	InteractionRotate InteractionType = "rotate"
	InteractionScale  InteractionType = "scale"
	InteractionDrag   InteractionType = "drag"
	InteractionNone   InteractionType = "none"
)

// QuestionType distinguishes quiz question formats.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
)

const (
	// DefaultPassingScore applies when a quiz does not set one.
	DefaultPassingScore = 70

	// DefaultHighlightMs applies when a highlight does not set a duration.
	DefaultHighlightMs = 3000
)

// ModelHighlight tells the renderer which part of the 3D model to emphasize.
// The core treats it as opaque data.
type ModelHighlight struct {
	ObjectID   string `json:"object_id"`
	Color      string `json:"color"`
	DurationMs int    `json:"duration_ms"`
}

// LabStep is one guided instruction within a lesson.
type LabStep struct {
	Number          int             `json:"number"`
	Title           string          `json:"title"`
	Instruction     string          `json:"instruction"`
	Highlight       *ModelHighlight `json:"highlight,omitempty"`
	Interaction     InteractionType `json:"interaction"`
	ExpectedOutcome string          `json:"expected_outcome,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	AudioURL        string          `json:"audio_url,omitempty"`
}

// RequiresInteraction reports whether the step waits for a gesture.
func (s LabStep) RequiresInteraction() bool {
	return s.Interaction != "" && s.Interaction != InteractionNone
}

// Question is a single quiz question.
type Question struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation,omitempty"`
	ImageURL      string       `json:"image_url,omitempty"`
}

// Quiz is the assessment attached to a lesson.
type Quiz struct {
	ID            string     `json:"id"`
	LessonID      string     `json:"lesson_id"`
	Title         string     `json:"title"`
	Questions     []Question `json:"questions"`
	PassingScore  int        `json:"passing_score"`
	TimeLimitSecs int        `json:"time_limit_secs"` // 0 = unlimited
}

// Lesson is a unit of instructional content with ordered steps and one quiz.
type Lesson struct {
	ID               string     `json:"id"`
	Subject          Subject    `json:"subject"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Difficulty       Difficulty `json:"difficulty"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	MarkerID         string     `json:"marker_id,omitempty"`
	ModelPath        string     `json:"model_path"`
	Steps            []LabStep  `json:"steps"`
	Quiz             Quiz       `json:"quiz"`
	Prerequisites    []string   `json:"prerequisites,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
}

// TotalSteps returns the number of lab steps.
func (l Lesson) TotalSteps() int {
	return len(l.Steps)
}

// clone returns a deep copy so callers cannot mutate catalog state.
func (l Lesson) clone() Lesson {
	c := l
	c.Steps = make([]LabStep, len(l.Steps))
	for i, s := range l.Steps {
		if s.Highlight != nil {
			h := *s.Highlight
			s.Highlight = &h
		}
		c.Steps[i] = s
	}
	c.Quiz.Questions = make([]Question, len(l.Quiz.Questions))
	for i, q := range l.Quiz.Questions {
		q.Options = append([]string(nil), q.Options...)
		c.Quiz.Questions[i] = q
	}
	c.Prerequisites = append([]string(nil), l.Prerequisites...)
	c.Tags = append([]string(nil), l.Tags...)
	return c
}
