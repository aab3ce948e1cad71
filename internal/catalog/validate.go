package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// validateLessons performs all structural checks on the given lesson set.
// Returns a combined error describing all problems found, or nil if valid.
func validateLessons(lessons []Lesson) error {
	var errs []string

	idSet := make(map[string]bool, len(lessons))
	quizSet := make(map[string]bool, len(lessons))

	for _, l := range lessons {
		if idSet[l.ID] {
			errs = append(errs, fmt.Sprintf("duplicate lesson ID: %q", l.ID))
		}
		idSet[l.ID] = true

		if l.Quiz.ID != "" {
			if quizSet[l.Quiz.ID] {
				errs = append(errs, fmt.Sprintf("duplicate quiz ID: %q", l.Quiz.ID))
			}
			quizSet[l.Quiz.ID] = true
		}
	}

	for _, l := range lessons {
		errs = append(errs, validateSteps(l)...)
		errs = append(errs, validateQuiz(l)...)
	}

	// Check for dangling prerequisites
	for _, l := range lessons {
		for _, prereqID := range l.Prerequisites {
			if !idSet[prereqID] {
				errs = append(errs, fmt.Sprintf("lesson %q references nonexistent prerequisite %q", l.ID, prereqID))
			}
		}
	}

	if cycle := prerequisiteCycle(lessons); len(cycle) > 0 {
		errs = append(errs, fmt.Sprintf("cycle detected involving lessons: %s", strings.Join(cycle, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalidCatalog, strings.Join(errs, "\n  "))
	}
	return nil
}

func validateSteps(l Lesson) []string {
	var errs []string
	if len(l.Steps) == 0 {
		return []string{fmt.Sprintf("lesson %q has no lab steps", l.ID)}
	}
	for i, s := range l.Steps {
		if s.Number != i+1 {
			errs = append(errs, fmt.Sprintf("lesson %q step %d: number %d does not match position", l.ID, i+1, s.Number))
		}
		if s.Highlight != nil && s.Highlight.DurationMs < 0 {
			errs = append(errs, fmt.Sprintf("lesson %q step %d: negative highlight duration", l.ID, s.Number))
		}
	}
	return errs
}

func validateQuiz(l Lesson) []string {
	var errs []string
	q := l.Quiz
	prefix := fmt.Sprintf("lesson %q quiz %q", l.ID, q.ID)

	if q.LessonID != l.ID {
		errs = append(errs, fmt.Sprintf("%s: belongs to lesson %q", prefix, q.LessonID))
	}
	if len(q.Questions) == 0 {
		errs = append(errs, fmt.Sprintf("%s: has no questions", prefix))
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		errs = append(errs, fmt.Sprintf("%s: passing score must be in [0, 100], got %d", prefix, q.PassingScore))
	}
	if q.TimeLimitSecs < 0 {
		errs = append(errs, fmt.Sprintf("%s: time limit must be >= 0, got %d", prefix, q.TimeLimitSecs))
	}

	seen := make(map[string]bool, len(q.Questions))
	for _, question := range q.Questions {
		if seen[question.ID] {
			errs = append(errs, fmt.Sprintf("%s: duplicate question ID %q", prefix, question.ID))
		}
		seen[question.ID] = true
		if !slices.Contains(question.Options, question.CorrectAnswer) {
			errs = append(errs, fmt.Sprintf("%s question %q: correct answer %q is not among the options", prefix, question.ID, question.CorrectAnswer))
		}
		if question.Type == QuestionTrueFalse && len(question.Options) != 2 {
			errs = append(errs, fmt.Sprintf("%s question %q: true/false needs exactly 2 options, got %d", prefix, question.ID, len(question.Options)))
		}
	}
	return errs
}

// prerequisiteCycle returns the lessons left unvisited by Kahn's algorithm,
// which are exactly those on or behind a prerequisite cycle.
func prerequisiteCycle(lessons []Lesson) []string {
	known := make(map[string]bool, len(lessons))
	for _, l := range lessons {
		known[l.ID] = true
	}

	// Dangling prerequisites are reported separately and do not count here.
	inDegree := make(map[string]int, len(lessons))
	adjList := make(map[string][]string)
	for _, l := range lessons {
		for _, prereqID := range l.Prerequisites {
			if !known[prereqID] {
				continue
			}
			inDegree[l.ID]++
			adjList[prereqID] = append(adjList[prereqID], l.ID)
		}
	}

	var queue []string
	for _, l := range lessons {
		if inDegree[l.ID] == 0 {
			queue = append(queue, l.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if visited >= len(lessons) {
		return nil
	}
	var cycle []string
	for _, l := range lessons {
		if inDegree[l.ID] > 0 {
			cycle = append(cycle, l.ID)
		}
	}
	return cycle
}
