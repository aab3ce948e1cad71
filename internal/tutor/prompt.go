package tutor

import (
	"fmt"
	"strings"

	"github.com/arlab/arlab/internal/catalog"
)

const systemPrompt = `You are a friendly science tutor inside an augmented-reality lab app. A student just finished a short quiz after an interactive 3D lesson. Explain their mistakes clearly and briefly, refer to what they saw in the lab when it helps, and never make them feel bad for getting it wrong.`

func buildUserMessage(lesson catalog.Lesson, m Missed) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Lesson: %s (%s, %s)\n", lesson.Title, catalog.SubjectDisplayName(lesson.Subject), lesson.Difficulty)
	if lesson.Description != "" {
		fmt.Fprintf(&b, "Lesson summary: %s\n", lesson.Description)
	}

	b.WriteString("\nLab steps the student worked through:\n")
	for _, s := range lesson.Steps {
		fmt.Fprintf(&b, "%d. %s: %s\n", s.Number, s.Title, s.Instruction)
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", m.Question.Text)
	if len(m.Question.Options) > 0 {
		fmt.Fprintf(&b, "Options: %s\n", strings.Join(m.Question.Options, " | "))
	}
	fmt.Fprintf(&b, "Correct answer: %s\n", m.Question.CorrectAnswer)
	if m.Given == "" {
		b.WriteString("Student's answer: (no answer)\n")
	} else {
		fmt.Fprintf(&b, "Student's answer: %s\n", m.Given)
	}
	if m.Question.Explanation != "" {
		fmt.Fprintf(&b, "Teacher's note: %s\n", m.Question.Explanation)
	}

	b.WriteString(`
Instructions:
1. Explain in 2-4 sentences why the correct answer is right.
2. If the student picked an answer, say briefly why it does not fit.
3. Give one short tip that will help them remember.
4. Plain text only. No markdown, no LaTeX.`)

	return b.String()
}
