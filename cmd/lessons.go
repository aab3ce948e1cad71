package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arlab/arlab/internal/catalog"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Browse the lesson catalog",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		lessons := cat.All()
		if s, _ := cmd.Flags().GetString("subject"); s != "" {
			subject := catalog.Subject(strings.ToLower(s))
			if !slices.Contains(catalog.AllSubjects(), subject) {
				return fmt.Errorf("unknown subject %q (want one of %s)", s, subjectList())
			}
			lessons = cat.BySubject(subject)
		}

		if len(lessons) == 0 {
			fmt.Println("No lessons found.")
			return nil
		}

		fmt.Printf("%-16s  %-10s  %-12s  %5s  %5s  %s\n",
			"ID", "Subject", "Difficulty", "Steps", "Min", "Title")
		fmt.Println(strings.Repeat("─", 80))
		for _, l := range lessons {
			fmt.Printf("%-16s  %-10s  %-12s  %5d  %5d  %s\n",
				l.ID, catalog.SubjectDisplayName(l.Subject), l.Difficulty,
				l.TotalSteps(), l.EstimatedMinutes, l.Title)
		}
		return nil
	},
}

var lessonsShowCmd = &cobra.Command{
	Use:   "show <lesson>",
	Short: "Show a lesson's steps and quiz outline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		l, ok := cat.Get(args[0])
		if !ok {
			return fmt.Errorf("lesson %q not found (see 'arlab lessons list')", args[0])
		}
		printLesson(l)
		return nil
	},
}

func printLesson(l catalog.Lesson) {
	sep := strings.Repeat("─", 60)

	fmt.Printf("%s\n%s\n\n", l.Title, l.Description)
	fmt.Printf("ID:          %s\n", l.ID)
	fmt.Printf("Subject:     %s\n", catalog.SubjectDisplayName(l.Subject))
	fmt.Printf("Difficulty:  %s\n", l.Difficulty)
	fmt.Printf("Duration:    ~%d min\n", l.EstimatedMinutes)
	fmt.Printf("Model:       %s\n", l.ModelPath)
	if l.MarkerID != "" {
		fmt.Printf("Marker:      %s\n", l.MarkerID)
	}
	if len(l.Prerequisites) > 0 {
		fmt.Printf("Requires:    %s\n", strings.Join(l.Prerequisites, ", "))
	}
	if len(l.Tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(l.Tags, ", "))
	}

	fmt.Println()
	fmt.Println(sep)
	fmt.Println("STEPS")
	fmt.Println(sep)
	for _, s := range l.Steps {
		fmt.Printf("%d. %s\n   %s\n", s.Number, s.Title, s.Instruction)
		if s.Highlight != nil {
			fmt.Printf("   highlight: %s (%s, %dms)\n", s.Highlight.ObjectID, s.Highlight.Color, s.Highlight.DurationMs)
		}
		if s.RequiresInteraction() {
			fmt.Printf("   interaction: %s\n", s.Interaction)
		}
	}

	q := l.Quiz
	fmt.Println(sep)
	fmt.Printf("QUIZ  %s\n", q.Title)
	fmt.Println(sep)
	limit := "none"
	if q.TimeLimitSecs > 0 {
		limit = fmt.Sprintf("%ds", q.TimeLimitSecs)
	}
	fmt.Printf("%d questions, pass at %d%%, time limit %s\n", len(q.Questions), q.PassingScore, limit)
}

func subjectList() string {
	var names []string
	for _, s := range catalog.AllSubjects() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func init() {
	lessonsListCmd.Flags().StringP("subject", "s", "", "Only list lessons of this subject")

	lessonsCmd.AddCommand(lessonsListCmd)
	lessonsCmd.AddCommand(lessonsShowCmd)
}
