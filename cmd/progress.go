package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arlab/arlab/internal/progress"
	"github.com/arlab/arlab/internal/store"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect learner progress",
}

var progressShowCmd = &cobra.Command{
	Use:   "show <lesson>",
	Short: "Show progress for one lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, logQuiet)
		if err != nil {
			return err
		}
		defer d.Close()

		l, err := d.lesson(args[0])
		if err != nil {
			return err
		}
		p, err := d.tracker.Load(cmd.Context(), l.ID, d.cfg.UserID)
		if err != nil {
			return err
		}

		total := l.TotalSteps()
		fmt.Printf("%s (%s) for %s\n\n", l.Title, l.ID, d.cfg.UserID)
		fmt.Printf("Steps:       %d/%d (%.0f%%)\n", progress.CompletedCount(p, total), total, progress.Percent(p, total)*100)
		fmt.Printf("Resume at:   step %d\n", progress.CurrentStep(p, total)+1)
		fmt.Printf("Completed:   %v\n", p.Completed)
		fmt.Printf("Bookmarked:  %v\n", p.Bookmarked)
		if p.QuizAttempts > 0 {
			fmt.Printf("Quiz:        %d%% after %d attempt(s)\n", p.QuizScore, p.QuizAttempts)
		} else {
			fmt.Println("Quiz:        not taken")
		}
		fmt.Printf("Time spent:  %s\n", p.TimeSpent.Round(time.Second))
		if !p.LastAccessed.IsZero() {
			fmt.Printf("Last seen:   %s\n", p.LastAccessed.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var progressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List progress records, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		completed, _ := cmd.Flags().GetBool("completed")
		bookmarked, _ := cmd.Flags().GetBool("bookmarked")
		if completed && bookmarked {
			return fmt.Errorf("--completed and --bookmarked are mutually exclusive")
		}

		d, err := setup(cmd, logQuiet)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		var records []store.Progress
		switch {
		case completed:
			records, err = d.tracker.Completed(ctx, d.cfg.UserID)
		case bookmarked:
			records, err = d.tracker.Bookmarked(ctx, d.cfg.UserID)
		default:
			records, err = d.tracker.All(ctx, d.cfg.UserID)
		}
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No progress recorded yet.")
			return nil
		}

		fmt.Printf("%-16s  %-7s  %-5s  %-4s  %-9s  %s\n",
			"Lesson", "Steps", "Quiz", "Done", "Time", "Last seen")
		fmt.Println(strings.Repeat("─", 72))
		for _, p := range records {
			steps := fmt.Sprintf("%d", len(p.CompletedSteps))
			if l, ok := d.catalog.Get(p.LessonID); ok {
				steps = fmt.Sprintf("%d/%d", len(p.CompletedSteps), l.TotalSteps())
			}
			quiz := "-"
			if p.QuizAttempts > 0 {
				quiz = fmt.Sprintf("%d%%", p.QuizScore)
			}
			done := ""
			if p.Completed {
				done = "✓"
			}
			if p.Bookmarked {
				done += "★"
			}
			fmt.Printf("%-16s  %-7s  %-5s  %-4s  %-9s  %s\n",
				p.LessonID, steps, quiz, done,
				p.TimeSpent.Round(time.Second),
				p.LastAccessed.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var progressStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise progress across lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, logQuiet)
		if err != nil {
			return err
		}
		defer d.Close()

		s, err := d.tracker.Stats(cmd.Context(), d.cfg.UserID)
		if err != nil {
			return err
		}
		fmt.Printf("Lessons started:    %d of %d\n", s.Lessons, d.catalog.Len())
		fmt.Printf("Lessons completed:  %d\n", s.Completed)
		fmt.Printf("Bookmarked:         %d\n", s.Bookmarked)
		if s.HasScores {
			fmt.Printf("Average quiz score: %.1f%%\n", s.AverageScore)
		} else {
			fmt.Println("Average quiz score: -")
		}
		return nil
	},
}

var progressHistoryCmd = &cobra.Command{
	Use:   "history <lesson>",
	Short: "List quiz attempts for a lesson, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := setup(cmd, logQuiet)
		if err != nil {
			return err
		}
		defer d.Close()

		l, err := d.lesson(args[0])
		if err != nil {
			return err
		}
		attempts, err := d.tracker.History(cmd.Context(), l.ID, d.cfg.UserID, limit)
		if err != nil {
			return err
		}
		if len(attempts) == 0 {
			fmt.Println("No quiz attempts yet.")
			return nil
		}

		fmt.Printf("%-19s  %5s  %7s  %-6s  %s\n", "Submitted", "Score", "Correct", "Result", "Answers")
		fmt.Println(strings.Repeat("─", 72))
		for _, a := range attempts {
			result := "fail"
			if a.Passed {
				result = "pass"
			}
			fmt.Printf("%-19s  %4d%%  %3d/%-3d  %-6s  %s\n",
				a.SubmittedAt.Local().Format("2006-01-02 15:04:05"),
				a.Score, a.Correct, a.Total, result,
				strings.Join(a.Answers, " | "))
		}
		return nil
	},
}

func init() {
	progressListCmd.Flags().Bool("completed", false, "Only completed lessons")
	progressListCmd.Flags().Bool("bookmarked", false, "Only bookmarked lessons")
	progressHistoryCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show (0 for all)")

	progressCmd.AddCommand(progressShowCmd)
	progressCmd.AddCommand(progressListCmd)
	progressCmd.AddCommand(progressStatsCmd)
	progressCmd.AddCommand(progressHistoryCmd)
}
