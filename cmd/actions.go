package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var stepCmd = &cobra.Command{
	Use:   "step <lesson> <n>",
	Short: "Mark a lesson step completed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step %q: %w", args[1], err)
		}

		d, err := setup(cmd, logQuiet)
		if err != nil {
			return err
		}
		defer d.Close()

		l, err := d.lesson(args[0])
		if err != nil {
			return err
		}
		if err := d.tracker.MarkStepCompleted(cmd.Context(), l.ID, d.cfg.UserID, n); err != nil {
			return err
		}
		fmt.Printf("Step %d of %q marked completed.\n", n, l.Title)
		return nil
	},
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark <lesson>",
	Short: "Toggle a lesson bookmark",
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
		on, err := d.tracker.ToggleBookmark(cmd.Context(), l.ID, d.cfg.UserID)
		if err != nil {
			return err
		}
		if on {
			fmt.Printf("Bookmarked %q.\n", l.Title)
		} else {
			fmt.Printf("Removed bookmark from %q.\n", l.Title)
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <lesson>",
	Short: "Delete all progress for a lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		d, err := setup(cmd, logQuiet)
		if err != nil {
			return err
		}
		defer d.Close()

		l, err := d.lesson(args[0])
		if err != nil {
			return err
		}
		if !yes && !confirm(fmt.Sprintf("Reset all progress for %q?", l.Title)) {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := d.tracker.ResetProgress(cmd.Context(), l.ID, d.cfg.UserID); err != nil {
			return err
		}
		fmt.Printf("Progress for %q reset.\n", l.Title)
		return nil
	},
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
