package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/quiz"
	"github.com/arlab/arlab/internal/tutor"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <lesson>",
	Short: "Take a lesson's quiz in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		explain, _ := cmd.Flags().GetBool("explain")

		d, err := setup(cmd, logQuiet)
		if err != nil {
			return err
		}
		defer d.Close()

		l, err := d.lesson(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		s := quiz.New(d.tracker, l.ID, d.cfg.UserID)
		if err := s.Start(l.Quiz); err != nil {
			return err
		}

		r, err := playQuiz(ctx, os.Stdin, os.Stdout, s)
		printResult(os.Stdout, r)
		if err != nil {
			return err
		}

		if explain {
			missed := tutor.MissedFrom(l.Quiz, r.Answers)
			if len(missed) == 0 {
				return nil
			}
			exps, err := d.tutor(cmd, false).Explain(ctx, l, missed)
			printExplanations(os.Stdout, exps)
			return err
		}
		return nil
	},
}

// playQuiz asks each question on out and reads answers from in until the
// quiz is submitted. Input ending early submits what has been answered.
func playQuiz(ctx context.Context, in io.Reader, out io.Writer, s *quiz.Session) (quiz.Result, error) {
	scanner := bufio.NewScanner(in)
	for {
		q, err := s.CurrentQuestion()
		if err != nil {
			return quiz.Result{}, err
		}
		fmt.Fprintf(out, "\nQ%d/%d  %s\n", s.Index()+1, s.Total(), q.Text)
		for i, o := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, o)
		}

		answered := false
		for !answered {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return s.Submit(ctx)
			}
			given, err := parseChoice(scanner.Text(), q)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			correct, err := s.SubmitAnswer(given)
			if err != nil {
				return quiz.Result{}, err
			}
			if correct {
				fmt.Fprintln(out, "Correct!")
			} else {
				fmt.Fprintf(out, "Not quite. The answer is %s.\n", q.CorrectAnswer)
			}
			answered = true
		}

		err = s.AdvanceQuestion()
		switch {
		case errors.Is(err, quiz.ErrNoMoreQuestions):
			return s.Submit(ctx)
		case err != nil:
			return quiz.Result{}, err
		}
	}
}

// parseChoice accepts an option number or the option text, ignoring case.
func parseChoice(line string, q catalog.Question) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("type an option number")
	}
	if n, err := strconv.Atoi(line); err == nil {
		if n < 1 || n > len(q.Options) {
			return "", fmt.Errorf("pick a number from 1 to %d", len(q.Options))
		}
		return q.Options[n-1], nil
	}
	for _, o := range q.Options {
		if strings.EqualFold(o, line) {
			return o, nil
		}
	}
	return "", fmt.Errorf("%q is not one of the options", line)
}

func printResult(out io.Writer, r quiz.Result) {
	if r.TotalQuestions == 0 {
		return
	}
	verdict := "not passed"
	if r.Passed {
		verdict = "passed"
	}
	fmt.Fprintf(out, "\nScore: %d%% (%d/%d), %s. Passing score is %d%%.\n",
		r.Score, r.CorrectAnswers, r.TotalQuestions, verdict, r.PassingScore)
}

func printExplanations(out io.Writer, exps []tutor.Explanation) {
	for _, e := range exps {
		fmt.Fprintf(out, "\n%s\n  Answer: %s\n  %s\n", e.Question, e.CorrectAnswer, e.Text)
		if e.Tip != "" {
			fmt.Fprintf(out, "  Tip: %s\n", e.Tip)
		}
	}
}

func init() {
	quizCmd.Flags().Bool("explain", false, "Explain missed questions after scoring")
}
