package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/kotoba/internal/revision"
	"github.com/abhisek/kotoba/internal/session"
)

// playQuiz asks the remaining questions of flow on out, reading answers
// from in. Closing the input or typing "q" leaves the session to resume later.
func playQuiz(ctx context.Context, flow *revision.Flow, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	sess := flow.Session()

	for {
		cur, ok := sess.Current()
		if !ok {
			break
		}
		q := cur.QuestionData.Question

		fmt.Fprintf(out, "── Question %d/%d · %s ──\n", cur.Sequence, sess.Total(), cur.QuestionData.Topic)
		fmt.Fprintln(out, q.Prompt)
		for i, o := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, o)
		}

		var option string
		for option == "" {
			fmt.Fprintf(out, "\nYour answer (1-%d, q to stop): ", len(q.Options))
			if !scanner.Scan() {
				fmt.Fprintln(out, "\n(input closed, session kept)")
				return scanner.Err()
			}
			text := strings.TrimSpace(scanner.Text())
			if text == "q" {
				fmt.Fprintln(out, "Session kept. Continue later with --resume.")
				return nil
			}
			option = pickOption(text, q.Options)
			if option == "" {
				fmt.Fprintf(out, "Choose a number from 1 to %d.\n", len(q.Options))
			}
		}

		fb, err := flow.Answer(ctx, option)
		if fb.Sequence == 0 {
			return err
		}
		if err != nil {
			fmt.Fprintln(out, "warning:", err)
		}
		if fb.Correct {
			fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Fprintf(out, "\033[31m✗ Wrong.\033[0m Answer: %s\n", fb.CorrectAnswer)
		}
		if fb.Explanation != "" {
			fmt.Fprintf(out, "Explanation: %s\n", fb.Explanation)
		}
		fmt.Fprintln(out)
	}

	printSummary(out, sess.Snapshot())
	return nil
}

// pickOption resolves a 1-based number or an exact option value.
func pickOption(text string, options []string) string {
	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1]
		}
		return ""
	}
	for _, o := range options {
		if o == text {
			return o
		}
	}
	return ""
}

func printSummary(out io.Writer, s session.Session) {
	sum := session.BuildSummary(s)
	fmt.Fprintf(out, "── Summary: %d/%d correct (%.0f%%) ──\n", sum.Score, sum.Total, sum.Accuracy*100)
	for _, q := range sum.Incorrect {
		fmt.Fprintf(out, "  #%d %s\n     your answer: %s · correct: %s\n",
			q.Sequence, q.QuestionData.Question.Prompt, q.Answer, q.QuestionData.Question.CorrectAnswer)
	}
}

// Save modes for finished quizzes.
const (
	saveNone      = "none"
	saveIncorrect = "incorrect"
	saveAll       = "all"
)

// saveResults stores the selected slots of a finished quiz in the bank.
// Slots that are already saved are left alone.
func saveResults(ctx context.Context, flow *revision.Flow, mode string, out io.Writer) error {
	if mode == saveNone || mode == "" {
		return nil
	}
	var saved int
	for _, slot := range flow.Results(mode == saveIncorrect) {
		if slot.ID != nil {
			continue
		}
		view, err := flow.Saves().Run(ctx, slot.Sequence)
		if err != nil {
			return fmt.Errorf("save question %d: %w", slot.Sequence, err)
		}
		saved++
		fmt.Fprintf(out, "Saved question %d as #%d\n", slot.Sequence, *view.ID)
	}
	if saved == 0 {
		fmt.Fprintln(out, "Nothing new to save.")
	}
	return nil
}

func validSaveMode(mode string) error {
	switch mode {
	case saveNone, saveIncorrect, saveAll:
		return nil
	}
	return fmt.Errorf("invalid --save %q: must be none, incorrect or all", mode)
}
