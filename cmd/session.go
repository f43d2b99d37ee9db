package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/revision"
	"github.com/abhisek/kotoba/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or discard the stored quiz sessions",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored practice and revision sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		out := cmd.OutOrStdout()
		for _, key := range sessionKeys(cmd) {
			flow, err := revision.Open(cmd.Context(), st, key, nil, cliLogger(cmd))
			if err != nil {
				return fmt.Errorf("open %s session: %w", key, err)
			}
			snap := flow.Session().Snapshot()
			fmt.Fprintf(out, "%-9s %s", key+":", snap.Phase())
			if snap.Phase() == session.PhaseIdle {
				fmt.Fprintln(out)
				continue
			}
			fmt.Fprintf(out, "  %s  question %d/%d  score %d\n",
				snap.Topic, min(snap.CurrentIndex+1, len(snap.QuestionStates)), len(snap.QuestionStates), snap.Score)
			for _, q := range snap.QuestionStates {
				fmt.Fprintf(out, "  %s\n", describeSlot(q))
			}
		}
		return nil
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard stored sessions (saved bank questions are kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		for _, key := range sessionKeys(cmd) {
			flow, err := revision.Open(cmd.Context(), st, key, nil, cliLogger(cmd))
			if err != nil {
				return fmt.Errorf("open %s session: %w", key, err)
			}
			if err := flow.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("reset %s session: %w", key, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %s session\n", key)
		}
		return nil
	},
}

// sessionKeys returns the keys selected by --kind.
func sessionKeys(cmd *cobra.Command) []string {
	switch kind, _ := cmd.Flags().GetString("kind"); kind {
	case session.KeyPractice, session.KeyRevision:
		return []string{kind}
	}
	return []string{session.KeyPractice, session.KeyRevision}
}

func describeSlot(q session.QuestionState) string {
	mark := "·"
	switch {
	case q.Answered() && q.Correct():
		mark = "✓"
	case q.Answered():
		mark = "✗"
	}
	saved := ""
	if q.ID != nil {
		saved = fmt.Sprintf(" [#%d]", *q.ID)
	}
	return fmt.Sprintf("%s %2d. %s%s", mark, q.Sequence, q.QuestionData.Question.Prompt, saved)
}

func init() {
	for _, c := range []*cobra.Command{sessionShowCmd, sessionResetCmd} {
		c.Flags().String("kind", "", "practice or revision (default both)")
		sessionCmd.AddCommand(c)
	}
}
