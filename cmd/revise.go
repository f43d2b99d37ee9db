package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/bank"
	"github.com/abhisek/kotoba/internal/revision"
	"github.com/abhisek/kotoba/internal/session"
)

var reviseCmd = &cobra.Command{
	Use:   "revise",
	Short: "Replay saved questions from the revision bank",
	Long: `Start a quiz from the revision bank. Every answer updates the stored
question, so --correctness incorrect always picks up what still needs work.`,
	RunE: runRevise,
}

func init() {
	addFilterFlags(reviseCmd)
	reviseCmd.Flags().Bool("resume", false, "Continue the stored revision session")
}

func runRevise(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	resume, _ := cmd.Flags().GetBool("resume")

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	flow, err := revision.Open(ctx, st, session.KeyRevision, nil, cliLogger(cmd))
	if err != nil {
		return fmt.Errorf("open revision session: %w", err)
	}

	out := cmd.OutOrStdout()
	if resume {
		if flow.Session().Phase() == session.PhaseIdle {
			return fmt.Errorf("no revision session to resume")
		}
	} else {
		filter, err := filterFlags(cmd)
		if err != nil {
			return err
		}
		n, err := flow.StartRevision(ctx, filter)
		if errors.Is(err, revision.ErrNothingToRevise) {
			fmt.Fprintf(out, "Nothing to revise for %s.\n", filter)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Revising %d questions (%s)\n\n", n, filter)
	}

	return playQuiz(ctx, flow, os.Stdin, out)
}

// addFilterFlags registers the bank filter flags on c.
func addFilterFlags(c *cobra.Command) {
	c.Flags().StringP("level", "l", "", "JLPT level, n1 to n5")
	c.Flags().String("section", "", "Section: grammar or vocabulary")
	c.Flags().String("correctness", "", "any, correct or incorrect")
	c.Flags().StringP("search", "s", "", "Text in the prompt, options or explanation")
}

func filterFlags(cmd *cobra.Command) (bank.Filter, error) {
	level, _ := cmd.Flags().GetString("level")
	section, _ := cmd.Flags().GetString("section")
	correctness, _ := cmd.Flags().GetString("correctness")
	f, err := bank.ParseFilter(level, section, correctness)
	if err != nil {
		return bank.Filter{}, err
	}
	f.Text, _ = cmd.Flags().GetString("search")
	return f, nil
}
