package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/questiongen"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/revision"
	"github.com/abhisek/kotoba/internal/session"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Answer freshly generated questions in the terminal",
	Long: `Generate a batch of questions for one JLPT level and answer them line by line.

The session is stored after every answer; stop with "q" and continue later
with --resume. Use --save to keep questions in the revision bank.`,
	RunE: runPractice,
}

func init() {
	practiceCmd.Flags().StringP("level", "l", "", "JLPT level, n1 to n5 (required unless --resume)")
	practiceCmd.Flags().String("section", string(quiz.SectionGrammar), "Section: grammar or vocabulary")
	practiceCmd.Flags().IntP("count", "n", 10, "Number of questions")
	practiceCmd.Flags().String("scope", questiongen.ScopeAll, "Grammar scope, e.g. 助詞")
	practiceCmd.Flags().Bool("resume", false, "Continue the stored practice session")
	practiceCmd.Flags().String("save", saveNone, "Save to the bank when finished: none, incorrect or all")
}

func runPractice(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	resume, _ := cmd.Flags().GetBool("resume")
	saveMode, _ := cmd.Flags().GetString("save")
	if err := validSaveMode(saveMode); err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	logger := cliLogger(cmd)

	var source questiongen.Source
	if !resume {
		if source, err = buildSource(ctx, st, logger); err != nil {
			return err
		}
	}

	flow, err := revision.Open(ctx, st, session.KeyPractice, source, logger)
	if err != nil {
		return fmt.Errorf("open practice session: %w", err)
	}

	out := cmd.OutOrStdout()
	if resume {
		if flow.Session().Phase() == session.PhaseIdle {
			return fmt.Errorf("no practice session to resume")
		}
	} else {
		topic, err := topicFlags(cmd)
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")
		scope, _ := cmd.Flags().GetString("scope")

		fmt.Fprintf(out, "%s: generating %d questions...\n\n", topic, count)
		if _, err := flow.StartPractice(ctx, topic, count, scope); err != nil {
			return err
		}
	}

	if err := playQuiz(ctx, flow, os.Stdin, out); err != nil {
		return err
	}
	if flow.Session().Phase() != session.PhaseCompleted {
		return nil
	}
	return saveResults(ctx, flow, saveMode, out)
}

// topicFlags reads --level and --section.
func topicFlags(cmd *cobra.Command) (quiz.Topic, error) {
	levelVal, _ := cmd.Flags().GetString("level")
	sectionVal, _ := cmd.Flags().GetString("section")
	if levelVal == "" {
		return quiz.Topic{}, fmt.Errorf("--level is required")
	}
	level, err := quiz.ParseLevel(levelVal)
	if err != nil {
		return quiz.Topic{}, err
	}
	section, err := quiz.ParseSection(sectionVal)
	if err != nil {
		return quiz.Topic{}, err
	}
	return quiz.Topic{Level: level, Section: section}, nil
}
