package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/bank"
	"github.com/abhisek/kotoba/internal/revision"
	"github.com/abhisek/kotoba/internal/store"
	"github.com/abhisek/kotoba/internal/ui/layout"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect and edit the revision bank",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved questions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		filter, err := filterFlags(cmd)
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := bank.NewEngine(st.Questions()).Query(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("query bank: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintf(out, "No saved questions for %s.\n", filter)
			return nil
		}
		if limit > 0 && len(recs) > limit {
			recs = recs[:limit]
		}

		fmt.Fprintf(out, "%-5s  %-10s  %-3s  %-10s  %-7s  %s\n",
			"ID", "Saved", "Lv", "Section", "Last", "Question")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, r := range recs {
			last := "✗"
			if r.AnsweredCorrectly() {
				last = "✓"
			}
			fmt.Fprintf(out, "%-5d  %-10s  %-3s  %-10s  %-7s  %s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02"),
				r.Level.Label(),
				r.Section,
				last,
				layout.Truncate(r.Question.Prompt, 48),
			)
		}
		return nil
	},
}

var bankShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved question with its answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		r, err := st.Questions().Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("question %d: %w", id, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %d\n", r.ID)
		fmt.Fprintf(out, "Topic:     %s\n", r.Topic)
		fmt.Fprintf(out, "Saved:     %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		if r.LastCorrectAt != nil {
			fmt.Fprintf(out, "Correct:   %s\n", r.LastCorrectAt.Local().Format("2006-01-02 15:04:05"))
		} else {
			fmt.Fprintln(out, "Correct:   not yet")
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, r.Question.Prompt)
		for i, o := range r.Question.Options {
			mark := " "
			if o == r.Question.CorrectAnswer {
				mark = "*"
			}
			fmt.Fprintf(out, " %s%d) %s\n", mark, i+1, o)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, r.Question.Explanation)
		return nil
	},
}

var bankRmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Delete saved questions",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int, len(args))
		for i, a := range args {
			id, err := parseID(a)
			if err != nil {
				return err
			}
			ids[i] = id
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		out := cmd.OutOrStdout()
		var errs []error
		for _, id := range ids {
			err := revision.DeleteRecord(cmd.Context(), st, id)
			switch {
			case store.IsNotFound(err):
				fmt.Fprintf(out, "#%d not found\n", id)
			case err != nil:
				errs = append(errs, fmt.Errorf("delete #%d: %w", id, err))
			default:
				fmt.Fprintf(out, "Deleted #%d\n", id)
			}
		}
		return errors.Join(errs...)
	},
}

var bankStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show saved question counts per topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := bank.NewEngine(st.Questions()).Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("bank stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(out, "The revision bank is empty.")
			return nil
		}

		fmt.Fprintf(out, "%-24s  %6s  %8s  %10s\n", "Topic", "Total", "Correct", "Incorrect")
		fmt.Fprintln(out, strings.Repeat("─", 54))
		var total, correct int
		for _, s := range stats {
			fmt.Fprintf(out, "%-24s  %6d  %8d  %10d\n", s.Topic, s.Total, s.Correct, s.Incorrect())
			total += s.Total
			correct += s.Correct
		}
		fmt.Fprintln(out, strings.Repeat("─", 54))
		fmt.Fprintf(out, "%-24s  %6d  %8d  %10d\n", "TOTAL", total, correct, total-correct)
		return nil
	},
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	return id, nil
}

func init() {
	addFilterFlags(bankListCmd)
	bankListCmd.Flags().IntP("limit", "n", 50, "Number of questions to show (0 = all)")

	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankShowCmd)
	bankCmd.AddCommand(bankRmCmd)
	bankCmd.AddCommand(bankStatsCmd)
}
