package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve question generation over HTTP",
	Long: `Run the question service used by web clients and by KOTOBA_QUESTION_SERVICE.

  GET /question?lv=n3                 one question
  GET /grammar_quiz?lv=n3&c=10&scp=助詞  a batch of 1 to 50 questions

Allowed CORS origins come from KOTOBA_ALLOW_ORIGINS or --origins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := server.ConfigFromEnv()
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("origins") {
			origins, _ := cmd.Flags().GetString("origins")
			cfg.AllowOrigins = server.ParseOrigins(origins)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		logger := log.New(os.Stderr, "", log.LstdFlags)
		source, err := buildLLMSource(cmd.Context(), st, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Printf("listening on %s (origins %v)", cfg.Addr, cfg.AllowOrigins)
		if err := server.New(source, cfg, logger).Listen(ctx); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		logger.Printf("stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "Listen address (overrides KOTOBA_ADDR)")
	serveCmd.Flags().String("origins", "", "Comma separated CORS origins (overrides KOTOBA_ALLOW_ORIGINS)")
}
