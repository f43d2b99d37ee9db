package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/app"
	"github.com/abhisek/kotoba/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := app.Options{Store: st}
	if dir, err := store.DataDir(); err == nil {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			opts.LogPath = filepath.Join(dir, "kotoba.log")
		}
	}

	// The TUI redirects the default logger to LogPath once it starts.
	source, err := buildSource(ctx, st, log.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Question source not configured:", err)
		fmt.Fprintln(os.Stderr, "Practice is unavailable; the revision bank still works.")
	} else {
		opts.Source = source
	}

	return app.Run(opts)
}
