package main

import (
	"fmt"
	"io"

	"github.com/samvad-hq/http-request-action/internal/app"
	"github.com/samvad-hq/http-request-action/internal/config"
	"github.com/samvad-hq/http-request-action/internal/logger"
	"github.com/samvad-hq/http-request-action/internal/storage"
	"github.com/spf13/cobra"
)

func newHistoryCmd(out io.Writer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent requests recorded in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return &configError{err: fmt.Errorf("load config: %w", err)}
			}

			runner, err := app.NewRunner(cfg, logger.NopLogger{})
			if err != nil {
				return &configError{err: err}
			}
			defer runner.Close()

			entries, err := runner.History(limit)
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			if entries == nil {
				entries = []storage.Entry{}
			}
			return writeJSON(out, entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries")
	return cmd
}
