package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/http-request-action/internal/app"
	"github.com/samvad-hq/http-request-action/internal/config"
	"github.com/samvad-hq/http-request-action/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "http-request",
		Short: "Send a single HTTP request and print the normalized result",
		Long: `http-request sends one GET, POST, PUT, PATCH or DELETE request with
optional headers and a JSON body, then prints {code, body, headers} as JSON.

Every flag can also be set through an HTTP_REQUEST_* environment variable
(HTTP_REQUEST_URL, HTTP_REQUEST_METHOD, ...) or a YAML/JSON request file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRequest(cmd.Context(), cmd.Flags(), out)
		},
	}

	flags := root.Flags()
	flags.String("url", "", "target URL (required)")
	flags.StringP("method", "X", "GET", "HTTP method: GET, POST, PUT, PATCH or DELETE")
	flags.StringP("headers", "H", "", `headers as a JSON or YAML mapping, e.g. '{"Accept":"application/json"}'`)
	flags.StringP("body", "d", "", "request body as JSON text")
	flags.Int64("timeout", 30, "request timeout in seconds")
	flags.BoolP("verbose", "v", false, "log the response body")

	persistent := root.PersistentFlags()
	persistent.StringP("request-file", "f", "", "YAML or JSON file describing the request")
	persistent.String("log-level", "info", "log level: debug, info, warn, error")
	persistent.String("journal-type", "none", "request journal backend: none or bbolt")
	persistent.String("journal-path", "./data/http-request.db", "bbolt journal path")
	persistent.Int64("journal-ttl-seconds", 7*24*60*60, "journal entry retention in seconds")

	root.AddCommand(newHistoryCmd(out))
	return root
}

func runRequest(ctx context.Context, flags *pflag.FlagSet, out io.Writer) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return &configError{err: fmt.Errorf("load config: %w", err)}
	}
	if err := cfg.ValidateRequest(); err != nil {
		return &configError{err: err}
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	runner, err := app.NewRunner(cfg, logger.Wrap(log))
	if err != nil {
		return &configError{err: err}
	}
	defer runner.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	return writeJSON(out, res)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
