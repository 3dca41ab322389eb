package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/http-request-action/internal/config"
	"github.com/samvad-hq/http-request-action/internal/logger"
	"github.com/samvad-hq/http-request-action/internal/storage"
	"github.com/samvad-hq/http-request-action/pkg/httpclient"
	"github.com/samvad-hq/http-request-action/pkg/httprequest"
)

// Runner wires config, transport, action and journal for a single invocation.
type Runner struct {
	cfg    *config.Config
	action *httprequest.Action
	store  storage.Store
	log    logger.Logger
}

// NewRunner builds a runner from loaded config.
func NewRunner(cfg *config.Config, log logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	storeOpts := storage.Options{EntryTTL: cfg.JournalTTL}
	store, err := storage.NewStore(cfg.JournalType, cfg.JournalPath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}
	log.DebugObj("journal initialized", "journal_config", map[string]any{
		"type":        cfg.JournalType,
		"path":        cfg.JournalPath,
		"ttl_seconds": int(cfg.JournalTTL.Seconds()),
	})

	return newRunner(cfg, log, httpclient.NewRestyClient(cfg.Timeout), store), nil
}

func newRunner(cfg *config.Config, log logger.Logger, client httpclient.Client, store storage.Store) *Runner {
	return &Runner{
		cfg:    cfg,
		action: httprequest.New(client, log),
		store:  store,
		log:    log,
	}
}

// Run sends the configured request and records it in the journal.
func (r *Runner) Run(ctx context.Context) (httprequest.Result, error) {
	if r == nil || r.action == nil {
		return httprequest.Result{}, fmt.Errorf("runner is not initialized")
	}

	start := time.Now()
	res, err := r.action.Run(ctx, r.options())

	entry := storage.Entry{
		At:         start.UTC(),
		Method:     r.cfg.Method,
		URL:        r.cfg.URL,
		Code:       res.Code,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if recErr := r.store.Record(entry); recErr != nil {
		r.log.WarnObj("journal record failed", "error", recErr.Error())
	}

	return res, err
}

// History returns up to limit recent journal entries, newest first.
func (r *Runner) History(limit int) ([]storage.Entry, error) {
	if r == nil || r.store == nil {
		return nil, fmt.Errorf("runner is not initialized")
	}
	return r.store.Recent(limit)
}

// Close releases the journal, logging any errors encountered.
func (r *Runner) Close() {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("journal close failed", "error", err)
	}
}

func (r *Runner) options() httprequest.Options {
	return httprequest.Options{
		URL:     r.cfg.URL,
		Method:  httprequest.Method(r.cfg.Method),
		Headers: r.cfg.Headers,
		Body:    r.cfg.Body,
		Timeout: r.cfg.Timeout,
		Verbose: r.cfg.Verbose,
	}
}
