package httprequest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/samvad-hq/http-request-action/pkg/httpclient"
)

// verboseBodyLimit caps the response body echoed in verbose mode.
const verboseBodyLimit = 501

// Action runs one request end to end: validate, dispatch, normalize.
type Action struct {
	dispatcher *Dispatcher
	log        Logger
}

// New builds an Action sending through client.
func New(client httpclient.Client, log Logger) *Action {
	log = ensureLogger(log)
	return &Action{dispatcher: NewDispatcher(client, log), log: log}
}

// Run sends the request described by opts on a fresh resty transport.
func Run(ctx context.Context, opts Options, log Logger) (Result, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return New(httpclient.NewRestyClient(timeout), log).Run(ctx, opts)
}

// Run executes the request. Every failure comes back as a *UserError.
func (a *Action) Run(ctx context.Context, opts Options) (Result, error) {
	if a == nil || a.dispatcher == nil {
		return Result{}, userError(fmt.Errorf("action is not initialized"))
	}
	if ctx == nil {
		ctx = context.Background()
	}

	opts, err := opts.normalize()
	if err != nil {
		return Result{}, userError(err)
	}

	a.log.InfoObj(fmt.Sprintf("sending HTTP %s request to %s", opts.Method, opts.URL), "http_request", map[string]any{
		"method": opts.Method.String(),
		"url":    opts.URL,
	})

	resp, err := a.dispatcher.Dispatch(ctx, opts)
	if err != nil {
		a.log.ErrorObj("http request failed", "http_error", map[string]any{
			"method": opts.Method.String(),
			"url":    opts.URL,
			"error":  err.Error(),
		})
		return Result{}, userError(err)
	}

	res := Normalize(resp)
	a.log.InfoObj("HTTP "+statusLine(resp), "http_response", map[string]any{
		"code":       res.Code,
		"body_kind":  res.Body.Kind.String(),
		"body_bytes": len(res.Body.Text),
	})
	if opts.Verbose && res.Body.Text != "" {
		a.log.InfoObj("Response body: "+bodySnippet(res.Body.Text), "http_response_body", map[string]any{
			"body_bytes": len(res.Body.Text),
		})
	}
	return res, nil
}

// statusLine prefers the server's own reason phrase, e.g. "200 OK".
func statusLine(resp httpclient.Response) string {
	if status := strings.TrimSpace(resp.Status()); status != "" {
		return status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode(), http.StatusText(resp.StatusCode()))
}

// bodySnippet truncates s to verboseBodyLimit bytes on a rune boundary.
func bodySnippet(s string) string {
	if len(s) <= verboseBodyLimit {
		return s
	}
	cut := verboseBodyLimit
	for cut > verboseBodyLimit-utf8.UTFMax && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
