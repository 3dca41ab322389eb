package httprequest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/samvad-hq/http-request-action/pkg/httpclient"
)

const (
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"
)

// Dispatcher builds a method-specific request and sends it over a Client.
type Dispatcher struct {
	client httpclient.Client
	log    Logger
}

// NewDispatcher wires a dispatcher on top of the given transport.
func NewDispatcher(client httpclient.Client, log Logger) *Dispatcher {
	return &Dispatcher{client: client, log: ensureLogger(log)}
}

// Dispatch sends exactly one request and returns the raw response.
// Unsupported methods and malformed URLs fail before the transport is touched.
func (d *Dispatcher) Dispatch(ctx context.Context, opts Options) (httpclient.Response, error) {
	if d == nil || d.client == nil {
		return nil, errors.New("dispatcher is not initialized")
	}

	verb, err := verbFor(opts.Method)
	if err != nil {
		return nil, err
	}

	target, secure, err := parseTarget(opts.URL)
	if err != nil {
		return nil, err
	}

	payload, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	d.log.DebugObj("dispatching http request", "http_request", map[string]any{
		"method":          verb,
		"url":             target,
		"tls":             secure,
		"timeout_seconds": timeout.Seconds(),
		"body_bytes":      len(payload),
	})

	resp, err := d.client.Do(ctx, httpclient.Request{
		Method:  verb,
		URL:     target,
		Headers: outgoingHeaders(opts.Headers, payload != nil),
		Body:    payload,
	})
	if err != nil {
		return nil, networkFailure(err)
	}
	return resp, nil
}

// verbFor maps the Method enum onto the wire verb.
func verbFor(m Method) (string, error) {
	switch m {
	case MethodGet:
		return http.MethodGet, nil
	case MethodPost:
		return http.MethodPost, nil
	case MethodPut:
		return http.MethodPut, nil
	case MethodPatch:
		return http.MethodPatch, nil
	case MethodDelete:
		return http.MethodDelete, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMethod, string(m))
	}
}

// parseTarget validates raw and reports whether the scheme requires TLS.
func parseTarget(raw string) (string, bool, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, raw)
	}
	return u.String(), scheme == "https", nil
}

// encodeBody renders body as compact JSON text without HTML escaping.
func encodeBody(body any) ([]byte, error) {
	if isNilBody(body) {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// isNilBody treats typed nils (nil maps, slices, pointers, json.RawMessage) as no payload.
func isNilBody(body any) bool {
	if body == nil {
		return true
	}
	v := reflect.ValueOf(body)
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// outgoingHeaders copies headers and defaults Content-Type for JSON payloads.
func outgoingHeaders(headers map[string]string, hasBody bool) map[string]string {
	out := make(map[string]string, len(headers)+1)
	hasContentType := false
	for k, v := range headers {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		if strings.EqualFold(key, headerContentType) {
			hasContentType = true
		}
		out[key] = v
	}
	if hasBody && !hasContentType {
		out[headerContentType] = mimeJSON
	}
	return out
}

func networkFailure(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w: %w", ErrNetworkFailure, ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrNetworkFailure, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
