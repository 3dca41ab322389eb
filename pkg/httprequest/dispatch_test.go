package httprequest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestDispatchUsesVerbForEveryMethod(t *testing.T) {
	for _, m := range []Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete} {
		client := &fakeClient{}
		d := NewDispatcher(client, nil)
		if _, err := d.Dispatch(context.Background(), Options{URL: "https://api.example.com/resource", Method: m}); err != nil {
			t.Fatalf("%s: Dispatch: %v", m, err)
		}
		if client.req.Method != string(m) {
			t.Fatalf("%s: sent verb %s", m, client.req.Method)
		}
	}
}

func TestDispatchRejectsUnsupportedMethodWithoutNetworkCall(t *testing.T) {
	client := &fakeClient{}
	d := NewDispatcher(client, nil)

	_, err := d.Dispatch(context.Background(), Options{URL: "https://api.example.com", Method: "INVALID"})
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("err = %v, want ErrUnsupportedMethod", err)
	}
	if client.calls != 0 {
		t.Fatalf("transport called %d times", client.calls)
	}
}

func TestDispatchRejectsNonHTTPSchemes(t *testing.T) {
	client := &fakeClient{}
	d := NewDispatcher(client, nil)

	for _, raw := range []string{"ftp://example.com/file", "example.com/path", "http://", "://bad"} {
		_, err := d.Dispatch(context.Background(), Options{URL: raw, Method: MethodGet})
		if !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("%q: err = %v, want ErrInvalidURL", raw, err)
		}
	}
	if client.calls != 0 {
		t.Fatalf("transport called %d times", client.calls)
	}
}

func TestDispatchEncodesBodyAndDefaultsContentType(t *testing.T) {
	client := &fakeClient{}
	d := NewDispatcher(client, nil)

	_, err := d.Dispatch(context.Background(), Options{
		URL:    "http://api.example.com",
		Method: MethodPost,
		Body:   map[string]any{"foo": "bar", "html": "<b>"},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := string(client.req.Body); got != `{"foo":"bar","html":"<b>"}` {
		t.Fatalf("body = %s", got)
	}
	if got := client.req.Headers["Content-Type"]; got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}
}

func TestDispatchKeepsCallerContentType(t *testing.T) {
	client := &fakeClient{}
	d := NewDispatcher(client, nil)

	_, err := d.Dispatch(context.Background(), Options{
		URL:     "http://api.example.com",
		Method:  MethodPut,
		Headers: map[string]string{"content-type": "application/vnd.api+json"},
		Body:    map[string]any{"name": "Updated"},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(client.req.Headers) != 1 || client.req.Headers["content-type"] != "application/vnd.api+json" {
		t.Fatalf("headers = %#v", client.req.Headers)
	}
}

func TestDispatchWithoutBodySendsNoPayload(t *testing.T) {
	client := &fakeClient{}
	d := NewDispatcher(client, nil)

	if _, err := d.Dispatch(context.Background(), Options{URL: "http://api.example.com", Method: MethodDelete}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if client.req.Body != nil {
		t.Fatalf("expected no payload, got %q", client.req.Body)
	}
	if _, ok := client.req.Headers["Content-Type"]; ok {
		t.Fatalf("Content-Type should not be set without a body")
	}
}

func TestDispatchWrapsTransportErrors(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	d := NewDispatcher(client, nil)

	_, err := d.Dispatch(context.Background(), Options{URL: "http://127.0.0.1:1", Method: MethodGet})
	if !errors.Is(err, ErrNetworkFailure) {
		t.Fatalf("err = %v, want ErrNetworkFailure", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Fatalf("connection refused should not be reported as timeout")
	}

	client.err = context.DeadlineExceeded
	_, err = d.Dispatch(context.Background(), Options{URL: "http://127.0.0.1:1", Method: MethodGet, Timeout: time.Second})
	if !errors.Is(err, ErrNetworkFailure) || !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want network timeout", err)
	}
}

func TestDispatchRejectsUnencodableBody(t *testing.T) {
	client := &fakeClient{}
	d := NewDispatcher(client, nil)

	_, err := d.Dispatch(context.Background(), Options{
		URL:    "http://api.example.com",
		Method: http.MethodPost,
		Body:   map[string]any{"ch": make(chan int)},
	})
	if err == nil {
		t.Fatalf("expected encode error")
	}
	if client.calls != 0 {
		t.Fatalf("transport called %d times", client.calls)
	}
}

func TestDispatchTreatsTypedNilBodyAsAbsent(t *testing.T) {
	for _, body := range []any{map[string]any(nil), json.RawMessage(nil), []any(nil), (*struct{})(nil)} {
		client := &fakeClient{}
		d := NewDispatcher(client, nil)

		if _, err := d.Dispatch(context.Background(), Options{URL: "http://api.example.com", Method: MethodPost, Body: body}); err != nil {
			t.Fatalf("%T: Dispatch: %v", body, err)
		}
		if client.req.Body != nil {
			t.Fatalf("%T: expected no payload, got %q", body, client.req.Body)
		}
		if _, ok := client.req.Headers["Content-Type"]; ok {
			t.Fatalf("%T: Content-Type should not be set without a body", body)
		}
	}
}
