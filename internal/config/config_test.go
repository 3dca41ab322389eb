package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("url", "", "")
	fs.String("method", "", "")
	fs.String("headers", "", "")
	fs.String("body", "", "")
	fs.Int64("timeout", 0, "")
	fs.Bool("verbose", false, "")
	fs.String("request-file", "", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_REQUEST_URL", "https://api.example.com/resource")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.URL != "https://api.example.com/resource" {
		t.Fatalf("URL = %q", cfg.URL)
	}
	if cfg.Method != "GET" {
		t.Fatalf("Method = %q", cfg.Method)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %s", cfg.Timeout)
	}
	if cfg.Verbose {
		t.Fatalf("Verbose should default to false")
	}
	if cfg.Body != nil || cfg.Headers != nil {
		t.Fatalf("expected no body/headers, got %#v / %#v", cfg.Body, cfg.Headers)
	}
	if cfg.JournalType != "none" || cfg.LogLevel != "info" {
		t.Fatalf("ambient defaults wrong: %#v", cfg)
	}
	if err := cfg.ValidateRequest(); err != nil {
		t.Fatalf("ValidateRequest: %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_REQUEST_URL", "https://api.example.com")
	t.Setenv("HTTP_REQUEST_METHOD", "post")
	t.Setenv("HTTP_REQUEST_HEADERS", `{"Content-Type": "application/json", "X-Trace": "abc"}`)
	t.Setenv("HTTP_REQUEST_BODY", `{"foo": "bar"}`)
	t.Setenv("HTTP_REQUEST_TIMEOUT", "5")
	t.Setenv("HTTP_REQUEST_VERBOSE", "true")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Method != "POST" {
		t.Fatalf("Method = %q", cfg.Method)
	}
	want := map[string]string{"Content-Type": "application/json", "X-Trace": "abc"}
	if !reflect.DeepEqual(cfg.Headers, want) {
		t.Fatalf("Headers = %#v", cfg.Headers)
	}
	raw, err := json.Marshal(cfg.Body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	if string(raw) != `{"foo":"bar"}` {
		t.Fatalf("Body = %s", raw)
	}
	if cfg.Timeout != 5*time.Second || !cfg.Verbose {
		t.Fatalf("Timeout/Verbose = %s/%v", cfg.Timeout, cfg.Verbose)
	}
}

func TestLoadRequestFileWithOverrides(t *testing.T) {
	path := writeFile(t, "request.yaml", `
url: https://file.example.com/items
method: put
headers:
  X-From: file
body:
  name: Updated
  tags: [a, b]
timeout: 12
verbose: true
`)
	t.Setenv("HTTP_REQUEST_REQUEST_FILE", path)
	t.Setenv("HTTP_REQUEST_METHOD", "PATCH")

	fs := newFlags()
	if err := fs.Parse([]string{"--timeout", "3"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.URL != "https://file.example.com/items" {
		t.Fatalf("URL = %q", cfg.URL)
	}
	if cfg.Method != "PATCH" {
		t.Fatalf("env should override file method, got %q", cfg.Method)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("flag should override file timeout, got %s", cfg.Timeout)
	}
	if !cfg.Verbose {
		t.Fatalf("Verbose from file lost")
	}
	if cfg.Headers["X-From"] != "file" {
		t.Fatalf("Headers = %#v", cfg.Headers)
	}
	raw, err := json.Marshal(cfg.Body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	if string(raw) != `{"name":"Updated","tags":["a","b"]}` {
		t.Fatalf("Body = %s", raw)
	}
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("HTTP_REQUEST_URL", "https://env.example.com")
	t.Setenv("HTTP_REQUEST_VERBOSE", "true")

	fs := newFlags()
	if err := fs.Parse([]string{"--url", "https://flag.example.com", "--verbose=false", "--body", "not json"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.URL != "https://flag.example.com" {
		t.Fatalf("URL = %q", cfg.URL)
	}
	if cfg.Verbose {
		t.Fatalf("flag should override env verbose")
	}
	if cfg.Body != "not json" {
		t.Fatalf("Body = %#v", cfg.Body)
	}
}

func TestLoadRejectsNegativeTimeout(t *testing.T) {
	t.Setenv("HTTP_REQUEST_URL", "https://api.example.com")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "-1")

	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for negative timeout")
	}
}

func TestValidateRequestRequiresURL(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateRequest(); err == nil {
		t.Fatalf("expected missing url error")
	}
}

func TestLoadRequestFileJSON(t *testing.T) {
	path := writeFile(t, "request.json", `{"url": " https://api.example.com ", "method": "delete", "headers": {" X-A ": "1", "": "dropped"}}`)

	req, err := LoadRequestFile(path)
	if err != nil {
		t.Fatalf("LoadRequestFile: %v", err)
	}
	if req.URL != "https://api.example.com" || req.Method != "DELETE" {
		t.Fatalf("request = %#v", req)
	}
	if !reflect.DeepEqual(req.Headers, map[string]string{"X-A": "1"}) {
		t.Fatalf("Headers = %#v", req.Headers)
	}
}

func TestLoadRequestFileRejectsGarbage(t *testing.T) {
	path := writeFile(t, "request.json", `{not json`)
	if _, err := LoadRequestFile(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestParseHeadersAcceptsYAML(t *testing.T) {
	headers, err := ParseHeaders("Accept: text/plain\nX-Count: 3\n")
	if err != nil {
		t.Fatalf("ParseHeaders: %v", err)
	}
	want := map[string]string{"Accept": "text/plain", "X-Count": "3"}
	if !reflect.DeepEqual(headers, want) {
		t.Fatalf("headers = %#v", headers)
	}
}
