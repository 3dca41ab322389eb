package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RequestFile is a request declared in a YAML or JSON file.
type RequestFile struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	Body           any               `json:"body" yaml:"body"`
	TimeoutSeconds int64             `json:"timeout" yaml:"timeout"`
	Verbose        *bool             `json:"verbose" yaml:"verbose"`
}

// LoadRequestFile loads a request definition from a YAML/JSON file.
func LoadRequestFile(path string) (RequestFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return RequestFile{}, errors.New("request file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return RequestFile{}, fmt.Errorf("open request file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return RequestFile{}, fmt.Errorf("read request file: %w", err)
	}

	req, err := parseRequestFile(raw, filepath.Ext(path))
	if err != nil {
		return RequestFile{}, err
	}
	return sanitizeRequestFile(req), nil
}

// parseRequestFile attempts to decode the request file content.
func parseRequestFile(data []byte, ext string) (RequestFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var req RequestFile
		if err := d.fn(data, &req); err != nil {
			errs = append(errs, fmt.Errorf("decode %s request: %w", d.name, err))
			continue
		}
		return req, nil
	}

	if len(errs) > 0 {
		return RequestFile{}, errors.Join(errs...)
	}
	return RequestFile{}, errors.New("request file format not recognized (expected YAML or JSON)")
}

// sanitizeRequestFile trims and normalizes the request fields.
func sanitizeRequestFile(req RequestFile) RequestFile {
	req.URL = strings.TrimSpace(req.URL)
	req.Method = strings.ToUpper(strings.TrimSpace(req.Method))
	req.Headers = sanitizeHeaders(req.Headers)
	return req
}

// sanitizeHeaders trims names and drops entries with an empty name.
func sanitizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseHeaders accepts a JSON or YAML mapping, as text or already decoded.
func ParseHeaders(raw any) (map[string]string, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return sanitizeHeaders(t), nil
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, v := range t {
			out[k] = fmt.Sprint(v)
		}
		return sanitizeHeaders(out), nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		var out map[string]string
		if err := yaml.Unmarshal([]byte(t), &out); err != nil {
			return nil, fmt.Errorf("decode headers: %w", err)
		}
		return sanitizeHeaders(out), nil
	default:
		return nil, fmt.Errorf("decode headers: unsupported type %T", raw)
	}
}

// ParseBody keeps JSON text verbatim; anything else is sent as a JSON string.
func ParseBody(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	return raw
}
