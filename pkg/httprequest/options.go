package httprequest

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout bounds a request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Options describes the single request the action sends.
type Options struct {
	URL     string
	Method  Method
	Headers map[string]string
	// Body is any JSON-serializable value; nil means no payload.
	Body    any
	Timeout time.Duration
	Verbose bool
}

// normalize applies defaults and fails fast on values that can never be sent.
func (o Options) normalize() (Options, error) {
	o.URL = strings.TrimSpace(o.URL)
	if o.URL == "" {
		return Options{}, fmt.Errorf("%w: url is required", ErrInvalidURL)
	}

	if strings.TrimSpace(string(o.Method)) == "" {
		o.Method = DefaultMethod
	} else {
		m, err := ParseMethod(string(o.Method))
		if err != nil {
			return Options{}, err
		}
		o.Method = m
	}

	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o, nil
}
