package httprequest

import (
	"fmt"
	"net/http"
	"strings"
)

// Method is one of the HTTP verbs the action can send.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// DefaultMethod is used when no method is configured.
const DefaultMethod = MethodGet

// ParseMethod upper-cases s and maps it onto a supported Method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// Validate reports ErrUnsupportedMethod for anything outside the five supported verbs.
func (m Method) Validate() error {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, string(m))
	}
}

func (m Method) String() string { return string(m) }
