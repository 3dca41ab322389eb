package httprequest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/samvad-hq/http-request-action/pkg/httpclient"
)

// BodyKind tells which branch of a Body is populated.
type BodyKind int

const (
	// BodyText holds the payload verbatim; used for empty and non-JSON payloads.
	BodyText BodyKind = iota
	// BodyJSON holds the decoded JSON value.
	BodyJSON
)

func (k BodyKind) String() string {
	if k == BodyJSON {
		return "json"
	}
	return "text"
}

// Body is a response payload: either decoded JSON or raw text.
type Body struct {
	Kind BodyKind
	// JSON is the decoded value when Kind is BodyJSON.
	JSON any
	// Text is always the raw payload.
	Text string
}

// TextBody builds the text branch.
func TextBody(s string) Body { return Body{Kind: BodyText, Text: s} }

// IsJSON reports whether the payload decoded as JSON.
func (b Body) IsJSON() bool { return b.Kind == BodyJSON }

// Value returns the decoded JSON value or the raw text.
func (b Body) Value() any {
	if b.IsJSON() {
		return b.JSON
	}
	return b.Text
}

// MarshalJSON emits the decoded value, or the raw text as a JSON string.
func (b Body) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Value())
}

// Result is the normalized response handed back to the host tool.
type Result struct {
	Code    int               `json:"code"`
	Body    Body              `json:"body"`
	Headers map[string]string `json:"headers"`
}

// Normalize converts a raw response into a Result in a single pass.
func Normalize(resp httpclient.Response) Result {
	if resp == nil {
		return Result{Body: TextBody(""), Headers: map[string]string{}}
	}
	return Result{
		Code:    resp.StatusCode(),
		Body:    decodeBody(resp.Body()),
		Headers: flattenHeaders(resp.Header()),
	}
}

// decodeBody never fails: malformed JSON falls back to the raw text.
// Numbers decode as json.Number so integers keep every digit.
func decodeBody(raw []byte) Body {
	text := string(raw)
	if len(bytes.TrimSpace(raw)) == 0 {
		return TextBody(text)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return TextBody(text)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return TextBody(text)
	}
	return Body{Kind: BodyJSON, JSON: v, Text: text}
}

// flattenHeaders lower-cases names and joins repeated values with ", ".
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vals := range h {
		key := strings.ToLower(k)
		if prev, ok := out[key]; ok {
			vals = append([]string{prev}, vals...)
		}
		out[key] = strings.Join(vals, ", ")
	}
	return out
}
