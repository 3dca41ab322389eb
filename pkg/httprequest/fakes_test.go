package httprequest

import (
	"context"
	"net/http"
	"sync"

	"github.com/samvad-hq/http-request-action/pkg/httpclient"
)

// fakeResponse is a canned transport response.
type fakeResponse struct {
	code   int
	status string
	body   []byte
	header http.Header
}

func (f *fakeResponse) Body() []byte        { return f.body }
func (f *fakeResponse) StatusCode() int     { return f.code }
func (f *fakeResponse) Status() string      { return f.status }
func (f *fakeResponse) Header() http.Header { return f.header }

// fakeClient records the last request and returns a preset response or error.
type fakeClient struct {
	calls int
	req   httpclient.Request
	resp  httpclient.Response
	err   error
}

func (f *fakeClient) Do(_ context.Context, req httpclient.Request) (httpclient.Response, error) {
	f.calls++
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	if f.resp == nil {
		return &fakeResponse{code: http.StatusOK}, nil
	}
	return f.resp, nil
}

// recordingLogger keeps every message for later inspection.
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingLogger) record(msg string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

func (r *recordingLogger) InfoObj(msg, _ string, _ interface{})  { r.record(msg) }
func (r *recordingLogger) DebugObj(msg, _ string, _ interface{}) { r.record(msg) }
func (r *recordingLogger) WarnObj(msg, _ string, _ interface{})  { r.record(msg) }
func (r *recordingLogger) ErrorObj(msg, _ string, _ interface{}) { r.record(msg) }

func (r *recordingLogger) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	copy(out, r.msgs)
	return out
}
