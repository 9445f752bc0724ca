package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowbridge/pkg/cache"
	"github.com/matzehuels/flowbridge/pkg/config"
	"github.com/matzehuels/flowbridge/pkg/observability"
	"github.com/matzehuels/flowbridge/pkg/pipeline"
)

const demoYAML = `name: demo
container: {width: 375, height: 750}
defaults:
  item_size: {width: 150, height: 150}
  section_inset: {top: 8, bottom: 8}
  header_size: {width: 100, height: 80}
sections:
  - name: grid
    items: 8
  - name: carousel
    items: 10
    custom: {kind: carousel, item_size: {width: 50, height: 50}, group_spacing: 16, inset: {top: 8, bottom: 8}, boundary: true}
`

func newTestServer(t *testing.T, maxBody int64, opts ...Option) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	runner := pipeline.NewRunner(fc, nil, logger)
	srv := New(runner, logger, config.ServerConfig{MaxBodyBytes: maxBody}, opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, contentType string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(url, contentType, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func jsonBody(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func decodeError(t *testing.T, resp *http.Response) ErrorDetail {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e.Error
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t, 0)

	for _, path := range []string{"/healthz", "/version"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
		if id := resp.Header.Get(RequestIDHeader); id == "" {
			t.Errorf("GET %s has no %s header", path, RequestIDHeader)
		}
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	ts := newTestServer(t, 0)
	const id = "0f8fad5b-d9cb-469f-a165-70867728950e"

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request ID = %q, want %q", got, id)
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t, 0)
	body := jsonBody(t, pipeline.Options{Manifest: demoYAML})

	first := post(t, ts.URL+"/v1/layout", "application/json", body)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", first.StatusCode)
	}
	var got LayoutResponse
	if err := json.NewDecoder(first.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Cached || first.Header.Get(HeaderLayoutCache) != "MISS" {
		t.Errorf("first layout reported a cache hit")
	}
	if got.Stats != (StatsResponse{Sections: 2, Items: 18, Rows: 14}) {
		t.Errorf("stats = %+v", got.Stats)
	}
	if got.Layout.ID == "" || first.Header.Get(HeaderLayoutID) != got.Layout.ID {
		t.Errorf("layout ID %q, header %q", got.Layout.ID, first.Header.Get(HeaderLayoutID))
	}
	if got.Layout.ContentHeight != 872 {
		t.Errorf("content height = %v, want 872", got.Layout.ContentHeight)
	}

	second := post(t, ts.URL+"/v1/layout", "application/json", body)
	if second.Header.Get(HeaderLayoutCache) != "HIT" {
		t.Errorf("second layout %s = %q, want HIT", HeaderLayoutCache, second.Header.Get(HeaderLayoutCache))
	}
	if second.Header.Get(HeaderLayoutID) != got.Layout.ID {
		t.Error("cached layout changed its ID")
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, 0)

	tests := []struct {
		name        string
		path        string
		contentType string
		body        []byte
		wantType    string
		wantPrefix  string
	}{
		{"svg from json", "/v1/render/svg", "application/json", jsonBody(t, pipeline.Options{Manifest: demoYAML}), "image/svg+xml", "<svg"},
		{"svg from yaml", "/v1/render/svg?style=outline&labels=true", "application/yaml", []byte(demoYAML), "image/svg+xml", "<svg"},
		{"png", "/v1/render/png?scale=2", "application/x-yaml", []byte(demoYAML), "image/png", "\x89PNG"},
		{"dot", "/v1/render/dot", "text/yaml", []byte(demoYAML), "text/vnd.graphviz", "digraph"},
		{"json", "/v1/render/json?width=320", "application/yaml", []byte(demoYAML), "application/json", "{"},
		{"raw json manifest", "/v1/render/svg?manifest_format=json", "application/json", []byte(`{"container": {"width": 320, "height": 480}, "sections": [{"items": 3}]}`), "image/svg+xml", "<svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+tt.path, tt.contentType, tt.body)
			data, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body %s", resp.StatusCode, data)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tt.wantType) {
				t.Errorf("Content-Type = %q, want %q", ct, tt.wantType)
			}
			if !bytes.HasPrefix(data, []byte(tt.wantPrefix)) {
				t.Errorf("body starts with %q, want %q", data[:min(len(data), 16)], tt.wantPrefix)
			}
		})
	}
}

func TestRenderIsCached(t *testing.T) {
	ts := newTestServer(t, 0)

	post(t, ts.URL+"/v1/render/svg", "application/yaml", []byte(demoYAML))
	resp := post(t, ts.URL+"/v1/render/svg", "application/yaml", []byte(demoYAML))
	if resp.Header.Get(HeaderRenderCache) != "HIT" {
		t.Errorf("%s = %q, want HIT", HeaderRenderCache, resp.Header.Get(HeaderRenderCache))
	}

	refreshed := post(t, ts.URL+"/v1/render/svg?refresh=true", "application/yaml", []byte(demoYAML))
	if refreshed.Header.Get(HeaderRenderCache) != "MISS" {
		t.Errorf("refresh %s = %q, want MISS", HeaderRenderCache, refreshed.Header.Get(HeaderRenderCache))
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t, 0)

	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
		wantStatus  int
		wantCode    string
	}{
		{"unknown format", "/v1/render/gif", "application/yaml", demoYAML, 400, "INVALID_FORMAT"},
		{"bad style", "/v1/render/svg?style=neon", "application/yaml", demoYAML, 400, "INVALID_STYLE"},
		{"bad width", "/v1/render/svg?width=wide", "application/yaml", demoYAML, 400, "INVALID_INPUT"},
		{"negative width", "/v1/layout?width=-1", "application/yaml", demoYAML, 400, "INVALID_INPUT"},
		{"missing manifest", "/v1/layout", "application/json", `{}`, 400, "INVALID_INPUT"},
		{"unknown field", "/v1/layout", "application/json", `{"colour": "red"}`, 400, "INVALID_INPUT"},
		{"invalid manifest", "/v1/layout", "application/yaml", "sections: [{items: -1}]", 400, "INVALID_MANIFEST"},
		{"too many items", "/v1/layout", "application/yaml", "sections: [{items: 2000000000}]", 400, "INVALID_MANIFEST"},
		{"unsupported content type", "/v1/layout", "text/plain", demoYAML, 415, "UNSUPPORTED"},
		{"unknown manifest format", "/v1/layout?manifest_format=xml", "application/yaml", demoYAML, 400, "INVALID_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+tt.path, tt.contentType, []byte(tt.body))
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if e := decodeError(t, resp); e.Code != tt.wantCode {
				t.Errorf("code = %q (%s), want %q", e.Code, e.Message, tt.wantCode)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	ts := newTestServer(t, 64)

	resp := post(t, ts.URL+"/v1/layout", "application/yaml", []byte(demoYAML))
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, 0)

	resp, err := http.Get(ts.URL + "/v2/layout")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	resp2, err := http.Get(ts.URL + "/v1/layout")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/layout status = %d, want 405", resp2.StatusCode)
	}
}

func TestLayoutDefaults(t *testing.T) {
	ts := newTestServer(t, 0, WithLayoutDefaults(config.LayoutConfig{Width: 320, Height: 480}))

	resp := post(t, ts.URL+"/v1/layout", "application/yaml", []byte("sections: [{items: 2}]"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got LayoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Layout.Width != 320 || got.Layout.Height != 480 {
		t.Errorf("container = %vx%v, want 320x480", got.Layout.Width, got.Layout.Height)
	}
}

// routeRecorder keeps the paths and routes the HTTP hooks receive.
type routeRecorder struct {
	observability.NoopHTTPHooks

	mu        sync.Mutex
	requests  []string
	responses []string
}

func (r *routeRecorder) OnRequest(_ context.Context, method, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, method+" "+path)
}

func (r *routeRecorder) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, fmt.Sprintf("%s %s %d", method, route, status))
}

func TestHTTPHooks(t *testing.T) {
	rec := &routeRecorder{}
	observability.SetHTTPHooks(rec)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, 0)
	resp := post(t, ts.URL+"/v1/render/svg", "application/yaml", []byte(demoYAML))
	io.Copy(io.Discard, resp.Body)
	ts.Close() // waits for the handler, and so for OnResponse, to return

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if want := []string{"POST /v1/render/svg"}; !slices.Equal(rec.requests, want) {
		t.Errorf("OnRequest paths = %q, want %q", rec.requests, want)
	}
	if want := []string{"POST /v1/render/{format} 200"}; !slices.Equal(rec.responses, want) {
		t.Errorf("OnResponse routes = %q, want %q", rec.responses, want)
	}
}
