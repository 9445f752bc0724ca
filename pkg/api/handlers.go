package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowbridge/pkg/buildinfo"
	"github.com/matzehuels/flowbridge/pkg/errors"
	"github.com/matzehuels/flowbridge/pkg/layout"
	"github.com/matzehuels/flowbridge/pkg/manifest"
	"github.com/matzehuels/flowbridge/pkg/pipeline"
	"github.com/matzehuels/flowbridge/pkg/render"
)

// Response headers describing how a result was produced.
const (
	HeaderLayoutID    = "X-Layout-ID"
	HeaderLayoutCache = "X-Cache-Layout"
	HeaderRenderCache = "X-Cache-Render"
)

// LayoutResponse is the body of POST /v1/layout.
type LayoutResponse struct {
	ManifestHash string        `json:"manifest_hash"`
	Cached       bool          `json:"cached"`
	Stats        StatsResponse `json:"stats"`
	Layout       layout.Layout `json:"layout"`
}

// StatsResponse summarizes a layout.
type StatsResponse struct {
	Sections int `json:"sections"`
	Items    int `json:"items"`
	Rows     int `json:"rows"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: buildinfo.Version,
		Commit:  buildinfo.Commit,
		Date:    buildinfo.Date,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	m, err := s.runner.Load(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), m, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := LayoutResponse{
		ManifestHash: pipeline.ManifestHash(m),
		Cached:       hit,
		Stats:        StatsResponse{Sections: len(l.Sections), Items: l.ItemCount()},
		Layout:       l,
	}
	for _, sec := range l.Sections {
		resp.Stats.Rows += sec.Rows
	}
	w.Header().Set(HeaderLayoutID, l.ID)
	w.Header().Set(HeaderLayoutCache, cacheStatus(hit))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := s.decodeOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set(HeaderLayoutID, result.Layout.ID)
	w.Header().Set(HeaderLayoutCache, cacheStatus(result.CacheInfo.LayoutHit))
	w.Header().Set(HeaderRenderCache, cacheStatus(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// decodeOptions reads pipeline options from a request. A JSON body is an
// Options object; a YAML or TOML body, or any body sent with
// ?manifest_format=, is the manifest itself with options taken from the
// query string. Query parameters override JSON fields.
func (s *Server) decodeOptions(r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return opts, err
	}

	raw, format, err := bodyFormat(r)
	if err != nil {
		return opts, err
	}

	if !raw {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&opts); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
		}
	} else {
		opts.Manifest = string(body)
		opts.ManifestFormat = string(format)
	}

	if err := applyQuery(&opts, r.URL.Query()); err != nil {
		return opts, err
	}
	opts.ApplyConfig(s.defaults)
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))
	return opts, nil
}

// bodyFormat reports whether the body is a raw manifest and in which
// format.
func bodyFormat(r *http.Request) (bool, manifest.Format, error) {
	if v := r.URL.Query().Get("manifest_format"); v != "" {
		format, err := manifest.ParseFormat(v)
		return true, format, err
	}

	ct := r.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/json"
	}
	format, err := manifest.ParseFormat(ct)
	if err != nil {
		return false, "", errors.Wrap(errors.ErrCodeUnsupported, err, "unsupported content type %q", ct)
	}
	return format != manifest.FormatJSON, format, nil
}

func applyQuery(opts *pipeline.Options, q url.Values) error {
	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"scale", &opts.Scale},
	}
	for _, f := range floats {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "query parameter %s must be a number (got %q)", f.name, v)
		}
		*f.dst = n
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"labels", &opts.Labels},
		{"refresh", &opts.Refresh},
	}
	for _, b := range bools {
		v := q.Get(b.name)
		if v == "" {
			continue
		}
		on, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "query parameter %s must be a boolean (got %q)", b.name, v)
		}
		*b.dst = on
	}

	if v := q.Get("style"); v != "" {
		opts.Style = strings.ToLower(v)
	}
	return nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
