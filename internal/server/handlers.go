package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/auradisp/pkg/buildinfo"
	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/graph"
	"github.com/matzehuels/auradisp/pkg/render"
)

// Response headers carrying run metadata.
const (
	HeaderRunID = "X-Run-ID"
	HeaderCache = "X-Cache"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// LayoutResponse is the body of GET /v1/layout.
type LayoutResponse struct {
	RunID      string         `json:"run_id"`
	LayoutHash string         `json:"layout_hash"`
	Stats      LayoutStats    `json:"stats"`
	Cached     bool           `json:"cached"`
	Layout     graph.Layout   `json:"layout"`
	Options    map[string]any `json:"options"`
}

// LayoutStats summarizes a resolved layout.
type LayoutStats struct {
	Nodes         int     `json:"nodes"`
	Edges         int     `json:"edges"`
	ExpectedEdges int     `json:"expected_edges"`
	Conflicts     int     `json:"conflicts"`
	Components    int     `json:"components"`
	MaxDegree     int     `json:"max_degree"`
	Span          float64 `json:"span"`
	LayoutMillis  int64   `json:"layout_ms"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := parseOptions(r.URL.Query(), s.defaults, s.maxNodes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{string(render.FormatJSON)}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set(HeaderRunID, result.RunID)
	writeJSON(w, http.StatusOK, LayoutResponse{
		RunID:      result.RunID,
		LayoutHash: result.LayoutHash,
		Cached:     result.CacheInfo.LayoutHit,
		Layout:     result.Layout,
		Stats: LayoutStats{
			Nodes:         result.Stats.NodeCount,
			Edges:         result.Stats.EdgeCount,
			ExpectedEdges: result.Stats.ExpectedEdges,
			Conflicts:     result.Stats.Conflicts,
			Components:    result.Stats.Components,
			MaxDegree:     result.Stats.MaxDegree,
			Span:          result.Stats.Span,
			LayoutMillis:  result.Stats.LayoutTime.Milliseconds(),
		},
		Options: map[string]any{
			"nodes":      opts.Nodes,
			"seed":       opts.Seed,
			"policy":     opts.Policy,
			"brightness": opts.Brightness,
		},
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := parseOptions(r.URL.Query(), s.defaults, s.maxNodes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{string(format)}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cache := "MISS"
	if result.CacheInfo.RenderHit {
		cache = "HIT"
	}
	data := result.Artifacts[string(format)]
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set(HeaderRunID, result.RunID)
	w.Header().Set(HeaderCache, cache)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "stats are not recorded by this server"))
		return
	}
	writeJSON(w, http.StatusOK, s.recorder.Snapshot())
}

// writeError maps error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, ErrorResponse{
		Error:     string(code),
		Message:   errors.UserMessage(err),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func statusFor(err error) int {
	code := errors.GetCode(err)
	switch {
	case code == errors.ErrCodeInvalidFormat, code == errors.ErrCodeNotFound:
		return http.StatusNotFound
	case code.IsValidation():
		return http.StatusBadRequest
	case code == errors.ErrCodeDegenerateGeometry, code == errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
