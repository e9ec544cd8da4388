// Package server exposes the callout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                  liveness and build version
//	POST /v1/generate              generate callouts, returns the document
//	POST /v1/remove                remove callouts, returns the document
//	POST /v1/render?format=svg     render a page, returns the image
//
// Request bodies are scene documents. A Content-Type of application/yaml (or
// application/x-yaml) selects the YAML decoder; anything else is
// read as JSON. The page, frames and scale query parameters map to the
// pipeline options of the same names.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/calloutgen/pkg/buildinfo"
	"github.com/matzehuels/calloutgen/pkg/core/callouts"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/observability"
	"github.com/matzehuels/calloutgen/pkg/pipeline"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// MaxBodyBytes caps request documents.
const MaxBodyBytes = 32 << 20

// shutdownTimeout bounds how long in-flight requests may finish after the
// server is asked to stop.
const shutdownTimeout = 10 * time.Second

// Server serves the pipeline API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	scale  float64
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithScale sets the PNG scale used when a request does not pass one.
func WithScale(scale float64) Option {
	return func(s *Server) { s.scale = scale }
}

// New returns a server backed by runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{runner: runner, scale: pipeline.DefaultScale}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = runner.Logger
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/generate", s.handleApply(callouts.CommandGenerate))
		r.Post("/remove", s.handleApply(callouts.CommandRemove))
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

// applyResponse is returned by the generate and remove routes.
type applyResponse struct {
	Notification callouts.Notification `json:"notification"`
	Document     *scene.Document       `json:"document,omitempty"`
	Cached       bool                  `json:"cached"`
}

func (s *Server) handleApply(cmd callouts.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := s.readDocument(w, r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		q := r.URL.Query()
		doc, note, hit, err := s.runner.ApplyWithCacheInfo(r.Context(), doc, pipeline.Options{
			Page:    q.Get("page"),
			Frames:  splitList(q.Get("frames")),
			Command: cmd,
			Refresh: q.Get("refresh") == "true",
			Logger:  s.logger,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		status := http.StatusOK
		resp := applyResponse{Notification: note, Document: doc, Cached: hit}
		if note.Error {
			status = statusFor(errors.Code(note.Code))
			resp.Document = nil
		}
		writeJSON(w, status, resp)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := errors.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	scale := s.scale
	if raw := q.Get("scale"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", raw))
			return
		}
		scale = v
	}

	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), doc, pipeline.Options{
		Page:       q.Get("page"),
		Formats:    []string{format},
		Scale:      scale,
		EmbedFonts: q.Get("embed_fonts") == "true",
		Refresh:    q.Get("refresh") == "true",
		Logger:     s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Cache", cacheHeader(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// readDocument decodes the request body, choosing the decoder from the
// Content-Type.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (*scene.Document, error) {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()

	format := scene.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = scene.FormatYAML
	}
	return scene.Read(body, format)
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, errorResponse{Error: errorBody{Code: string(code), Message: errors.UserMessage(err)}})
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidBounds,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodePageNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNoTargets, errors.ErrCodeNoAnnotations:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	}
	return "image/svg+xml"
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
