package server

import (
	"log/slog"
	"net/http"
	"strings"

	"sslmon/internal/config"
	"sslmon/internal/logger"
	"sslmon/internal/lookup"
	"sslmon/internal/renderer"
)

type Handler struct {
	lookup       lookup.Service
	jsonRenderer renderer.Renderer
	textRenderer renderer.Renderer
	config       *config.Config
	logger       *slog.Logger
}

func NewHandler(cfg *config.Config, svc lookup.Service) *Handler {
	return &Handler{
		lookup:       svc,
		jsonRenderer: renderer.NewJSONRenderer(),
		textRenderer: renderer.NewTextRenderer(),
		config:       cfg,
		logger:       logger.Get(),
	}
}

// Router returns the handler wrapped in the request id and access log
// middleware.
func (h *Handler) Router() http.Handler {
	return RequestIDMiddleware(LoggingMiddleware(h))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := r.URL.Path

	switch {
	case isRootPath(path):
		h.ServeHome(w, r)
	case isHealthPath(path):
		h.ServeHealth(w, r)
	case strings.HasPrefix(path, domainPrefix):
		h.ServeDomain(w, r)
	case strings.HasPrefix(path, certPrefix):
		h.ServeCertificate(w, r)
	default:
		http.NotFound(w, r)
	}
}

const (
	domainPrefix = "/domain/"
	certPrefix   = "/cert/"
)

type OutputFormat int

const (
	OutputFormatText OutputFormat = iota
	OutputFormatJSON
)

func (f OutputFormat) String() string {
	switch f {
	case OutputFormatText:
		return "text"
	case OutputFormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

func (h *Handler) getOutputFormat(r *http.Request) OutputFormat {
	if strings.EqualFold(r.URL.Query().Get("format"), "json") {
		return OutputFormatJSON
	}

	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return OutputFormatJSON
	}

	return OutputFormatText
}

func (h *Handler) renderer(format OutputFormat) renderer.Renderer {
	if format == OutputFormatJSON {
		return h.jsonRenderer
	}
	return h.textRenderer
}

func isRootPath(path string) bool {
	return path == "/"
}

func isHealthPath(path string) bool {
	return path == "/health"
}
