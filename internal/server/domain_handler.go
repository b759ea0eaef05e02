package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sslmon/internal/lookup/tools"
)

// ServeDomain handles "/domain/{domain}". Lookup failures are part of a 200
// response; only malformed domains are rejected.
func (h *Handler) ServeDomain(w http.ResponseWriter, r *http.Request) {
	domain := strings.TrimPrefix(r.URL.Path, domainPrefix)
	if domain == "" {
		http.Error(w, "No domain specified", http.StatusBadRequest)
		return
	}

	result, err := h.lookup.DomainInfo(r.Context(), domain)
	if err != nil {
		if errors.Is(err, tools.ErrInvalidDomain) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		GetLoggerFromContext(r.Context(), h.logger).Error("domain lookup error",
			slog.String("domain", domain),
			slog.String("error", err.Error()))
		http.Error(w, "Lookup failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	rd := h.renderer(h.getOutputFormat(r))
	w.Header().Set("Content-Type", rd.ContentType())
	if err := rd.RenderDomain(w, &result); err != nil {
		http.Error(w, "Failed to render response: "+err.Error(), http.StatusInternalServerError)
	}
}
