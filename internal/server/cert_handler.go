package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"sslmon/internal/lookup/tools"
)

// ServeCertificate handles "/cert/{host}?port=N". The port defaults to 443
// only when the parameter is absent.
func (h *Handler) ServeCertificate(w http.ResponseWriter, r *http.Request) {
	host := strings.TrimPrefix(r.URL.Path, certPrefix)
	if host == "" {
		http.Error(w, "No host specified", http.StatusBadRequest)
		return
	}

	port := tools.DefaultTLSPort
	if r.URL.Query().Has("port") {
		raw := r.URL.Query().Get("port")
		p, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid port: "+raw, http.StatusBadRequest)
			return
		}
		port = p
	}

	result, err := h.lookup.CertificateInfo(r.Context(), host, port)
	if err != nil {
		if errors.Is(err, tools.ErrInvalidDomain) || errors.Is(err, tools.ErrInvalidPort) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		GetLoggerFromContext(r.Context(), h.logger).Error("certificate inspection error",
			slog.String("host", host),
			slog.Int("port", port),
			slog.String("error", err.Error()))
		http.Error(w, "Inspection failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	rd := h.renderer(h.getOutputFormat(r))
	w.Header().Set("Content-Type", rd.ContentType())
	if err := rd.RenderCertificate(w, &result); err != nil {
		http.Error(w, "Failed to render response: "+err.Error(), http.StatusInternalServerError)
	}
}
