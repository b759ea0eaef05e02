package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ServeHome handles the root "/" route
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	switch h.getOutputFormat(r) {
	case OutputFormatJSON:
		h.writeHomeJSON(w)
	default:
		h.writeHomeText(w)
	}
}

func (h *Handler) writeHomeText(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	base := h.config.App.BaseURL()
	var b strings.Builder

	fmt.Fprintf(&b, "%s - Domain Registration & TLS Certificate Inspector\n\n", h.config.App.Name)

	b.WriteString("Usage:\n")
	fmt.Fprintf(&b, "  curl %s/domain/<domain>\n", base)
	fmt.Fprintf(&b, "  curl %s/cert/<host>[?port=443]\n\n", base)

	b.WriteString("Examples:\n")
	fmt.Fprintf(&b, "  curl %s/domain/example.com\n", base)
	fmt.Fprintf(&b, "  curl %s/cert/example.com\n", base)
	fmt.Fprintf(&b, "  curl %s/cert/example.com?port=8443\n\n", base)

	b.WriteString("Output Formats:\n")
	fmt.Fprintf(&b, "  Text (default): curl %s/domain/example.com\n", base)
	fmt.Fprintf(&b, "  JSON:           curl %s/domain/example.com?format=json\n", base)
	fmt.Fprintf(&b, "  JSON (header):  curl -H \"Accept: application/json\" %s/domain/example.com\n\n", base)

	b.WriteString("Lookups:\n")
	b.WriteString("  • Registration data via RDAP, falling back to WHOIS\n")
	b.WriteString("  • Certificate validity window from a single TLS handshake\n")
	fmt.Fprintf(&b, "  • Network timeout: %s\n\n", h.config.Lookup.Timeout)

	fmt.Fprint(w, b.String())
}

func (h *Handler) writeHomeJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")

	base := h.config.App.BaseURL()
	response := map[string]any{
		"name":        h.config.App.Name,
		"description": "Domain Registration & TLS Certificate Inspector",
		"usage": map[string]string{
			"domain": base + "/domain/<domain>",
			"cert":   base + "/cert/<host>?port=443",
		},
		"examples": []string{
			base + "/domain/example.com",
			base + "/cert/example.com",
		},
		"formats": map[string]string{
			"text": base + "/domain/example.com",
			"json": base + "/domain/example.com?format=json",
		},
		"lookup": map[string]any{
			"timeout":             h.config.Lookup.Timeout.String(),
			"structured_fallback": h.config.Lookup.StructuredFallback,
			"registrable":         h.config.Lookup.Registrable,
		},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(response)
}
