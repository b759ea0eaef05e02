package renderer

import (
	"fmt"
	"io"

	"sslmon/pkg/models"
)

// TextRenderer prints results as aligned plain text.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *TextRenderer) RenderDomain(w io.Writer, result *models.DomainLookup) error {
	if result == nil {
		return fmt.Errorf("domain result cannot be nil")
	}

	fmt.Fprintf(w, "═══ %s ═══\n", result.Domain)

	if !result.OK() {
		fmt.Fprintf(w, "%s\n\n", result.Failure)
		return nil
	}

	record := result.Record
	fmt.Fprintf(w, "Source: %s\n\n", result.Source)
	fmt.Fprintf(w, "[ REGISTRATION ]\n")
	field(w, "Registrar", record.Registrar)
	field(w, "Registrant", record.Registrant)
	field(w, "Registered", record.RegistrationDate)
	field(w, "Expires", record.ExpirationDate)
	field(w, "Status", record.Status)
	fmt.Fprintf(w, "\n")

	return nil
}

func (r *TextRenderer) RenderCertificate(w io.Writer, result *models.CertificateInspection) error {
	if result == nil {
		return fmt.Errorf("certificate result cannot be nil")
	}

	fmt.Fprintf(w, "═══ %s:%d ═══\n", result.Host, result.Port)

	if !result.OK() {
		fmt.Fprintf(w, "%s\n\n", result.Message)
		return nil
	}

	cert := result.Record
	fmt.Fprintf(w, "[ CERTIFICATE ]\n")
	field(w, "Subject", cert.Subject)
	field(w, "Issuer", cert.Issuer)
	field(w, "Valid From", cert.ValidFrom)
	field(w, "Valid To", cert.ValidTo)

	switch {
	case cert.IsValid:
		fmt.Fprintf(w, "  %-12s ✓ Valid (%d days left)\n", "Status:", cert.DaysUntilExpiry)
	case cert.DaysUntilExpiry <= 0:
		fmt.Fprintf(w, "  %-12s ✗ Expired (%d days ago)\n", "Status:", -cert.DaysUntilExpiry)
	default:
		fmt.Fprintf(w, "  %-12s ⚠ Not yet valid\n", "Status:")
	}
	fmt.Fprintf(w, "\n")

	return nil
}

func field(w io.Writer, label, value string) {
	if value == "" {
		value = "Unknown"
	}
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}
