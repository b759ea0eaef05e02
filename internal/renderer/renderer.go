package renderer

import (
	"io"

	"sslmon/pkg/models"
)

// Renderer writes lookup results for a human or a machine.
type Renderer interface {
	RenderDomain(w io.Writer, result *models.DomainLookup) error
	RenderCertificate(w io.Writer, result *models.CertificateInspection) error
	ContentType() string
}
