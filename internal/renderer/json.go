package renderer

import (
	"encoding/json"
	"fmt"
	"io"

	"sslmon/pkg/models"
)

type JSONRenderer struct {
	Indent bool
}

func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{Indent: true}
}

func NewJSONRendererCompact() *JSONRenderer {
	return &JSONRenderer{Indent: false}
}

func (j *JSONRenderer) ContentType() string {
	return "application/json; charset=utf-8"
}

func (j *JSONRenderer) RenderDomain(w io.Writer, result *models.DomainLookup) error {
	if result == nil {
		return fmt.Errorf("domain result cannot be nil")
	}
	return j.encode(w, result)
}

func (j *JSONRenderer) RenderCertificate(w io.Writer, result *models.CertificateInspection) error {
	if result == nil {
		return fmt.Errorf("certificate result cannot be nil")
	}
	return j.encode(w, result)
}

func (j *JSONRenderer) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if j.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
