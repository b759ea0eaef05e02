package models

// CertificateOutcome classifies a certificate inspection.
type CertificateOutcome string

const (
	CertificateOK               CertificateOutcome = "ok"
	CertificateNotPresented     CertificateOutcome = "no_certificate"
	CertificateConnectionFailed CertificateOutcome = "connection_failed"
	CertificateTimeout          CertificateOutcome = "timeout"
)

// CertificateRecord describes the validity window of a served leaf certificate.
// It only exists when a handshake succeeded and a certificate was presented.
type CertificateRecord struct {
	Domain          string `json:"domain"`
	ValidFrom       string `json:"validFrom"`
	ValidTo         string `json:"validTo"`
	Issuer          string `json:"issuer"`
	Subject         string `json:"subject"`
	IsValid         bool   `json:"isValid"`
	DaysUntilExpiry int    `json:"daysUntilExpiry"`
}

// CertificateInspection is the outcome of a certificate request. Record is set
// only when Outcome is CertificateOK; otherwise Message describes what happened.
type CertificateInspection struct {
	Host    string             `json:"host"`
	Port    int                `json:"port"`
	Outcome CertificateOutcome `json:"outcome"`
	Record  *CertificateRecord `json:"record,omitempty"`
	Message string             `json:"message,omitempty"`
}

func (c CertificateInspection) OK() bool {
	return c.Outcome == CertificateOK && c.Record != nil
}

// Payload returns the textual result handed to callers.
func (c CertificateInspection) Payload() string {
	if !c.OK() {
		return c.Message
	}
	return indentJSON(c.Record, c.Message)
}
