package tools

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"strconv"
	"time"

	"sslmon/internal/logger"
	"sslmon/pkg/models"
)

// DefaultTLSPort is used when no port is given.
const DefaultTLSPort = 443

// CertInspector performs one TLS handshake per call and reports the validity
// window of the leaf certificate. Chains are not verified.
type CertInspector struct {
	Timeout time.Duration
	// Now returns the reference time for validity checks.
	Now func() time.Time
}

func (c *CertInspector) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Inspect connects to host:port with SNI set to host. Connection problems are
// reported through the outcome; the only error is ErrInvalidPort.
func (c *CertInspector) Inspect(ctx context.Context, host string, port int) (models.CertificateInspection, error) {
	if err := ValidatePort(port); err != nil {
		return models.CertificateInspection{}, err
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	target := fmt.Sprintf("%s:%d", host, port)
	result := models.CertificateInspection{Host: host, Port: port}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{},
		Config: &tls.Config{
			ServerName: host,
			// Expired and self-signed certificates must still be reported.
			InsecureSkipVerify: true,
		},
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || isNetTimeout(err) {
			result.Outcome = models.CertificateTimeout
			result.Message = fmt.Sprintf("SSL connection timeout for %s", target)
		} else {
			result.Outcome = models.CertificateConnectionFailed
			result.Message = fmt.Sprintf("SSL connection failed for %s: %s", target, err.Error())
		}
		logger.Get().Debug("tls handshake failed",
			slog.String("target", target),
			slog.String("outcome", string(result.Outcome)),
			slog.String("error", err.Error()))
		return result, nil
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) == 0 {
		result.Outcome = models.CertificateNotPresented
		result.Message = fmt.Sprintf("No SSL certificate found for %s", target)
		return result, nil
	}

	record := BuildCertificateRecord(host, state.PeerCertificates[0], c.now())
	result.Outcome = models.CertificateOK
	result.Record = &record

	logger.Get().Debug("certificate inspected",
		slog.String("target", target),
		slog.String("subject", record.Subject),
		slog.Int("days_until_expiry", record.DaysUntilExpiry))
	return result, nil
}

// BuildCertificateRecord derives the record for a leaf certificate as seen at
// now. Both ends of the validity window are inclusive.
func BuildCertificateRecord(host string, cert *x509.Certificate, now time.Time) models.CertificateRecord {
	issuer := cert.Issuer.CommonName
	if issuer == "" {
		issuer = "Unknown"
	}

	subject := cert.Subject.CommonName
	if subject == "" {
		subject = host
	}

	return models.CertificateRecord{
		Domain:          host,
		ValidFrom:       models.FormatTimestamp(cert.NotBefore),
		ValidTo:         models.FormatTimestamp(cert.NotAfter),
		Issuer:          issuer,
		Subject:         subject,
		IsValid:         !now.Before(cert.NotBefore) && !now.After(cert.NotAfter),
		DaysUntilExpiry: int(math.Ceil(cert.NotAfter.Sub(now).Hours() / 24)),
	}
}
