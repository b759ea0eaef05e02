package lookup

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/proxy"

	"sslmon/internal/logger"
	"sslmon/internal/lookup/tools"
	"sslmon/pkg/models"
)

// Service answers the two questions the tool exposes: who owns a domain and
// what certificate a host serves.
type Service interface {
	DomainInfo(ctx context.Context, domain string) (models.DomainLookup, error)
	CertificateInfo(ctx context.Context, host string, port int) (models.CertificateInspection, error)
}

// Options configures a Lookup. Zero values fall back to the defaults of the
// tools package.
type Options struct {
	Timeout            time.Duration
	UserAgent          string
	RDAPBootstrapURL   string
	WHOISRootServer    string
	StructuredFallback bool
	// Registrable reduces inputs to their registrable domain before lookup.
	Registrable bool

	HTTPClient  *http.Client
	WHOISDialer proxy.Dialer
	Now         func() time.Time
}

type Lookup struct {
	orchestrator *Orchestrator
	inspector    *tools.CertInspector
	registrable  bool
}

func New(opts Options) *Lookup {
	transport := tools.Transport{
		HTTPClient: opts.HTTPClient,
		Dialer:     opts.WHOISDialer,
		Timeout:    opts.Timeout,
		UserAgent:  opts.UserAgent,
	}

	rdap := &tools.RDAPResolver{
		Transport:    transport,
		BootstrapURL: opts.RDAPBootstrapURL,
	}
	whois := &tools.WHOISResolver{
		Transport:          transport,
		RootServer:         opts.WHOISRootServer,
		StructuredFallback: opts.StructuredFallback,
	}

	return &Lookup{
		orchestrator: NewOrchestrator(
			Strategy{Source: models.SourceRDAP, Resolver: rdap},
			Strategy{Source: models.SourceWHOIS, Resolver: whois, Hard: true},
		),
		inspector: &tools.CertInspector{
			Timeout: opts.Timeout,
			Now:     opts.Now,
		},
		registrable: opts.Registrable,
	}
}

// DomainInfo validates the domain and runs the RDAP then WHOIS chain. The
// only error is tools.ErrInvalidDomain; lookup failures are in the result.
func (l *Lookup) DomainInfo(ctx context.Context, domain string) (models.DomainLookup, error) {
	name, err := tools.ValidateDomain(domain)
	if err != nil {
		return models.DomainLookup{}, err
	}

	if l.registrable {
		if reduced := tools.RegistrableDomain(name); reduced != name {
			logger.GetFromContext(ctx, logger.Get()).Debug("reduced to registrable domain",
				slog.String("input", name),
				slog.String("domain", reduced))
			name = reduced
		}
	}

	return l.orchestrator.Resolve(ctx, name), nil
}

// CertificateInfo inspects the certificate served on host:port. Callers
// apply tools.DefaultTLSPort when no port was given.
func (l *Lookup) CertificateInfo(ctx context.Context, host string, port int) (models.CertificateInspection, error) {
	name, err := tools.ValidateHost(host)
	if err != nil {
		return models.CertificateInspection{}, err
	}

	return l.inspector.Inspect(ctx, name, port)
}
