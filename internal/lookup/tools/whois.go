package tools

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	whoisparser "github.com/likexian/whois-parser"

	"sslmon/internal/logger"
	"sslmon/pkg/models"
)

// whoisCue maps line markers to one record field. A line matches when its
// lowercased, trimmed form contains one of Contains, or when the raw line
// contains Exact.
type whoisCue struct {
	Contains []string
	Exact    string
	Date     bool
	Field    func(*models.DomainRecord) *string
}

func (c whoisCue) matches(lower, line string) bool {
	if c.Exact != "" && strings.Contains(line, c.Exact) {
		return true
	}
	for _, s := range c.Contains {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// whoisCues is evaluated for every line; each field keeps its first value.
var whoisCues = []whoisCue{
	{
		Contains: []string{"creation date", "created", "registered", "registration time"},
		Exact:    "Registration Time:",
		Date:     true,
		Field:    func(r *models.DomainRecord) *string { return &r.RegistrationDate },
	},
	{
		Contains: []string{"expiry date", "expiration", "expires", "expiration time"},
		Exact:    "Expiration Time:",
		Date:     true,
		Field:    func(r *models.DomainRecord) *string { return &r.ExpirationDate },
	},
	{
		Contains: []string{"registrar:", "sponsoring registrar:"},
		Exact:    "Sponsoring Registrar:",
		Field:    func(r *models.DomainRecord) *string { return &r.Registrar },
	},
	{
		Contains: []string{"registrant:", "registrant name:", "registrant organization:", "registrant contact:"},
		Exact:    "Registrant:",
		Field:    func(r *models.DomainRecord) *string { return &r.Registrant },
	},
	{
		Contains: []string{"status:"},
		Field:    func(r *models.DomainRecord) *string { return &r.Status },
	},
}

// ParseWHOIS extracts a record from a free-form WHOIS document. Text values
// are the colon-delimited segment following the label, so anything after a
// second colon (a URL, for instance) is dropped.
func ParseWHOIS(domain, text string) *models.DomainRecord {
	record := &models.DomainRecord{Domain: domain}

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))
		if lower == "" {
			continue
		}

		for _, cue := range whoisCues {
			field := cue.Field(record)
			if *field != "" || !cue.matches(lower, line) {
				continue
			}

			if cue.Date {
				if raw, ok := FindDate(line); ok {
					*field = NormalizeDate(raw)
				}
				continue
			}

			*field = colonSegment(line)
		}
	}

	return record
}

func colonSegment(line string) string {
	parts := strings.Split(line, ":")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// WHOISResolver finds the authoritative WHOIS server for a TLD through the
// root server and queries it on port 43.
type WHOISResolver struct {
	Transport  Transport
	RootServer string

	// StructuredFallback runs whois-parser over the document and uses its
	// values for fields the line heuristics left empty.
	StructuredFallback bool

	parse func(string) (whoisparser.WhoisInfo, error)
}

// Lookup resolves the WHOIS server for the domain's TLD, queries it and
// parses the reply.
func (r *WHOISResolver) Lookup(ctx context.Context, domain string) (*models.DomainRecord, error) {
	server, err := r.Transport.ResolveWHOISServer(ctx, r.RootServer, TLD(domain))
	if err != nil {
		return nil, err
	}

	text, err := r.Transport.QueryWHOIS(ctx, domain, server)
	if err != nil {
		return nil, err
	}

	record := ParseWHOIS(domain, text)
	if r.StructuredFallback {
		r.fillFromStructured(record, text)
	}
	return record, nil
}

func (r *WHOISResolver) fillFromStructured(record *models.DomainRecord, text string) {
	parse := r.parse
	if parse == nil {
		parse = whoisparser.Parse
	}

	info, err := parse(text)
	if err != nil {
		if errors.Is(err, whoisparser.ErrNotFoundDomain) {
			logger.Get().Debug("whois parser reports domain not found",
				slog.String("domain", record.Domain))
		} else {
			logger.Get().Debug("whois parser could not read document",
				slog.String("domain", record.Domain),
				slog.String("error", err.Error()))
		}
		return
	}

	if info.Domain != nil {
		fillEmpty(&record.RegistrationDate, NormalizeDate(info.Domain.CreatedDate))
		fillEmpty(&record.ExpirationDate, NormalizeDate(info.Domain.ExpirationDate))
		if len(info.Domain.Status) > 0 {
			fillEmpty(&record.Status, strings.Join(info.Domain.Status, ", "))
		}
	}

	if info.Registrar != nil {
		fillEmpty(&record.Registrar, strings.TrimSpace(info.Registrar.Name))
	}

	if info.Registrant != nil {
		owner := strings.TrimSpace(info.Registrant.Organization)
		if owner == "" {
			owner = strings.TrimSpace(info.Registrant.Name)
		}
		fillEmpty(&record.Registrant, owner)
	}
}

func fillEmpty(field *string, value string) {
	if *field == "" && value != "" {
		*field = value
	}
}
