package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sslmon/pkg/models"
)

// RDAPResolver looks domains up through the RDAP service named by the
// bootstrap registry.
type RDAPResolver struct {
	Transport    Transport
	BootstrapURL string
}

// Lookup resolves the RDAP base URL for the domain's TLD and fetches
// <base>domain/<domain>. Every failure is returned as an error; callers treat
// all of them as "RDAP unavailable".
func (r *RDAPResolver) Lookup(ctx context.Context, domain string) (*models.DomainRecord, error) {
	if !strings.Contains(domain, ".") {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDomain, domain)
	}

	base, err := r.Transport.ResolveRDAPServer(ctx, r.BootstrapURL, TLD(domain))
	if err != nil {
		return nil, err
	}

	body, err := r.Transport.Get(ctx, base+"domain/"+domain)
	if err != nil {
		return nil, fmt.Errorf("RDAP query failed: %w", err)
	}

	return ParseRDAP(domain, body)
}

type rdapDomain struct {
	Status []string `json:"status"`
	Events []struct {
		Action string `json:"eventAction"`
		Date   string `json:"eventDate"`
	} `json:"events"`
	Entities []struct {
		Roles      []string        `json:"roles"`
		VCardArray json.RawMessage `json:"vcardArray"`
	} `json:"entities"`
}

// ParseRDAP extracts a record from an RDAP domain object. Event dates are
// kept exactly as the server wrote them.
func ParseRDAP(domain string, body []byte) (*models.DomainRecord, error) {
	var doc rdapDomain
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode RDAP response: %w", err)
	}

	record := &models.DomainRecord{Domain: domain}

	for _, ev := range doc.Events {
		if ev.Date == "" {
			continue
		}
		switch ev.Action {
		case "registration":
			if record.RegistrationDate == "" {
				record.RegistrationDate = ev.Date
			}
		case "expiration":
			if record.ExpirationDate == "" {
				record.ExpirationDate = ev.Date
			}
		}
	}

	for _, entity := range doc.Entities {
		if len(entity.Roles) == 0 || len(entity.VCardArray) == 0 {
			continue
		}
		name := vcardFullName(entity.VCardArray)
		if name == "" {
			continue
		}
		for _, role := range entity.Roles {
			switch role {
			case "registrar":
				if record.Registrar == "" {
					record.Registrar = name
				}
			case "registrant":
				if record.Registrant == "" {
					record.Registrant = name
				}
			}
		}
	}

	if len(doc.Status) > 0 {
		record.Status = strings.Join(doc.Status, ", ")
	}

	return record, nil
}

// vcardFullName returns the text value of the first "fn" property that has
// one. A vCard array looks like ["vcard", [[name, params, type, value], ...]].
func vcardFullName(raw json.RawMessage) string {
	var card []json.RawMessage
	if err := json.Unmarshal(raw, &card); err != nil || len(card) < 2 {
		return ""
	}

	var props []json.RawMessage
	if err := json.Unmarshal(card[1], &props); err != nil {
		return ""
	}

	for _, p := range props {
		var prop []json.RawMessage
		if err := json.Unmarshal(p, &prop); err != nil || len(prop) < 4 {
			continue
		}
		var name string
		if err := json.Unmarshal(prop[0], &name); err != nil || name != "fn" {
			continue
		}
		var value string
		if err := json.Unmarshal(prop[3], &value); err != nil || value == "" {
			continue
		}
		return value
	}
	return ""
}
