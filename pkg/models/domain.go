package models

import (
	"encoding/json"
	"time"
)

// TimestampLayout is the canonical timestamp form: UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in the canonical timestamp form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Lookup sources.
const (
	SourceRDAP  = "rdap"
	SourceWHOIS = "whois"
)

type DomainRecord struct {
	Domain           string `json:"domain"`
	RegistrationDate string `json:"registrationDate,omitempty"`
	ExpirationDate   string `json:"expirationDate,omitempty"`
	Registrar        string `json:"registrar,omitempty"`
	Registrant       string `json:"registrant,omitempty"`
	Status           string `json:"status,omitempty"`
}

// DomainLookup is the outcome of a domain information request. Exactly one of
// Record and Failure is set.
type DomainLookup struct {
	Domain  string        `json:"domain"`
	Record  *DomainRecord `json:"record,omitempty"`
	Source  string        `json:"source,omitempty"`
	Failure string        `json:"failure,omitempty"`
}

// OK reports whether the lookup produced a record.
func (d DomainLookup) OK() bool {
	return d.Record != nil
}

// Payload returns the textual result handed to callers: the indented JSON
// record, or the failure description.
func (d DomainLookup) Payload() string {
	if d.Record == nil {
		return d.Failure
	}
	return indentJSON(d.Record, d.Failure)
}

func indentJSON(v any, fallback string) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fallback
	}
	return string(data)
}
