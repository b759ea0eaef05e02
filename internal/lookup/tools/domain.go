package tools

import (
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/publicsuffix"
)

// NormalizeDomain trims whitespace and a trailing dot and lowercases the name.
func NormalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimSuffix(domain, ".")
	return strings.ToLower(domain)
}

// ValidateDomain normalizes domain and checks that it is a domain name with at
// least two labels.
func ValidateDomain(domain string) (string, error) {
	name := NormalizeDomain(domain)
	if name == "" {
		return "", fmt.Errorf("%w: empty domain", ErrInvalidDomain)
	}

	// IsDomainName accepts escaped presentation format, which never belongs
	// in a URL path or a WHOIS query line.
	if strings.ContainsAny(name, " \t\r\n/\\:@?#\"") {
		return "", fmt.Errorf("%w: %s", ErrInvalidDomain, domain)
	}

	if _, ok := dns.IsDomainName(name); !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidDomain, domain)
	}

	if dns.CountLabel(name) < 2 {
		return "", fmt.Errorf("%w: %s has no TLD", ErrInvalidDomain, domain)
	}

	return name, nil
}

// TLD returns the last label of an already validated domain.
func TLD(domain string) string {
	labels := dns.SplitDomainName(domain)
	if len(labels) == 0 {
		return ""
	}
	return strings.ToLower(labels[len(labels)-1])
}

// RegistrableDomain reduces domain to its eTLD+1. Names that are themselves a
// public suffix are returned unchanged.
func RegistrableDomain(domain string) string {
	registrable, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return domain
	}
	return registrable
}

// ValidateHost normalizes a TLS target. IP addresses and single-label names
// are accepted.
func ValidateHost(host string) (string, error) {
	name := NormalizeDomain(host)
	if name == "" {
		return "", fmt.Errorf("%w: empty host", ErrInvalidDomain)
	}

	if net.ParseIP(name) != nil {
		return name, nil
	}

	if strings.ContainsAny(name, " \t\r\n/\\:@?#\"") {
		return "", fmt.Errorf("%w: %s", ErrInvalidDomain, host)
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidDomain, host)
	}

	return name, nil
}

// ValidatePort checks that port is in 1..65535.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	return nil
}
