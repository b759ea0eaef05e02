package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"sslmon/internal/logger"
)

const (
	// DefaultRDAPBootstrapURL is the IANA registry of RDAP services per TLD.
	DefaultRDAPBootstrapURL = "https://data.iana.org/rdap/dns.json"

	// DefaultWHOISRootServer answers TLD queries with a referral line.
	DefaultWHOISRootServer = "whois.iana.org"
)

// BootstrapEntry is one service of the RDAP bootstrap registry.
type BootstrapEntry struct {
	Labels  []string
	Servers []string
}

// ParseRDAPBootstrap decodes a registry document of the form
// {"services": [[[labels...], [urls...]], ...]}. Services with fewer than two
// lists are skipped.
func ParseRDAPBootstrap(data []byte) ([]BootstrapEntry, error) {
	var registry struct {
		Services [][][]string `json:"services"`
	}
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to decode RDAP bootstrap: %w", err)
	}

	entries := make([]BootstrapEntry, 0, len(registry.Services))
	for _, svc := range registry.Services {
		if len(svc) < 2 {
			continue
		}
		entries = append(entries, BootstrapEntry{Labels: svc[0], Servers: svc[1]})
	}
	return entries, nil
}

// SelectRDAPServer returns the first server of the first entry that lists tld
// and has at least one server. The result always ends with "/".
func SelectRDAPServer(entries []BootstrapEntry, tld string) (string, bool) {
	tld = strings.ToLower(tld)
	for _, entry := range entries {
		if len(entry.Servers) == 0 {
			continue
		}
		if !slices.ContainsFunc(entry.Labels, func(label string) bool {
			return strings.ToLower(label) == tld
		}) {
			continue
		}
		base := entry.Servers[0]
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		return base, true
	}
	return "", false
}

// ResolveRDAPServer fetches the bootstrap registry and picks the base URL
// serving tld. The registry is fetched on every call.
func (t Transport) ResolveRDAPServer(ctx context.Context, bootstrapURL, tld string) (string, error) {
	if bootstrapURL == "" {
		bootstrapURL = DefaultRDAPBootstrapURL
	}

	data, err := t.Get(ctx, bootstrapURL)
	if err != nil {
		return "", fmt.Errorf("RDAP bootstrap fetch failed: %w", err)
	}

	entries, err := ParseRDAPBootstrap(data)
	if err != nil {
		return "", err
	}

	base, ok := SelectRDAPServer(entries, tld)
	if !ok {
		return "", fmt.Errorf("%w for TLD: %s", ErrNoRDAPServer, tld)
	}

	logger.Get().Debug("rdap bootstrap resolved",
		slog.String("tld", tld),
		slog.String("server", base))
	return base, nil
}

// ParseWHOISReferral scans a root server response for the first "whois:"
// line and returns its value.
func ParseWHOISReferral(text string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(strings.ToLower(line), "whois:") {
			continue
		}
		server := strings.TrimSpace(line[len("whois:"):])
		return server, server != ""
	}
	return "", false
}

// ResolveWHOISServer asks the root server which WHOIS server handles tld.
func (t Transport) ResolveWHOISServer(ctx context.Context, rootServer, tld string) (string, error) {
	if rootServer == "" {
		rootServer = DefaultWHOISRootServer
	}

	text, err := t.QueryWHOIS(ctx, tld, rootServer)
	if err != nil {
		return "", err
	}

	server, ok := ParseWHOISReferral(text)
	if !ok {
		return "", fmt.Errorf("%w for TLD: %s", ErrNoWHOISServer, tld)
	}

	logger.Get().Debug("whois bootstrap resolved",
		slog.String("tld", tld),
		slog.String("server", server))
	return server, nil
}
