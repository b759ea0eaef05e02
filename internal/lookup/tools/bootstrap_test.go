package tools

import (
	"context"
	"testing"
	"time"
)

func TestSelectRDAPServer(t *testing.T) {
	entries, err := ParseRDAPBootstrap([]byte(`{
		"services": [
			[["com"], []],
			[["br"]],
			[["com", "net"], ["https://rdap.verisign.com/com/v1"]],
			[["COM"], ["https://second.example/"]],
			[["org"], ["https://rdap.org.example/", "https://backup.example/"]]
		]
	}`))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	tests := []struct {
		tld   string
		want  string
		found bool
	}{
		{"com", "https://rdap.verisign.com/com/v1/", true},
		{"net", "https://rdap.verisign.com/com/v1/", true},
		{"org", "https://rdap.org.example/", true},
		{"br", "", false},
		{"dev", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.tld, func(t *testing.T) {
			got, found := SelectRDAPServer(entries, tt.tld)
			if found != tt.found {
				t.Fatalf("Expected found=%v, got %v", tt.found, found)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseRDAPBootstrap_Malformed(t *testing.T) {
	if _, err := ParseRDAPBootstrap([]byte(`<html>`)); err == nil {
		t.Error("Expected error for non-JSON registry")
	}
}

func TestParseWHOISReferral(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{
			name:  "iana response",
			text:  "% IANA WHOIS server\r\n\r\ndomain:       COM\r\n\r\norganisation: VeriSign Global Registry Services\r\nwhois:        whois.verisign-grs.com\r\n",
			want:  "whois.verisign-grs.com",
			found: true,
		},
		{
			name:  "mixed case and indentation",
			text:  "  WHOIS: whois.nic.example  \n",
			want:  "whois.nic.example",
			found: true,
		},
		{
			name:  "first line wins",
			text:  "whois: first.example\nwhois: second.example\n",
			want:  "first.example",
			found: true,
		},
		{
			name:  "empty value",
			text:  "domain: EXAMPLE\nwhois:\n",
			found: false,
		},
		{
			name:  "no referral",
			text:  "% This query returned 0 objects.\n",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ParseWHOISReferral(tt.text)
			if found != tt.found {
				t.Fatalf("Expected found=%v, got %v", tt.found, found)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTransport_ResolveWHOISServerRoot(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		expected string
	}{
		{"configured root", "root.custom.example", "root.custom.example:43"},
		{"default root", "", DefaultWHOISRootServer + ":43"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := startFakeWHOIS(t, map[string]string{"com": "domain: COM\nwhois: whois.verisign-grs.com\n"})
			dialer := &redirectDialer{target: srv.ln.Addr().String()}
			transport := Transport{Dialer: dialer, Timeout: 2 * time.Second}

			server, err := transport.ResolveWHOISServer(context.Background(), tt.root, "com")
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if server != "whois.verisign-grs.com" {
				t.Errorf("Expected whois.verisign-grs.com, got %q", server)
			}

			requested := dialer.Requested()
			if len(requested) != 1 || requested[0] != tt.expected {
				t.Errorf("Expected dial to %s, got %v", tt.expected, requested)
			}
		})
	}
}
