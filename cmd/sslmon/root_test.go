package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	envFile := filepath.Join(t.TempDir(), "missing.env")
	cmd := rootCmd()
	cmd.SetArgs(append(args, "--env-file", envFile))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "sslmon "+Version) {
		t.Errorf("Expected version line, got %q", out)
	}
}

func TestDomainCommandInvalidDomain(t *testing.T) {
	out, err := execute(t, "domain", "not a domain", "--json")
	if err == nil {
		t.Fatal("Expected error for failed lookup")
	}
	if !strings.Contains(err.Error(), "1 of 1 domain lookups failed") {
		t.Errorf("Expected failure count in error, got %q", err.Error())
	}
	if !strings.Contains(out, `"failure": "invalid domain format`) {
		t.Errorf("Expected JSON failure entry, got %q", out)
	}
}

func TestDomainCommandRequiresArgs(t *testing.T) {
	if _, err := execute(t, "domain"); err == nil {
		t.Error("Expected error without arguments")
	}
}

func TestCertCommandInvalidPort(t *testing.T) {
	_, err := execute(t, "cert", "example.com", "--port", "70000")
	if err == nil {
		t.Fatal("Expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "invalid port") {
		t.Errorf("Expected invalid port error, got %q", err.Error())
	}
}

func TestCertCommandZeroPort(t *testing.T) {
	_, err := execute(t, "cert", "example.com", "--port", "0")
	if err == nil || !strings.Contains(err.Error(), "invalid port: 0") {
		t.Errorf("Expected invalid port error for port 0, got %v", err)
	}
}

func TestLogLevelFlagOverridesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sslmon.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "domain", "not a domain", "--config", path, "--log-level", "verbose")
	if err == nil {
		t.Fatal("Expected error for invalid log level flag")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Expected invalid configuration error, got %q", err.Error())
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "domain", "example.com", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "failed to load config file") {
		t.Errorf("Expected config file error, got %q", err.Error())
	}
}
