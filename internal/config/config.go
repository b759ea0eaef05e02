package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds all application configuration
type Config struct {
	App    AppConfig    `yaml:"app" json:"app"`
	Log    LogConfig    `yaml:"log" json:"log"`
	Lookup LookupConfig `yaml:"lookup" json:"lookup"`
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name              string `yaml:"name" json:"name"`
	Host              string `yaml:"host" json:"host"`
	Port              int    `yaml:"port" json:"port"`
	AdvertisedAddress string `yaml:"advertised_address" json:"advertised_address"`
}

// Address returns the host:port the server listens on
func (a *AppConfig) Address() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// BaseURL returns the address clients should use to reach the server
func (a *AppConfig) BaseURL() string {
	if a.AdvertisedAddress != "" {
		return strings.TrimSuffix(a.AdvertisedAddress, "/")
	}
	return "http://" + a.Address()
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// LookupConfig tunes domain and certificate lookups
type LookupConfig struct {
	Timeout            time.Duration `yaml:"timeout" json:"timeout"`
	RDAPBootstrapURL   string        `yaml:"rdap_bootstrap_url" json:"rdap_bootstrap_url"`
	WHOISRootServer    string        `yaml:"whois_root_server" json:"whois_root_server"`
	UserAgent          string        `yaml:"user_agent" json:"user_agent"`
	StructuredFallback bool          `yaml:"structured_fallback" json:"structured_fallback"`
	Registrable        bool          `yaml:"registrable" json:"registrable"`
	Concurrency        int           `yaml:"concurrency" json:"concurrency"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name: "sslmon",
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Lookup: LookupConfig{
			Timeout:          10 * time.Second,
			RDAPBootstrapURL: "https://data.iana.org/rdap/dns.json",
			WHOISRootServer:  "whois.iana.org",
			UserAgent:        "sslmon/1.0.0",
			Concurrency:      4,
		},
	}
}

// LoadOptions names the optional files Load reads.
type LoadOptions struct {
	// ConfigFile is a YAML file. Empty means none; a named file must exist.
	ConfigFile string
	// EnvFile is a dotenv file. A missing file is ignored.
	EnvFile string
}

// Load builds the configuration from defaults, the YAML file, the dotenv
// file and SSLMON_* environment variables, in that order of precedence
// (later wins). Variables already set in the environment win over the
// dotenv file.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if opts.ConfigFile != "" {
		if err := cfg.loadFromFile(opts.ConfigFile); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() error {
	if name := os.Getenv("SSLMON_APP_NAME"); name != "" {
		c.App.Name = name
	}

	if host := os.Getenv("SSLMON_HOST"); host != "" {
		c.App.Host = host
	}

	if port := os.Getenv("SSLMON_PORT"); port != "" {
		p, err := parsePort(port)
		if err != nil {
			return fmt.Errorf("invalid SSLMON_PORT value '%s': %w", port, err)
		}
		c.App.Port = p
	}

	if addr := os.Getenv("SSLMON_ADVERTISED_ADDRESS"); addr != "" {
		c.App.AdvertisedAddress = addr
	}

	if level := os.Getenv("SSLMON_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if format := os.Getenv("SSLMON_LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}

	if timeout := os.Getenv("SSLMON_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid SSLMON_TIMEOUT value '%s': %w", timeout, err)
		}
		c.Lookup.Timeout = d
	}

	if u := os.Getenv("SSLMON_RDAP_BOOTSTRAP_URL"); u != "" {
		c.Lookup.RDAPBootstrapURL = u
	}

	if server := os.Getenv("SSLMON_WHOIS_ROOT_SERVER"); server != "" {
		c.Lookup.WHOISRootServer = server
	}

	if ua := os.Getenv("SSLMON_USER_AGENT"); ua != "" {
		c.Lookup.UserAgent = ua
	}

	if v := os.Getenv("SSLMON_STRUCTURED_FALLBACK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SSLMON_STRUCTURED_FALLBACK value '%s': %w", v, err)
		}
		c.Lookup.StructuredFallback = b
	}

	if v := os.Getenv("SSLMON_REGISTRABLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SSLMON_REGISTRABLE value '%s': %w", v, err)
		}
		c.Lookup.Registrable = b
	}

	if v := os.Getenv("SSLMON_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SSLMON_CONCURRENCY value '%s': %w", v, err)
		}
		c.Lookup.Concurrency = n
	}

	return nil
}

// parsePort accepts "8080" and ":8080".
func parsePort(s string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(s, ":"))
}

// Validate ensures the configuration is valid
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name cannot be empty")
	}

	if c.App.Port < 1 || c.App.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.App.Port)
	}

	if c.App.AdvertisedAddress != "" {
		u, err := url.Parse(c.App.AdvertisedAddress)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("advertised address '%s' must be an absolute URL", c.App.AdvertisedAddress)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s': must be debug, info, warn, or error", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format '%s': must be text or json", c.Log.Format)
	}

	if c.Lookup.Timeout <= 0 {
		return fmt.Errorf("lookup timeout must be positive")
	}

	if c.Lookup.RDAPBootstrapURL == "" {
		return fmt.Errorf("RDAP bootstrap URL cannot be empty")
	}

	if c.Lookup.WHOISRootServer == "" {
		return fmt.Errorf("WHOIS root server cannot be empty")
	}

	if c.Lookup.Concurrency < 1 {
		return fmt.Errorf("lookup concurrency must be at least 1")
	}

	return nil
}

// String returns a string representation of the config for debugging
func (c *Config) String() string {
	return fmt.Sprintf("Config{App: {Name: %s, Address: %s}, Log: {Level: %s, Format: %s}, Lookup: {Timeout: %s, Bootstrap: %s, Fallback: %t, Registrable: %t, Concurrency: %d}}",
		c.App.Name, c.App.Address(), c.Log.Level, c.Log.Format,
		c.Lookup.Timeout, c.Lookup.RDAPBootstrapURL, c.Lookup.StructuredFallback, c.Lookup.Registrable, c.Lookup.Concurrency)
}
