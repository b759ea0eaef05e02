package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sslmon/internal/config"
	"sslmon/internal/logger"
	"sslmon/internal/lookup"
	"sslmon/internal/renderer"
)

// app carries state shared by the subcommands once configuration is loaded.
type app struct {
	configFile string
	envFile    string
	logLevel   string
	logFormat  string
	timeout    time.Duration
	jsonOutput bool

	cfg *config.Config
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "sslmon",
		Short: "Inspect domain registration data and TLS certificates",
		Long: `sslmon answers two questions about a domain: who registered it and when
the registration expires (RDAP first, WHOIS as fallback), and what validity
window the TLS certificate served by a host currently has.

Quick start:
  sslmon domain example.com            # Registration data
  sslmon cert example.com              # Certificate on port 443
  sslmon cert example.com --port 8443  # Certificate on another port
  sslmon serve                         # HTTP interface`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to a YAML configuration file")
	flags.StringVar(&a.envFile, "env-file", ".env", "Path to a dotenv file (ignored when missing)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")
	flags.DurationVar(&a.timeout, "timeout", 0, "Timeout for each network step (e.g. 10s)")
	flags.BoolVar(&a.jsonOutput, "json", false, "Print JSON even on a terminal")

	cmd.AddCommand(serveCommand(a))
	cmd.AddCommand(domainCommand(a))
	cmd.AddCommand(certCommand(a))
	cmd.AddCommand(versionCommand())

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// load reads configuration, applies flag overrides and initializes the
// global logger writing to logOut.
func (a *app) load(cmd *cobra.Command, logOut io.Writer) error {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: a.configFile, EnvFile: a.envFile})
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("timeout") {
		cfg.Lookup.Timeout = a.timeout
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := logger.Init(logOut, cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}

func (a *app) service() *lookup.Lookup {
	return lookup.New(lookup.Options{
		Timeout:            a.cfg.Lookup.Timeout,
		UserAgent:          a.cfg.Lookup.UserAgent,
		RDAPBootstrapURL:   a.cfg.Lookup.RDAPBootstrapURL,
		WHOISRootServer:    a.cfg.Lookup.WHOISRootServer,
		StructuredFallback: a.cfg.Lookup.StructuredFallback,
		Registrable:        a.cfg.Lookup.Registrable,
	})
}

// renderer picks text for terminals and JSON for pipes or --json.
func (a *app) renderer() renderer.Renderer {
	if a.jsonOutput || !term.IsTerminal(int(os.Stdout.Fd())) {
		return renderer.NewJSONRenderer()
	}
	return renderer.NewTextRenderer()
}
