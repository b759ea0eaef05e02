package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"sslmon/internal/lookup/tools"
)

func certCommand(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "cert <host>",
		Short: "Inspect the TLS certificate served by a host",
		Long: `Connect to host:port, read the leaf certificate and report its validity
window. The chain is not verified.

Examples:
  sslmon cert example.com
  sslmon cert example.com --port 8443`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd, os.Stderr); err != nil {
				return err
			}

			result, err := a.service().CertificateInfo(cmd.Context(), args[0], port)
			if err != nil {
				return err
			}

			if err := a.renderer().RenderCertificate(cmd.OutOrStdout(), &result); err != nil {
				return err
			}
			if !result.OK() {
				return errors.New(result.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", tools.DefaultTLSPort, "TLS port")

	return cmd
}
