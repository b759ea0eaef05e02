package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sslmon/internal/lookup"
)

func domainCommand(a *app) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "domain <domain> [domain...]",
		Short: "Look up registration data for one or more domains",
		Long: `Look up registration data via RDAP, falling back to WHOIS.

Several domains are looked up concurrently; results are printed in the
order given. The command exits non-zero when any lookup fails.

Examples:
  sslmon domain example.com
  sslmon domain example.com example.org --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd, os.Stderr); err != nil {
				return err
			}
			if cmd.Flags().Changed("concurrency") {
				a.cfg.Lookup.Concurrency = concurrency
			}

			results := lookup.DomainInfoBatch(cmd.Context(), a.service(), args, a.cfg.Lookup.Concurrency)

			r := a.renderer()
			out := cmd.OutOrStdout()
			failed := 0
			for i := range results {
				if err := r.RenderDomain(out, &results[i]); err != nil {
					return err
				}
				if !results[i].OK() {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d domain lookups failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", lookup.DefaultConcurrency, "Maximum concurrent lookups")

	return cmd
}
