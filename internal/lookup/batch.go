package lookup

import (
	"context"

	"golang.org/x/sync/errgroup"

	"sslmon/pkg/models"
)

// DefaultConcurrency bounds batch lookups when no limit is given.
const DefaultConcurrency = 4

// DomainInfoBatch looks up each domain independently, at most limit at a
// time, and returns results in input order. Invalid domains produce a failed
// result instead of aborting the batch.
func DomainInfoBatch(ctx context.Context, svc Service, domains []string, limit int) []models.DomainLookup {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]models.DomainLookup, len(domains))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, domain := range domains {
		i, domain := i, domain
		g.Go(func() error {
			result, err := svc.DomainInfo(gctx, domain)
			if err != nil {
				result = models.DomainLookup{Domain: domain, Failure: err.Error()}
			}
			results[i] = result
			return nil
		})
	}

	_ = g.Wait()
	return results
}
