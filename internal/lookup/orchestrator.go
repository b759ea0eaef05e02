package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sslmon/internal/logger"
	"sslmon/pkg/models"
)

// Resolver produces a domain record from one protocol.
type Resolver interface {
	Lookup(ctx context.Context, domain string) (*models.DomainRecord, error)
}

// Strategy is one step of the fallback chain. A failure of a Hard strategy
// ends the chain; any other failure moves on to the next step.
type Strategy struct {
	Source   string
	Resolver Resolver
	Hard     bool
}

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeSoftFailure
	outcomeHardFailure
)

type stepOutcome struct {
	kind   outcomeKind
	record *models.DomainRecord
	err    error
}

func runStep(ctx context.Context, step Strategy, domain string) stepOutcome {
	record, err := step.Resolver.Lookup(ctx, domain)
	switch {
	case err == nil && record != nil:
		return stepOutcome{kind: outcomeSuccess, record: record}
	case err == nil:
		err = fmt.Errorf("%s returned no record", step.Source)
	}
	if step.Hard {
		return stepOutcome{kind: outcomeHardFailure, err: err}
	}
	return stepOutcome{kind: outcomeSoftFailure, err: err}
}

// Orchestrator walks an ordered strategy list until one succeeds.
type Orchestrator struct {
	strategies []Strategy
}

func NewOrchestrator(strategies ...Strategy) *Orchestrator {
	return &Orchestrator{strategies: strategies}
}

// Resolve never returns a Go error: the result carries either a record with
// its source or the failure text.
func (o *Orchestrator) Resolve(ctx context.Context, domain string) models.DomainLookup {
	log := logger.GetFromContext(ctx, logger.Get())
	result := models.DomainLookup{Domain: domain}

	var lastErr error
	for _, step := range o.strategies {
		start := time.Now()
		outcome := runStep(ctx, step, domain)
		duration := time.Since(start)

		if outcome.kind == outcomeSuccess {
			log.Debug("domain lookup succeeded",
				slog.String("domain", domain),
				slog.String("source", step.Source),
				slog.Duration("duration", duration))
			result.Record = outcome.record
			result.Source = step.Source
			return result
		}

		lastErr = outcome.err
		if outcome.kind == outcomeHardFailure {
			break
		}

		log.Info("lookup strategy failed, falling back",
			slog.String("domain", domain),
			slog.String("source", step.Source),
			slog.String("error", outcome.err.Error()),
			slog.Duration("duration", duration))
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no lookup strategy configured")
	}

	log.Warn("domain lookup failed",
		slog.String("domain", domain),
		slog.String("error", lastErr.Error()))
	result.Failure = fmt.Sprintf("Domain info lookup failed for %s: %s", domain, lastErr.Error())
	return result
}
