package safety

import (
	"context"
	"log/slog"
	"time"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

type assessor interface {
	Assess(ctx context.Context, description, preparedTime string) (domain.SafetyAssessment, error)
}

// Guarded wraps an assessor so that scoring never fails: any error, timeout
// or missing client yields the default score with Degraded set.
type Guarded struct {
	next         assessor
	timeout      time.Duration
	defaultScore int
	log          *slog.Logger
}

// NewGuarded wraps next. A nil next means the oracle is not configured.
func NewGuarded(next assessor, timeout time.Duration, defaultScore int, logger *slog.Logger) *Guarded {
	return &Guarded{
		next:         next,
		timeout:      timeout,
		defaultScore: defaultScore,
		log:          logger.With("adapter", "safety"),
	}
}

// Assess returns the oracle verdict or the default.
func (g *Guarded) Assess(ctx context.Context, description, preparedTime string) domain.SafetyAssessment {
	if g.next == nil {
		return g.fallback(ctx, "not configured", nil)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	a, err := g.next.Assess(ctx, description, preparedTime)
	if err != nil {
		return g.fallback(ctx, "call failed", err)
	}
	return a
}

func (g *Guarded) fallback(ctx context.Context, reason string, err error) domain.SafetyAssessment {
	attrs := []any{
		slog.String("reason", reason),
		slog.Int("default_score", g.defaultScore),
		slog.String("error", domain.ErrOracleUnavailable.Error()),
	}
	if err != nil {
		attrs = append(attrs, slog.String("cause", err.Error()))
	}
	g.log.WarnContext(ctx, "safety oracle degraded to default score", attrs...)

	return domain.SafetyAssessment{
		Score:                g.defaultScore,
		Reasoning:            "Safety analysis unavailable.",
		HandlingInstructions: "Manual verification required.",
		Degraded:             true,
	}
}
