package sim

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
)

// Ensemble runs several scenarios concurrently against one table set.
type Ensemble struct {
	tables *lookup.Tables
	logger *slog.Logger
	limit  int
}

func NewEnsemble(tables *lookup.Tables, logger *slog.Logger) *Ensemble {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ensemble{tables: tables, logger: logger, limit: runtime.NumCPU()}
}

// Run returns one output per scenario, in input order, or the first error.
// A run already in progress is not interrupted when ctx is canceled; runs
// not yet started are skipped.
func (e *Ensemble) Run(ctx context.Context, scenarios []*config.Scenario) ([]*Output, error) {
	results := make([]*Output, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i, p := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			out, err := Run(e.tables, p.Clone())
			if err != nil {
				return err
			}
			e.logger.Debug("scenario solved",
				"scenario", p.Meta.ID,
				"samples", len(out.States),
				"elapsed", time.Since(start))
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
