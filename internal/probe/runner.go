// Package probe checks a running Emopulse API against the route catalog.
package probe

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/emopulse/emopulse-api/internal/domain/analysis"
	"github.com/emopulse/emopulse-api/pkg/logger"
)

// Run executes every check with at most cfg.Workers in flight, renders the
// report to w and returns ErrChecksFailed if any check failed.
func Run(ctx context.Context, cfg Config, w io.Writer) ([]Result, error) {
	reg, err := analysis.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}
	return RunChecks(ctx, cfg, Checks(reg.Routes()), w)
}

// RunChecks executes checks and renders the report.
func RunChecks(ctx context.Context, cfg Config, checks []Check, w io.Writer) ([]Result, error) {
	log := logger.Get().Named("probe")
	log.Info(ctx, "starting probe",
		logger.String("url", cfg.BaseURL),
		logger.Int("checks", len(checks)),
		logger.Int("workers", cfg.Workers),
	)

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	results := make([]Result, len(checks))

	// Checks report failures in their Result; the group only bounds concurrency.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, chk := range checks {
		g.Go(func() error {
			start := time.Now()
			err := chk.Run(gctx, client)
			results[i] = Result{Name: chk.Name, Passed: err == nil, Duration: time.Since(start)}
			if err != nil {
				results[i].Detail = err.Error()
				log.Debug(gctx, "check failed", logger.String("check", chk.Name), logger.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	Render(w, results, cfg.Verbose, !cfg.NoColor)

	failed := lo.CountBy(results, func(r Result) bool { return !r.Passed })
	log.Info(ctx, "probe finished", logger.Int("passed", len(results)-failed), logger.Int("failed", failed))
	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d", ErrChecksFailed, failed, len(results))
	}
	return results, nil
}
