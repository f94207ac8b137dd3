package pipeline

import (
	"context"
	"time"

	"github.com/nao1215/typescore/internal/model"
	"golang.org/x/sync/errgroup"
)

// Aggregate scores every record and returns the flattened report rows.
//
// Rows appear in input-record order, with a package's rows in module
// resolution order. Workers write into a slice indexed by input position,
// so completion order never leaks into the output.
//
// The only error Aggregate returns is context cancellation; per-package
// failures have already been folded into zero-score rows by then. On
// cancellation the rows collected so far are returned alongside the
// error so an explicitly aborted run can still surface partial results.
func (a *Aggregator) Aggregate(ctx context.Context, records []model.PackageRecord) ([]model.ReportRow, error) {
	jobs := a.jobs
	if a.installer != nil && jobs > 1 {
		a.logger.Info("install mode forces sequential scoring", "requestedJobs", jobs)
		jobs = 1
	}

	a.logger.Info("starting batch scoring",
		"packages", len(records),
		"jobs", jobs,
	)
	startTime := time.Now()

	results := make([][]model.ReportRow, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			// Don't start new packages once the batch is cancelled.
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			results[i] = a.scorePackage(gctx, rec)
			return nil
		})
	}

	err := g.Wait()

	rows := make([]model.ReportRow, 0, len(records))
	for _, packageRows := range results {
		rows = append(rows, packageRows...)
	}

	a.logger.Info("batch scoring complete",
		"packages", len(records),
		"rows", len(rows),
		"elapsed", time.Since(startTime),
	)
	return rows, err
}
