package transpiler

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// BatchOptions controls RunBatch.
type BatchOptions struct {
	// Workers is the number of units transpiled at once; zero means one per CPU.
	Workers int

	// ContinueOnError keeps transpiling after a unit fails. The failures are
	// joined into the returned error.
	ContinueOnError bool

	// Progress is called after each unit, from the worker that finished it.
	Progress func(done, total int, result *Result, err error)
}

type indexedUnit struct {
	unit  Unit
	index int
}

// RunBatch transpiles units concurrently. Results are indexed like units;
// entries for units never started are nil. The diagnostics collector is
// reset first, so it holds exactly this run's diagnostics afterwards.
func (t *Transpiler) RunBatch(ctx context.Context, units []Unit, opts BatchOptions) ([]*Result, error) {
	t.diagnostics.Reset()

	ctx, span := t.tracer.Start(ctx, "gryphon.batch", trace.WithAttributes(
		attribute.Int("batch.units", len(units)),
	))
	defer span.End()

	results := make([]*Result, len(units))
	if len(units) == 0 {
		return results, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if workers > len(units) {
		workers = len(units)
	}

	span.SetAttributes(attribute.Int("batch.workers", workers))

	unitCh := make(chan indexedUnit, workers)
	errs := make([]error, len(units))

	var (
		stop      atomic.Bool
		completed atomic.Int64
		wg        sync.WaitGroup
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for item := range unitCh {
				if stop.Load() {
					continue
				}

				result, err := t.TranspileUnit(ctx, item.unit)
				results[item.index] = result
				errs[item.index] = err

				if err != nil && !opts.ContinueOnError {
					stop.Store(true)
				}

				done := completed.Add(1)
				if opts.Progress != nil {
					opts.Progress(int(done), len(units), result, err)
				}
			}
		}()
	}

	for idx, unit := range units {
		if stop.Load() {
			break
		}

		unitCh <- indexedUnit{index: idx, unit: unit}
	}

	close(unitCh)
	wg.Wait()

	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
	}

	return results, err
}
