package analyzer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"clearcrash/internal/diagnosis"
	"clearcrash/pkg/crash"
)

// DiagnoseAll diagnoses excs concurrently and returns the diagnoses in input
// order. It stops early only when ctx is cancelled.
func (e *Engine) DiagnoseAll(ctx context.Context, excs []crash.RawException) ([]diagnosis.Diagnosis, error) {
	out := make([]diagnosis.Diagnosis, len(excs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range excs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = e.Diagnose(excs[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzeAll is DiagnoseAll followed by Render.
func (e *Engine) AnalyzeAll(ctx context.Context, excs []crash.RawException) ([]string, error) {
	ds, err := e.DiagnoseAll(ctx, excs)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = e.Render(d)
	}
	return out, nil
}
