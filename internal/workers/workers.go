package workers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-dbx-delta/internal/logger"
)

// Workers runs a fixed set of workers concurrently.
type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

// New returns an aggregate of ws.
func New(log *logger.Logger, ws ...Worker) *Workers {
	return &Workers{workers: ws, logger: log}
}

// Len reports the number of workers.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker and blocks until all of them have returned. The
// first worker error cancels the context of the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for i, worker := range w.workers {
		name := nameOf(i, worker)
		g.Go(func() error {
			w.log().Debug().Str("worker", name).Msg("worker started")
			if err := worker.Run(gctx); err != nil {
				w.log().Err(err).Str("worker", name).Msg("worker failed")
				return fmt.Errorf("worker %s: %w", name, err)
			}
			w.log().Debug().Str("worker", name).Msg("worker stopped")
			return nil
		})
	}

	return g.Wait()
}

func (w *Workers) log() *logger.Logger {
	if w.logger == nil {
		return logger.Nop()
	}
	return w.logger
}

func nameOf(i int, worker Worker) string {
	if n, ok := worker.(named); ok {
		return n.Name()
	}
	return fmt.Sprintf("#%d", i)
}
