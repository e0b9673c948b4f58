// Package pool provides the bounded worker pool shared by the ingestion
// scheduler and the adapters' nested description fan-outs.
package pool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mverdev/jobsift/internal/observability"
)

// DefaultWidth matches the per-platform fan-out used against ATS hosts.
const DefaultWidth = 8

// Pool runs tasks with a fixed parallelism ceiling and isolates per-task
// failures: an error or panic in one task never cancels the rest of the
// batch.
type Pool struct {
	width int
}

func New(width int) *Pool {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Pool{width: width}
}

func (p *Pool) Width() int {
	return p.width
}

// Batch is the aggregate outcome of one scheduled run. Results are in
// completion order, not input order.
type Batch[T any] struct {
	Results   []T
	Attempted int
	Succeeded int
}

// Map runs task over every key with bounded parallelism and collects the
// flattened results. Task errors are logged and swallowed; Succeeded counts
// the tasks that returned nil.
func Map[K, T any](ctx context.Context, p *Pool, scope string, keys []K, task func(context.Context, K) ([]T, error)) Batch[T] {
	batch := Batch[T]{Attempted: len(keys)}
	if len(keys) == 0 {
		return batch
	}

	var g errgroup.Group
	g.SetLimit(p.width)

	var mu sync.Mutex
	for _, key := range keys {
		key := key
		g.Go(func() error {
			out, err := runIsolated(ctx, key, task)
			if err != nil {
				kind := observability.ClassifyScrapeError(err)
				observability.IncError(kind, scope)
				slog.Warn("pool task failed", "scope", scope, "key", fmt.Sprint(key), "kind", kind, "error", err)
				return nil
			}
			mu.Lock()
			batch.Results = append(batch.Results, out...)
			batch.Succeeded++
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait() // tasks never surface errors
	return batch
}

// runIsolated converts a panic inside a task into an error so one bad
// parse cannot take down the whole run.
func runIsolated[K, T any](ctx context.Context, key K, task func(context.Context, K) ([]T, error)) (out []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("task panic: %v", r)
		}
	}()
	return task(ctx, key)
}
