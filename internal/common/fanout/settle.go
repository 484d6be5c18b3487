// Package fanout provides the settle-all concurrency primitive used by every
// fan-out level of the aggregation pipeline: dispatch all tasks concurrently,
// wait for every one of them to finish, and partition the outcomes into
// successes and failures afterwards. One task's failure never cancels its
// siblings; degradation decisions belong to the caller.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of concurrent work producing a value of type T.
type Task[T any] func(ctx context.Context) (T, error)

// Result pairs a task's value with the error it settled with.
// Exactly one of Value/Err is meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

// Settle runs every task concurrently and returns one Result per task, in
// task declaration order. All tasks are started before any is awaited, and
// Settle returns only after every task has settled. Concurrency is unbounded:
// one goroutine per task, with connection-level backpressure left to the
// shared transport client.
func Settle[T any](ctx context.Context, tasks []Task[T]) []Result[T] {
	return SettleLimit(ctx, tasks, 0)
}

// SettleLimit is Settle with an optional concurrency bound.
// A limit <= 0 means one goroutine per task.
func SettleLimit[T any](ctx context.Context, tasks []Task[T], limit int) []Result[T] {
	results := make([]Result[T], len(tasks))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			value, err := task(ctx)
			results[i] = Result[T]{Value: value, Err: err}
			return nil
		})
	}

	// Task errors are captured per slot, never surfaced through the group,
	// so Wait acts purely as the join barrier.
	_ = g.Wait()

	return results
}

// Partition splits settled results into successful values and failures,
// preserving declaration order on both sides.
func Partition[T any](results []Result[T]) ([]T, []error) {
	values := make([]T, 0, len(results))
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		values = append(values, r.Value)
	}
	return values, errs
}

// Flatten merges slice-valued results into one list, preserving task
// declaration order across tasks and input order within each task.
func Flatten[T any](results []Result[[]T]) ([]T, []error) {
	lists, errs := Partition(results)
	var merged []T
	for _, list := range lists {
		merged = append(merged, list...)
	}
	return merged, errs
}
