// Package async defines how blocking work is taken off the UI loop.
package async

import "context"

// Runner executes blocking work away from the UI loop and calls done with
// its result back on the loop. done is never called concurrently with any
// other loop code.
type Runner interface {
	Run(ctx context.Context, work func(ctx context.Context) error, done func(err error))
}

// Inline runs work and done immediately on the caller's goroutine.
type Inline struct{}

func (Inline) Run(ctx context.Context, work func(ctx context.Context) error, done func(err error)) {
	err := work(ctx)
	if done != nil {
		done(err)
	}
}

type job struct {
	ctx  context.Context
	work func(ctx context.Context) error
	done func(err error)
}

// Queue holds jobs until Flush is called. It lets callers observe the state
// between dispatch and completion.
type Queue struct {
	jobs []job
}

func (q *Queue) Run(ctx context.Context, work func(ctx context.Context) error, done func(err error)) {
	q.jobs = append(q.jobs, job{ctx: ctx, work: work, done: done})
}

// Pending returns the number of queued jobs.
func (q *Queue) Pending() int {
	return len(q.jobs)
}

// Flush runs queued jobs in order, including jobs queued by completions.
func (q *Queue) Flush() {
	for len(q.jobs) > 0 {
		j := q.jobs[0]
		q.jobs = q.jobs[1:]
		Inline{}.Run(j.ctx, j.work, j.done)
	}
}

// Step runs only the oldest queued job. It reports false when the queue is empty.
func (q *Queue) Step() bool {
	if len(q.jobs) == 0 {
		return false
	}
	j := q.jobs[0]
	q.jobs = q.jobs[1:]
	Inline{}.Run(j.ctx, j.work, j.done)
	return true
}
