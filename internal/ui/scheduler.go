package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// jobDoneMsg reports that a scheduled job or timer finished.
type jobDoneMsg struct {
	id  int
	err error
}

// Scheduler turns blocking work into Bubble Tea commands. Jobs are queued
// while Update runs and handed to the program by Flush; their completions
// come back as messages, so every callback runs inside Update.
type Scheduler struct {
	seq     int
	pending []tea.Cmd
	waiting map[int]func(error)
}

func NewScheduler() *Scheduler {
	return &Scheduler{waiting: make(map[int]func(error))}
}

// Run implements async.Runner.
func (s *Scheduler) Run(ctx context.Context, work func(ctx context.Context) error, done func(err error)) {
	id := s.register(done)
	s.pending = append(s.pending, func() tea.Msg {
		return jobDoneMsg{id: id, err: work(ctx)}
	})
}

// After calls fn on the loop once d has passed.
func (s *Scheduler) After(d time.Duration, fn func()) {
	id := s.register(func(error) { fn() })
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return jobDoneMsg{id: id}
	}))
}

// Flush returns the jobs queued since the last call as one command.
func (s *Scheduler) Flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// Waiting returns the number of jobs whose completion has not been handled.
func (s *Scheduler) Waiting() int {
	return len(s.waiting)
}

func (s *Scheduler) complete(msg jobDoneMsg) {
	done, ok := s.waiting[msg.id]
	if !ok {
		return
	}
	delete(s.waiting, msg.id)
	if done != nil {
		done(msg.err)
	}
}

func (s *Scheduler) register(done func(error)) int {
	s.seq++
	s.waiting[s.seq] = done
	return s.seq
}
