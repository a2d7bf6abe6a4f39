package skelwidget

import "errors"

// Scheduler queues work for the next tick of the host loop.
type Scheduler interface {
	RequestFrame(fn func() error)
}

// TickScheduler is a Scheduler driven by explicit Tick calls, normally one
// per ebiten.Game.Update.
type TickScheduler struct {
	queue []func() error
	spare []func() error
	ticks int
}

// NewTickScheduler creates an empty scheduler.
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// RequestFrame implements Scheduler.
func (s *TickScheduler) RequestFrame(fn func() error) {
	s.queue = append(s.queue, fn)
}

// Pending returns the number of callbacks waiting for the next tick.
func (s *TickScheduler) Pending() int {
	return len(s.queue)
}

// Ticks returns how many times Tick has run.
func (s *TickScheduler) Ticks() int {
	return s.ticks
}

// Tick runs every callback queued before the call. Callbacks queued while
// the tick runs wait for the next one. Errors from all callbacks are joined.
func (s *TickScheduler) Tick() error {
	s.ticks++
	run := s.queue
	s.queue = s.spare[:0]
	var errs []error
	for i, fn := range run {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
		run[i] = nil
	}
	s.spare = run[:0]
	return errors.Join(errs...)
}
