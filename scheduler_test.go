package skelwidget

import (
	"errors"
	"testing"
)

func TestTickScheduler_RunsQueuedCallbacks(t *testing.T) {
	s := NewTickScheduler()
	var got []int
	s.RequestFrame(func() error { got = append(got, 1); return nil })
	s.RequestFrame(func() error { got = append(got, 2); return nil })
	if s.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", s.Pending())
	}
	if err := s.Tick(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("ran %v, want [1 2]", got)
	}
	if s.Pending() != 0 || s.Ticks() != 1 {
		t.Errorf("Pending/Ticks = %d/%d, want 0/1", s.Pending(), s.Ticks())
	}
}

func TestTickScheduler_RequeueRunsNextTick(t *testing.T) {
	s := NewTickScheduler()
	runs := 0
	var loop func() error
	loop = func() error {
		runs++
		s.RequestFrame(loop)
		return nil
	}
	s.RequestFrame(loop)
	for i := 0; i < 3; i++ {
		if err := s.Tick(); err != nil {
			t.Fatal(err)
		}
		if runs != i+1 {
			t.Fatalf("after tick %d: runs = %d, want %d", i+1, runs, i+1)
		}
	}
	if s.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", s.Pending())
	}
}

func TestTickScheduler_JoinsErrors(t *testing.T) {
	s := NewTickScheduler()
	errA := errors.New("a")
	errB := errors.New("b")
	ranAfter := false
	s.RequestFrame(func() error { return errA })
	s.RequestFrame(func() error { ranAfter = true; return errB })
	err := s.Tick()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("err = %v, want both", err)
	}
	if !ranAfter {
		t.Error("an error should not stop later callbacks")
	}
}

func TestTickScheduler_EmptyTick(t *testing.T) {
	if err := NewTickScheduler().Tick(); err != nil {
		t.Errorf("empty Tick = %v", err)
	}
}
