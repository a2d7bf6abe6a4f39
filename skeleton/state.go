package skeleton

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownAnimation is returned for an animation name the data lacks.
var ErrUnknownAnimation = errors.New("skeleton: unknown animation")

// Listener receives track lifecycle callbacks. Nil fields are skipped.
type Listener struct {
	Start    func(e *TrackEntry)
	End      func(e *TrackEntry)
	Complete func(e *TrackEntry, loops int)
}

// TrackEntry is one animation playing, or queued, on a track.
type TrackEntry struct {
	TrackIndex int
	Animation  *Animation
	Loop       bool
	Delay      float64 // queued entries start once the previous entry's TrackTime reaches this
	TimeScale  float64
	TrackTime  float64 // seconds since the entry started

	Listener Listener

	next        *TrackEntry
	lastApplied float64
	completed   bool
}

// AnimationTime is TrackTime mapped into the animation: wrapped when
// looping, held at the end otherwise.
func (e *TrackEntry) AnimationTime() float64 {
	d := e.Animation.Duration
	if e.Loop {
		if d == 0 {
			return 0
		}
		return math.Mod(e.TrackTime, d)
	}
	return math.Min(e.TrackTime, d)
}

// IsComplete reports whether a non-looping entry has reached its end.
func (e *TrackEntry) IsComplete() bool {
	return !e.Loop && e.TrackTime >= e.Animation.Duration
}

// Next returns the entry queued after e, or nil.
func (e *TrackEntry) Next() *TrackEntry { return e.next }

// AnimationState advances and applies tracks of animations.
type AnimationState struct {
	Data      *SkeletonData
	Tracks    []*TrackEntry
	TimeScale float64
	Listener  Listener
}

// NewAnimationState creates a state with no tracks.
func NewAnimationState(data *SkeletonData) *AnimationState {
	return &AnimationState{Data: data, TimeScale: 1}
}

// Current returns the entry playing on track, or nil.
func (s *AnimationState) Current(track int) *TrackEntry {
	if track < 0 || track >= len(s.Tracks) {
		return nil
	}
	return s.Tracks[track]
}

// SetAnimation replaces whatever plays on track, dropping queued entries.
func (s *AnimationState) SetAnimation(track int, name string, loop bool) (*TrackEntry, error) {
	anim := s.Data.FindAnimation(name)
	if anim == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnimation, name)
	}
	return s.SetAnimationData(track, anim, loop), nil
}

// SetAnimationData is SetAnimation with a resolved animation.
func (s *AnimationState) SetAnimationData(track int, anim *Animation, loop bool) *TrackEntry {
	e := &TrackEntry{TrackIndex: track, Animation: anim, Loop: loop, TimeScale: 1, lastApplied: -1}
	s.expand(track)
	if old := s.Tracks[track]; old != nil {
		s.fireEnd(old)
	}
	s.Tracks[track] = e
	s.fireStart(e)
	return e
}

// AddAnimation queues name after the last entry on track. A delay <= 0 is
// relative to the end of the previous entry's animation. With an empty
// track the animation starts immediately.
func (s *AnimationState) AddAnimation(track int, name string, loop bool, delay float64) (*TrackEntry, error) {
	anim := s.Data.FindAnimation(name)
	if anim == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnimation, name)
	}
	s.expand(track)
	last := s.Tracks[track]
	if last == nil {
		e := s.SetAnimationData(track, anim, loop)
		e.Delay = math.Max(delay, 0)
		return e, nil
	}
	for last.next != nil {
		last = last.next
	}
	if delay <= 0 {
		delay += last.Animation.Duration
		if delay < 0 {
			delay = 0
		}
	}
	e := &TrackEntry{TrackIndex: track, Animation: anim, Loop: loop, TimeScale: 1, Delay: delay, lastApplied: -1}
	last.next = e
	return e, nil
}

// ClearTrack stops track, dropping queued entries.
func (s *AnimationState) ClearTrack(track int) {
	if track < 0 || track >= len(s.Tracks) || s.Tracks[track] == nil {
		return
	}
	s.fireEnd(s.Tracks[track])
	s.Tracks[track] = nil
}

// ClearTracks stops every track.
func (s *AnimationState) ClearTracks() {
	for i := range s.Tracks {
		s.ClearTrack(i)
	}
}

// Update advances every track by delta seconds, firing completions and
// starting queued entries whose delay has elapsed.
func (s *AnimationState) Update(delta float64) {
	delta *= s.TimeScale
	for i, e := range s.Tracks {
		if e == nil {
			continue
		}
		prev := e.TrackTime
		e.TrackTime += delta * e.TimeScale
		s.checkComplete(e, prev)

		if next := e.next; next != nil && e.TrackTime >= next.Delay {
			next.TrackTime = e.TrackTime - next.Delay
			s.fireEnd(e)
			s.Tracks[i] = next
			s.fireStart(next)
			s.checkComplete(next, 0)
		}
	}
}

func (s *AnimationState) checkComplete(e *TrackEntry, prev float64) {
	d := e.Animation.Duration
	if d <= 0 {
		return
	}
	if e.Loop {
		loops := int(e.TrackTime / d)
		if loops > int(prev/d) {
			s.fireComplete(e, loops)
		}
		return
	}
	if !e.completed && e.TrackTime >= d {
		e.completed = true
		s.fireComplete(e, 1)
	}
}

// Apply poses sk from every track, lowest track first.
func (s *AnimationState) Apply(sk *Skeleton) {
	for _, e := range s.Tracks {
		if e == nil {
			continue
		}
		t := e.AnimationTime()
		e.Animation.Apply(sk, e.lastApplied, t, false, 1)
		e.lastApplied = t
	}
}

func (s *AnimationState) expand(track int) {
	for len(s.Tracks) <= track {
		s.Tracks = append(s.Tracks, nil)
	}
}

func (s *AnimationState) fireStart(e *TrackEntry) {
	if e.Listener.Start != nil {
		e.Listener.Start(e)
	}
	if s.Listener.Start != nil {
		s.Listener.Start(e)
	}
}

func (s *AnimationState) fireEnd(e *TrackEntry) {
	if e.Listener.End != nil {
		e.Listener.End(e)
	}
	if s.Listener.End != nil {
		s.Listener.End(e)
	}
}

func (s *AnimationState) fireComplete(e *TrackEntry, loops int) {
	if e.Listener.Complete != nil {
		e.Listener.Complete(e, loops)
	}
	if s.Listener.Complete != nil {
		s.Listener.Complete(e, loops)
	}
}
