package skeleton

import (
	"math"
	"sort"
)

// Timeline poses part of a skeleton for a point in animation time.
type Timeline interface {
	// Apply poses sk at time, blending from the current pose by alpha.
	// lastTime is the time of the previous application, used by timelines
	// that fire on keyframe crossings.
	Apply(sk *Skeleton, lastTime, time, alpha float64)
	// Duration is the time of the last keyframe.
	Duration() float64
}

// keyframes holds the times and per-segment curves shared by every timeline.
type keyframes struct {
	Times  []float64
	Curves []Curve // Curves[i] eases from frame i to frame i+1
}

func (k *keyframes) Duration() float64 {
	if len(k.Times) == 0 {
		return 0
	}
	return k.Times[len(k.Times)-1]
}

// segment locates time within the keyframes. Returns the index of the next
// frame (1..len-1) and eased progress from the previous one. ok is false
// when time is before the first frame; last is true at or after the final
// frame.
func (k *keyframes) segment(time float64) (frame int, percent float64, ok, last bool) {
	n := len(k.Times)
	if n == 0 || time < k.Times[0] {
		return 0, 0, false, false
	}
	if time >= k.Times[n-1] {
		return n - 1, 1, true, true
	}
	frame = sort.Search(n, func(i int) bool { return k.Times[i] > time })
	t0, t1 := k.Times[frame-1], k.Times[frame]
	p := (time - t0) / (t1 - t0)
	return frame, k.Curves[frame-1].Percent(p), true, false
}

func wrapDegrees(a float64) float64 {
	return a - 360*math.Round(a/360)
}

// RotateTimeline keys a bone's rotation, relative to its setup rotation.
type RotateTimeline struct {
	keyframes
	BoneIndex int
	Angles    []float64
}

// Apply implements Timeline.
func (t *RotateTimeline) Apply(sk *Skeleton, lastTime, time, alpha float64) {
	frame, percent, ok, last := t.segment(time)
	if !ok {
		return
	}
	bone := sk.Bones[t.BoneIndex]
	var angle float64
	if last {
		angle = t.Angles[frame]
	} else {
		prev := t.Angles[frame-1]
		angle = prev + wrapDegrees(t.Angles[frame]-prev)*percent
	}
	amount := wrapDegrees(bone.Data.Rotation + angle - bone.Rotation)
	bone.Rotation += amount * alpha
}

// TranslateTimeline keys a bone's position, relative to its setup position.
type TranslateTimeline struct {
	keyframes
	BoneIndex int
	Values    [][2]float64
}

func (t *TranslateTimeline) value(frame int, percent float64, last bool) (float64, float64) {
	if last {
		return t.Values[frame][0], t.Values[frame][1]
	}
	p, n := t.Values[frame-1], t.Values[frame]
	return p[0] + (n[0]-p[0])*percent, p[1] + (n[1]-p[1])*percent
}

// Apply implements Timeline.
func (t *TranslateTimeline) Apply(sk *Skeleton, lastTime, time, alpha float64) {
	frame, percent, ok, last := t.segment(time)
	if !ok {
		return
	}
	bone := sk.Bones[t.BoneIndex]
	x, y := t.value(frame, percent, last)
	bone.X += (bone.Data.X + x - bone.X) * alpha
	bone.Y += (bone.Data.Y + y - bone.Y) * alpha
}

// ScaleTimeline keys a bone's scale as a multiple of its setup scale.
type ScaleTimeline struct {
	TranslateTimeline
}

// Apply implements Timeline.
func (t *ScaleTimeline) Apply(sk *Skeleton, lastTime, time, alpha float64) {
	frame, percent, ok, last := t.segment(time)
	if !ok {
		return
	}
	bone := sk.Bones[t.BoneIndex]
	x, y := t.value(frame, percent, last)
	bone.ScaleX += (bone.Data.ScaleX*x - bone.ScaleX) * alpha
	bone.ScaleY += (bone.Data.ScaleY*y - bone.ScaleY) * alpha
}

// ShearTimeline keys a bone's shear, relative to its setup shear.
type ShearTimeline struct {
	TranslateTimeline
}

// Apply implements Timeline.
func (t *ShearTimeline) Apply(sk *Skeleton, lastTime, time, alpha float64) {
	frame, percent, ok, last := t.segment(time)
	if !ok {
		return
	}
	bone := sk.Bones[t.BoneIndex]
	x, y := t.value(frame, percent, last)
	bone.ShearX += (bone.Data.ShearX + x - bone.ShearX) * alpha
	bone.ShearY += (bone.Data.ShearY + y - bone.ShearY) * alpha
}

// ColorTimeline keys a slot's tint.
type ColorTimeline struct {
	keyframes
	SlotIndex int
	Colors    []Color
}

// Apply implements Timeline.
func (t *ColorTimeline) Apply(sk *Skeleton, lastTime, time, alpha float64) {
	frame, percent, ok, last := t.segment(time)
	if !ok {
		return
	}
	var c Color
	if last {
		c = t.Colors[frame]
	} else {
		p, n := t.Colors[frame-1], t.Colors[frame]
		c = Color{
			p.R + (n.R-p.R)*percent,
			p.G + (n.G-p.G)*percent,
			p.B + (n.B-p.B)*percent,
			p.A + (n.A-p.A)*percent,
		}
	}
	slot := sk.Slots[t.SlotIndex]
	if alpha >= 1 {
		slot.Color = c
		return
	}
	s := slot.Color
	slot.Color = Color{
		s.R + (c.R-s.R)*alpha,
		s.G + (c.G-s.G)*alpha,
		s.B + (c.B-s.B)*alpha,
		s.A + (c.A-s.A)*alpha,
	}
}

// AttachmentTimeline keys which attachment a slot shows. It is stepped:
// each key holds until the next.
type AttachmentTimeline struct {
	SlotIndex int
	Times     []float64
	Names     []string // empty hides the slot
}

// Duration implements Timeline.
func (t *AttachmentTimeline) Duration() float64 {
	if len(t.Times) == 0 {
		return 0
	}
	return t.Times[len(t.Times)-1]
}

// Apply implements Timeline.
func (t *AttachmentTimeline) Apply(sk *Skeleton, lastTime, time, alpha float64) {
	if len(t.Times) == 0 || time < t.Times[0] {
		return
	}
	frame := sort.Search(len(t.Times), func(i int) bool { return t.Times[i] > time }) - 1
	slot := sk.Slots[t.SlotIndex]
	name := t.Names[frame]
	if name == "" {
		slot.SetAttachment(nil)
		return
	}
	slot.SetAttachment(sk.GetAttachment(t.SlotIndex, name))
}
