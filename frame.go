package skelwidget

import (
	"time"

	"github.com/phanxgames/skelwidget/render"
)

// maxFrameDelta is the longest step, in seconds, the animation is advanced
// by. Longer gaps (a stalled tab, a paused widget) advance by zero.
const maxFrameDelta = 0.1

// frameClock measures the time between rendered frames.
type frameClock struct {
	last time.Time
}

// advance returns the seconds since the previous call and records now.
func (c *frameClock) advance(now time.Time) float64 {
	delta := now.Sub(c.last).Seconds()
	if delta > maxFrameDelta || delta < 0 {
		delta = 0
	}
	c.last = now
	return delta
}

// renderFrame advances the animation and draws one frame onto the surface.
func (w *Widget) renderFrame(now time.Time) {
	var stats debugStats
	t0 := time.Now()

	delta := w.clock.advance(now)
	w.surface.Clear(w.config.Background)

	sk, state := w.pose.skeleton, w.pose.state
	state.Update(delta)
	state.Apply(sk)
	sk.UpdateWorldTransform()
	if w.debug {
		stats.poseTime = time.Since(t0)
	}

	t1 := time.Now()
	width, height := w.surface.Size()
	w.shader.Bind()
	w.shader.SetUniformi(render.SamplerUniform, 0)
	w.shader.SetUniform4x4f(render.MVPUniform, render.Ortho2D(0, 0, float32(width), float32(height)))
	w.batcher.Begin(w.shader)
	w.renderer.SetPremultipliedAlpha(w.config.PremultipliedAlpha)
	w.renderer.Draw(w.batcher, sk)
	w.batcher.End()
	w.shader.Unbind()

	w.frames++
	if w.debug {
		stats.drawTime = time.Since(t1)
		stats.delta = delta
		if s, ok := w.batcher.(interface{ Stats() render.BatchStats }); ok {
			stats.batch = s.Stats()
		}
		w.debugLog(stats)
	}
}
