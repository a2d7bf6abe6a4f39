package skelwidget

import (
	"fmt"
	"os"
	"time"

	"github.com/phanxgames/skelwidget/render"
)

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when the widget's debug flag is set.
type debugStats struct {
	delta    float64
	poseTime time.Duration
	drawTime time.Duration
	batch    render.BatchStats
}

// debugLog prints timing and draw-call stats to stderr.
func (w *Widget) debugLog(stats debugStats) {
	if !w.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[skelwidget] %s frame %d | delta: %.4fs | pose: %v | draw: %v | total: %v\n",
		w.name(), w.frames, stats.delta, stats.poseTime, stats.drawTime, stats.poseTime+stats.drawTime)
	_, _ = fmt.Fprintf(os.Stderr,
		"[skelwidget] %s draw calls: %d | vertices: %d | triangles: %d\n",
		w.name(), stats.batch.DrawCalls, stats.batch.Vertices, stats.batch.Triangles)
}

// debugCheckDisposed panics with a descriptive message when a disposed widget
// is used. Only called in debug mode; in release mode the call is a no-op.
func (w *Widget) debugCheckDisposed(op string) {
	if w.debug && w.disposed {
		panic(fmt.Sprintf("skelwidget debug: %s on disposed widget %q", op, w.name()))
	}
}

func (w *Widget) name() string {
	if w.container != nil && w.container.ID != "" {
		return w.container.ID
	}
	return w.config.JSON
}
