package skelwidget

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Container is a named region of the host window that shows at most one
// widget.
type Container struct {
	ID     string
	Bounds Rect

	host   *Host
	widget *Widget
}

// Widget returns the container's widget, or nil.
func (c *Container) Widget() *Widget {
	return c.widget
}

// Host is an ebiten.Game that owns the tick scheduler and lays widgets out
// in named containers.
//
//	host := skelwidget.NewHost(800, 600, skelwidget.Options{})
//	c := host.AddContainer("hero", skelwidget.Rect{Width: 640, Height: 480})
//	if _, err := host.NewWidget(c, raw); err != nil { ... }
//	ebiten.RunGame(host)
type Host struct {
	// ShowFPS draws an FPS/TPS readout in the top-left corner.
	ShowFPS bool
	// ScreenshotDir is where Screenshot writes PNGs. Defaults to "screenshots".
	ScreenshotDir string

	opts       Options
	sched      *TickScheduler
	width      int
	height     int
	containers []*Container
	byID       map[string]*Container

	fps             *fpsOverlay
	runner          *TestRunner
	screenshotQueue []string
}

// NewHost creates a host with a fixed logical screen size.
func NewHost(width, height int, opts Options) *Host {
	return &Host{
		ScreenshotDir: "screenshots",
		opts:          opts.withDefaults(),
		sched:         NewTickScheduler(),
		width:         width,
		height:        height,
		byID:          make(map[string]*Container),
	}
}

// Scheduler returns the host's tick scheduler.
func (h *Host) Scheduler() *TickScheduler {
	return h.sched
}

// AddContainer registers a container. Adding an existing id moves it.
func (h *Host) AddContainer(id string, bounds Rect) *Container {
	if c, ok := h.byID[id]; ok {
		c.Bounds = bounds
		return c
	}
	c := &Container{ID: id, Bounds: bounds, host: h}
	h.containers = append(h.containers, c)
	h.byID[id] = c
	return c
}

// Container returns the container with the given id, or nil.
func (h *Host) Container(id string) *Container {
	return h.byID[id]
}

// Containers returns the containers in the order they were added. The
// returned slice MUST NOT be mutated.
func (h *Host) Containers() []*Container {
	return h.containers
}

// ContainerAt returns the topmost container whose bounds contain (x, y).
func (h *Host) ContainerAt(x, y float64) *Container {
	for i := len(h.containers) - 1; i >= 0; i-- {
		if h.containers[i].Bounds.Contains(x, y) {
			return h.containers[i]
		}
	}
	return nil
}

// Widgets returns every live widget in container order.
func (h *Host) Widgets() []*Widget {
	var out []*Widget
	for _, c := range h.containers {
		if c.widget != nil {
			out = append(out, c.widget)
		}
	}
	return out
}

// NewWidget resolves raw, creates the widget's surface in c and starts
// loading. A widget already in c is disposed first. Configuration errors
// are returned synchronously; load errors arrive through OnError or Update.
func (h *Host) NewWidget(c *Container, raw RawConfig) (*Widget, error) {
	if c == nil || c.host != h {
		return nil, ErrNoContainer
	}
	cfg, err := Resolve(raw)
	if err != nil {
		return nil, err
	}
	if c.widget != nil {
		c.widget.Dispose()
	}
	w, err := newWidget(c, cfg, h.opts, h.sched)
	if err != nil {
		return nil, err
	}
	c.widget = w
	return w, nil
}

// NewWidgetByID is NewWidget with a container looked up by id.
func (h *Host) NewWidgetByID(id string, raw RawConfig) (*Widget, error) {
	c := h.byID[id]
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoContainer, id)
	}
	return h.NewWidget(c, raw)
}

// Update implements ebiten.Game. It advances an attached test runner, then
// runs one scheduler tick. An error from a widget without an OnError
// callback stops the game.
func (h *Host) Update() error {
	if h.runner != nil {
		h.runner.step(h)
	}
	if h.fps != nil {
		h.fps.update()
	}
	return h.sched.Tick()
}

// Draw implements ebiten.Game. Each widget surface is stretched over its
// container's bounds.
func (h *Host) Draw(screen *ebiten.Image) {
	for _, c := range h.containers {
		w := c.widget
		if w == nil {
			continue
		}
		s, ok := w.surface.(interface{ Image() *ebiten.Image })
		if !ok || s.Image() == nil {
			continue
		}
		img := s.Image()
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		if c.Bounds.Width > 0 && c.Bounds.Height > 0 {
			op.GeoM.Scale(c.Bounds.Width/float64(b.Dx()), c.Bounds.Height/float64(b.Dy()))
		}
		op.GeoM.Translate(c.Bounds.X, c.Bounds.Y)
		screen.DrawImage(img, op)
	}
	if h.ShowFPS {
		if h.fps == nil {
			h.fps = newFPSOverlay()
		}
		h.fps.draw(screen)
	}
	h.flushScreenshots(screen)
}

// Layout implements ebiten.Game.
func (h *Host) Layout(_, _ int) (int, int) {
	return h.width, h.height
}

// Dispose disposes every widget.
func (h *Host) Dispose() {
	for _, w := range h.Widgets() {
		w.Dispose()
	}
	if h.fps != nil {
		h.fps.dispose()
		h.fps = nil
	}
}
