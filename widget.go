package skelwidget

import (
	"fmt"
	"time"

	"github.com/phanxgames/skelwidget/assets"
	"github.com/phanxgames/skelwidget/render"
	"github.com/phanxgames/skelwidget/skeleton"
)

// Backend creates the graphics objects a widget draws with.
type Backend interface {
	NewSurface(width, height int) render.Surface
	NewShader() (render.Shader, error)
	NewBatcher(target render.Surface) (render.Batcher, error)
	NewSkeletonRenderer() render.SkeletonDrawer
}

// EbitenBackend draws into offscreen ebiten images with the Kage shader.
type EbitenBackend struct {
	MaxVertices int // per batch; 0 means render.DefaultMaxVertices
}

// NewSurface implements Backend.
func (EbitenBackend) NewSurface(width, height int) render.Surface {
	return render.NewImageSurface(width, height)
}

// NewShader implements Backend.
func (EbitenBackend) NewShader() (render.Shader, error) {
	return render.NewColoredTexturedShader()
}

// NewBatcher implements Backend.
func (b EbitenBackend) NewBatcher(target render.Surface) (render.Batcher, error) {
	s, ok := target.(*render.ImageSurface)
	if !ok {
		return nil, fmt.Errorf("skelwidget: EbitenBackend cannot draw to %T", target)
	}
	return render.NewPolygonBatcher(s.Image(), b.MaxVertices), nil
}

// NewSkeletonRenderer implements Backend.
func (EbitenBackend) NewSkeletonRenderer() render.SkeletonDrawer {
	return render.NewSkeletonRenderer()
}

// Options configure how a Host builds its widgets.
type Options struct {
	// Backend defaults to EbitenBackend.
	Backend Backend
	// Source is where asset paths are read from. Defaults to the working
	// directory.
	Source assets.Source
	// NewAssets overrides Source with a custom asset manager per widget.
	NewAssets func() AssetManager
	// Now defaults to time.Now.
	Now func() time.Time
	// Debug logs per-frame stats to stderr and panics on use of disposed
	// widgets.
	Debug bool
}

func (o Options) withDefaults() Options {
	if o.Backend == nil {
		o.Backend = EbitenBackend{}
	}
	if o.Source == nil {
		o.Source = assets.Dir(".")
	}
	if o.NewAssets == nil {
		src := o.Source
		o.NewAssets = func() AssetManager { return assets.NewManager(src) }
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Widget plays one skeleton on its own surface inside a container.
//
// Construction issues the asset requests and returns immediately. Loading is
// polled once per tick; when it completes the pose is built, OnReady runs
// and frames are rendered every tick until the widget is paused.
type Widget struct {
	container *Container
	config    WidgetConfig
	sched     Scheduler
	now       func() time.Time
	debug     bool

	assets   AssetManager
	surface  render.Surface
	shader   render.Shader
	batcher  render.Batcher
	renderer render.SkeletonDrawer

	load      *loader
	loadState LoadState
	err       error
	pose      *pose
	clock     frameClock
	frames    int

	paused         bool
	frameScheduled bool
	disposed       bool
}

func newWidget(c *Container, cfg WidgetConfig, opts Options, sched Scheduler) (*Widget, error) {
	w := &Widget{
		container: c,
		config:    cfg,
		sched:     sched,
		now:       opts.Now,
		debug:     opts.Debug,
	}
	w.surface = opts.Backend.NewSurface(cfg.Width, cfg.Height)
	shader, err := opts.Backend.NewShader()
	if err != nil {
		w.releaseSurface()
		return nil, fmt.Errorf("skelwidget: create shader: %w", err)
	}
	w.shader = shader
	batcher, err := opts.Backend.NewBatcher(w.surface)
	if err != nil {
		w.releaseSurface()
		return nil, err
	}
	w.batcher = batcher
	w.renderer = opts.Backend.NewSkeletonRenderer()

	w.assets = opts.NewAssets()
	w.load = beginLoad(cfg, w.assets, w.now())
	sched.RequestFrame(w.loadTick)
	return w, nil
}

// loadTick polls the asset manager and reschedules itself until loading
// settles.
func (w *Widget) loadTick() error {
	if w.disposed {
		return nil
	}
	now := w.now()
	state, settled, err := w.load.poll(now)
	w.loadState = state
	if state == LoadPending {
		w.sched.RequestFrame(w.loadTick)
		return nil
	}
	if !settled {
		return nil
	}
	if state == LoadFailed {
		return w.fail(err)
	}

	if w.pose != nil {
		panic(fmt.Sprintf("skelwidget: pose for %q built twice", w.name()))
	}
	p, err := buildPose(w.config, w.assets)
	if err != nil {
		w.loadState = LoadFailed
		return w.fail(err)
	}
	w.pose = p
	w.clock.last = now
	if w.config.OnReady != nil {
		w.config.OnReady(w)
	}
	// The first frame is drawn even if the widget was paused before loading.
	w.scheduleFrame()
	return nil
}

func (w *Widget) fail(err error) error {
	w.err = err
	if w.config.OnError != nil {
		w.config.OnError(w, err)
		return nil
	}
	return err
}

// frame renders once and keeps the loop going while playing.
func (w *Widget) frame() error {
	w.frameScheduled = false
	if w.disposed {
		return nil
	}
	w.renderFrame(w.now())
	if !w.paused {
		w.scheduleFrame()
	}
	return nil
}

func (w *Widget) scheduleFrame() {
	if w.frameScheduled {
		return
	}
	w.frameScheduled = true
	w.sched.RequestFrame(w.frame)
}

// Pause stops the render loop. A frame already queued still renders.
func (w *Widget) Pause() {
	w.debugCheckDisposed("Pause")
	w.paused = true
}

// Play resumes the render loop. It never starts a second loop.
func (w *Widget) Play() {
	w.debugCheckDisposed("Play")
	if w.disposed {
		return
	}
	w.paused = false
	if w.pose != nil {
		w.scheduleFrame()
	}
}

// IsPlaying reports whether the widget is not paused.
func (w *Widget) IsPlaying() bool {
	return !w.paused
}

// SetAnimation resets the skeleton to its setup pose and plays name on
// track 0 with the configured loop flag.
func (w *Widget) SetAnimation(name string) error {
	w.debugCheckDisposed("SetAnimation")
	if w.pose == nil {
		return &LifecycleError{Op: "SetAnimation", Err: ErrNotReady}
	}
	anim := w.pose.skeleton.Data.FindAnimation(name)
	if anim == nil {
		return &AssetError{Kind: ErrUnknownAnimation, Err: fmt.Errorf("%w: %q", skeleton.ErrUnknownAnimation, name)}
	}
	w.pose.skeleton.SetToSetupPose()
	w.pose.state.SetAnimationData(0, anim, w.config.Loop)
	return nil
}

// AddAnimation queues name on track 0 after the current entry. A delay of
// zero or less starts it when the current entry completes.
func (w *Widget) AddAnimation(name string, loop bool, delay float64) error {
	w.debugCheckDisposed("AddAnimation")
	if w.pose == nil {
		return &LifecycleError{Op: "AddAnimation", Err: ErrNotReady}
	}
	if _, err := w.pose.state.AddAnimation(0, name, loop, delay); err != nil {
		return &AssetError{Kind: ErrUnknownAnimation, Err: err}
	}
	return nil
}

// Animations lists the skeleton's animation names, or nil before loading.
func (w *Widget) Animations() []string {
	if w.pose == nil {
		return nil
	}
	return w.pose.skeleton.Data.AnimationNames()
}

// CurrentAnimation returns the name playing on track 0, or "".
func (w *Widget) CurrentAnimation() string {
	if w.pose == nil {
		return ""
	}
	if e := w.pose.state.Current(0); e != nil {
		return e.Animation.Name
	}
	return ""
}

// Loaded reports whether the skeleton has been built.
func (w *Widget) Loaded() bool { return w.pose != nil }

// LoadState returns the load progress as of the last poll.
func (w *Widget) LoadState() LoadState { return w.loadState }

// Err returns the error that stopped loading, if any.
func (w *Widget) Err() error { return w.err }

// Config returns the resolved configuration.
func (w *Widget) Config() WidgetConfig { return w.config }

// Container returns the container the widget draws into.
func (w *Widget) Container() *Container { return w.container }

// Surface returns the widget's render surface.
func (w *Widget) Surface() render.Surface { return w.surface }

// Frames returns how many frames have been rendered.
func (w *Widget) Frames() int { return w.frames }

// Skeleton returns the runtime skeleton, or nil before loading.
func (w *Widget) Skeleton() *skeleton.Skeleton {
	if w.pose == nil {
		return nil
	}
	return w.pose.skeleton
}

// State returns the animation state, or nil before loading.
func (w *Widget) State() *skeleton.AnimationState {
	if w.pose == nil {
		return nil
	}
	return w.pose.state
}

// Dispose stops the widget, releases its surface, shader and textures, and
// detaches it from its container. Further calls are no-ops.
func (w *Widget) Dispose() {
	if w.disposed {
		return
	}
	w.paused = true
	w.disposed = true
	if w.pose != nil {
		w.pose.atlas.Dispose()
	}
	w.assets.Dispose()
	if d, ok := w.shader.(interface{ Dispose() }); ok {
		d.Dispose()
	}
	w.releaseSurface()
	if w.container != nil && w.container.widget == w {
		w.container.widget = nil
	}
}

func (w *Widget) releaseSurface() {
	if d, ok := w.surface.(interface{ Dispose() }); ok {
		d.Dispose()
	}
}
