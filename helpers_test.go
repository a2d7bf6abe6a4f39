package skelwidget

import (
	"fmt"
	"maps"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/skelwidget/render"
	"github.com/phanxgames/skelwidget/skeleton"
)

// --- Fixtures ---

const heroAtlasText = `
hero.png
size: 64,64
format: RGBA8888
filter: Linear,Linear
repeat: none
body
  rotate: false
  xy: 0, 0
  size: 32, 32
  orig: 32, 32
  offset: 0, 0
  index: -1
`

const heroJSON = `{
  "skeleton": {"spine": "3.8"},
  "bones": [{"name": "root"}, {"name": "body", "parent": "root", "y": 10}],
  "slots": [{"name": "body", "bone": "body", "attachment": "body"}],
  "skins": {
    "default": {"body": {"body": {"width": 32, "height": 32}}},
    "red": {"body": {"body": {"width": 32, "height": 32, "color": "ff0000ff"}}}
  },
  "animations": {
    "walk": {"bones": {"body": {"rotate": [{"time": 0, "angle": 0}, {"time": 1, "angle": 90}]}}},
    "jump": {"bones": {"body": {"translate": [{"time": 0, "y": 0}, {"time": 0.5, "y": 40}]}}}
  }
}`

func heroRaw() RawConfig {
	return RawConfig{
		JSON:      "assets/hero.json",
		Atlas:     "assets/hero.atlas",
		Animation: "walk",
	}
}

// --- fakeAssets ---

// fakeAssets is an AssetManager whose completion is controlled by the test.
type fakeAssets struct {
	text     map[string]string
	textures map[string]*ebiten.Image
	errs     map[string]string
	complete bool

	requested []string
	disposed  bool
}

func newHeroAssets() *fakeAssets {
	return &fakeAssets{
		text: map[string]string{
			"assets/hero.atlas": heroAtlasText,
			"assets/hero.json":  heroJSON,
		},
		textures: map[string]*ebiten.Image{
			"assets/hero.png": ebiten.NewImage(64, 64),
		},
		errs: map[string]string{},
	}
}

func (a *fakeAssets) LoadText(path string) { a.requested = append(a.requested, "text:"+path) }
func (a *fakeAssets) LoadTexture(path string) { a.requested = append(a.requested, "texture:"+path) }
func (a *fakeAssets) IsLoadingComplete() bool { return a.complete }
func (a *fakeAssets) HasErrors() bool { return len(a.errs) > 0 }
func (a *fakeAssets) Errors() map[string]string {
	return maps.Clone(a.errs)
}
func (a *fakeAssets) Dispose() { a.disposed = true }

func (a *fakeAssets) Get(path string) any {
	if s, ok := a.text[path]; ok {
		return s
	}
	if tex, ok := a.textures[path]; ok {
		return tex
	}
	return nil
}

// --- Recording backend ---

type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) reset() { l.calls = nil }

type fakeSurface struct {
	log           *callLog
	width, height int
	disposed      bool
}

func (s *fakeSurface) Clear(c render.Color) { s.log.add("clear %.3f", c.R) }
func (s *fakeSurface) Size() (int, int) { return s.width, s.height }
func (s *fakeSurface) Dispose() { s.disposed = true }

type fakeShader struct {
	log   *callLog
	bound bool
	mvp   render.Matrix4
}

func (s *fakeShader) Bind() { s.bound = true; s.log.add("bind") }
func (s *fakeShader) Unbind() { s.bound = false; s.log.add("unbind") }
func (s *fakeShader) Bound() bool { return s.bound }
func (s *fakeShader) SetUniformi(name string, v int) {
	s.log.add("uniformi %s %d", name, v)
}
func (s *fakeShader) SetUniformf(name string, v float32) {
	s.log.add("uniformf %s %v", name, v)
}
func (s *fakeShader) SetUniform4x4f(name string, m render.Matrix4) {
	s.mvp = m
	s.log.add("uniform4x4f %s", name)
}
func (s *fakeShader) Program() *ebiten.Shader { return nil }
func (s *fakeShader) Projection() render.Matrix4 { return s.mvp }
func (s *fakeShader) Sampler() int { return 0 }
func (s *fakeShader) Uniforms() map[string]any { return nil }

type fakeBatcher struct {
	log *callLog
}

func (b *fakeBatcher) Begin(render.Shader) { b.log.add("begin") }
func (b *fakeBatcher) SetBlendMode(m render.BlendMode, premultiplied bool) {
	b.log.add("blend %d %v", m, premultiplied)
}
func (b *fakeBatcher) Draw(_ *ebiten.Image, v []ebiten.Vertex, _ []uint16) {
	b.log.add("draw %d", len(v))
}
func (b *fakeBatcher) End() { b.log.add("end") }

// loggingDrawer wraps the real skeleton renderer to record its inputs.
type loggingDrawer struct {
	render.SkeletonDrawer
	log *callLog
}

func (d loggingDrawer) SetPremultipliedAlpha(p bool) {
	d.log.add("premultiplied %v", p)
	d.SkeletonDrawer.SetPremultipliedAlpha(p)
}

func (d loggingDrawer) Draw(b render.Batcher, sk *skeleton.Skeleton) {
	d.log.add("render")
	d.SkeletonDrawer.Draw(b, sk)
}

type fakeBackend struct {
	log     *callLog
	surface *fakeSurface
	shader  *fakeShader
}

func (b *fakeBackend) NewSurface(w, h int) render.Surface {
	b.surface = &fakeSurface{log: b.log, width: w, height: h}
	return b.surface
}

func (b *fakeBackend) NewShader() (render.Shader, error) {
	b.shader = &fakeShader{log: b.log}
	return b.shader, nil
}

func (b *fakeBackend) NewBatcher(render.Surface) (render.Batcher, error) {
	return &fakeBatcher{log: b.log}, nil
}

func (b *fakeBackend) NewSkeletonRenderer() render.SkeletonDrawer {
	return loggingDrawer{SkeletonDrawer: render.NewSkeletonRenderer(), log: b.log}
}

// --- Test host ---

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(seconds float64) {
	c.now = c.now.Add(time.Duration(seconds * float64(time.Second)))
}

type testRig struct {
	host    *Host
	assets  *fakeAssets
	backend *fakeBackend
	log     *callLog
	clock   *fakeClock
}

func newTestRig(t *testing.T, assets *fakeAssets) *testRig {
	t.Helper()
	log := &callLog{}
	r := &testRig{
		assets:  assets,
		backend: &fakeBackend{log: log},
		log:     log,
		clock:   &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	r.host = NewHost(800, 600, Options{
		Backend:   r.backend,
		NewAssets: func() AssetManager { return r.assets },
		Now:       r.clock.Now,
	})
	r.host.AddContainer("hero", Rect{Width: 640, Height: 480})
	return r
}

// newWidget creates a widget in the "hero" container.
func (r *testRig) newWidget(t *testing.T, raw RawConfig) *Widget {
	t.Helper()
	w, err := r.host.NewWidgetByID("hero", raw)
	if err != nil {
		t.Fatalf("NewWidgetByID: %v", err)
	}
	return w
}

// tick runs one host update and fails the test on error.
func (r *testRig) tick(t *testing.T) {
	t.Helper()
	if err := r.host.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

// load completes every asset request and ticks until the widget is built.
func (r *testRig) load(t *testing.T, w *Widget) {
	t.Helper()
	r.assets.complete = true
	r.tick(t)
	if !w.Loaded() {
		t.Fatalf("widget not loaded: state=%v err=%v", w.LoadState(), w.Err())
	}
}
