package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/skelwidget"
	"github.com/phanxgames/skelwidget/assets"
	"github.com/phanxgames/skelwidget/render"
)

// headless never draws: no test here ticks the host.
type headless struct{}

type nopSurface struct{ w, h int }

func (s nopSurface) Clear(render.Color) {}
func (s nopSurface) Size() (int, int) { return s.w, s.h }

type nopShader struct{ render.Shader }

type nopBatcher struct{ render.Batcher }

func (headless) NewSurface(w, h int) render.Surface {
	return nopSurface{w, h}
}

func (headless) NewShader() (render.Shader, error) {
	return nopShader{}, nil
}

func (headless) NewBatcher(render.Surface) (render.Batcher, error) {
	return nopBatcher{}, nil
}

func (headless) NewSkeletonRenderer() render.SkeletonDrawer {
	return render.NewSkeletonRenderer()
}

func newHost(w, h int) *skelwidget.Host {
	return skelwidget.NewHost(w, h, skelwidget.Options{Backend: headless{}, Source: assets.MemorySource{}})
}

const pageYAML = `
title: Demo
width: 1280
height: 480
elements:
  - id: hero
    class: spine-widget large
    bounds: {x: 0, y: 0, width: 640, height: 480}
    attrs:
      data-json: hero/hero.json
      data-atlas: hero/hero.atlas
      data-animation: walk
      data-y: "0"
  - id: banner
    class: header
  - class: spine-widget
    bounds: {x: 640, y: 0, width: 640, height: 480}
    attrs:
      data-json: goblin/goblin.json
      data-atlas: goblin/goblin.atlas
      data-animation: idle
      data-skin: goblingirl
`

func TestParsePage(t *testing.T) {
	p, err := ParsePage([]byte(pageYAML))
	if err != nil {
		t.Fatalf("ParsePage: %v", err)
	}
	if p.Title != "Demo" || p.Width != 1280 || len(p.Elements) != 3 {
		t.Fatalf("page = %+v", p)
	}
	ws := p.Widgets()
	if len(ws) != 2 || ws[0].ID != "hero" || ws[1].Attrs["data-skin"] != "goblingirl" {
		t.Errorf("widgets = %+v", ws)
	}
	if ws[1].ID != "spine-widget-1" {
		t.Errorf("unnamed widget id = %q, want spine-widget-1", ws[1].ID)
	}
	if ws[0].Bounds.Width != 640 {
		t.Errorf("bounds = %+v", ws[0].Bounds)
	}
}

func TestParsePage_Invalid(t *testing.T) {
	if _, err := ParsePage([]byte("elements: [")); err == nil {
		t.Error("expected YAML error")
	}
}

func TestLoadPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.yaml")
	if err := os.WriteFile(path, []byte(pageYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPage(path)
	if err != nil || len(p.Elements) != 3 {
		t.Fatalf("LoadPage = %v, %v", p, err)
	}
	if _, err := LoadPage(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestHasClass(t *testing.T) {
	tests := []struct {
		class string
		want  bool
	}{
		{"spine-widget", true},
		{"a spine-widget b", true},
		{"spine-widgets", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := (Element{Class: tt.class}).HasClass(WidgetClass); got != tt.want {
			t.Errorf("HasClass(%q) = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestConfigFromAttrs(t *testing.T) {
	raw, err := ConfigFromAttrs(map[string]string{
		"data-json":                "a.json",
		"data-atlas":               "a.atlas",
		"data-animation":           "walk",
		"data-images-path":         "img/",
		"data-skin":                "red",
		"data-loop":                "false",
		"data-scale":               "0.5",
		"data-x":                   "10",
		"data-y":                   "25",
		"data-width":               "320",
		"data-height":              "200",
		"data-background-color":    "#000",
		"data-premultiplied-alpha": "true",
	})
	if err != nil {
		t.Fatal(err)
	}
	if raw.JSON != "a.json" || raw.Atlas != "a.atlas" || raw.Animation != "walk" ||
		raw.ImagesPath != "img/" || raw.Skin != "red" || raw.BackgroundColor != "#000" {
		t.Errorf("strings = %+v", raw)
	}
	if raw.Loop == nil || *raw.Loop || raw.Scale != 0.5 || !raw.PremultipliedAlpha {
		t.Errorf("loop/scale/premultiplied = %v/%v/%v", raw.Loop, raw.Scale, raw.PremultipliedAlpha)
	}
	if *raw.X != 10 || *raw.Y != 25 {
		t.Errorf("position = (%v, %v), want (10, 25)", *raw.X, *raw.Y)
	}
	if raw.Width != 320 || raw.Height != 200 {
		t.Errorf("size = %dx%d", raw.Width, raw.Height)
	}
}

func TestConfigFromAttrs_Absent(t *testing.T) {
	raw, err := ConfigFromAttrs(map[string]string{"data-loop": "", "data-x": ""})
	if err != nil {
		t.Fatal(err)
	}
	if raw.Loop != nil || raw.X != nil || raw.Y != nil || raw.Scale != 0 {
		t.Errorf("empty attributes should leave defaults: %+v", raw)
	}
	raw, _ = ConfigFromAttrs(map[string]string{"data-loop": "yes"})
	if raw.Loop == nil || *raw.Loop {
		t.Error(`data-loop other than "true" means false`)
	}
}

func TestConfigFromAttrs_Invalid(t *testing.T) {
	for _, name := range []string{"data-scale", "data-x", "data-y", "data-width", "data-height"} {
		_, err := ConfigFromAttrs(map[string]string{name: "abc"})
		var ce *skelwidget.ConfigError
		if !errors.Is(err, skelwidget.ErrInvalidField) || !errors.As(err, &ce) || ce.Field != name {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestDiscoverer_LoadOnce(t *testing.T) {
	host := newHost(1280, 480)
	d := New(host)
	p, err := ParsePage([]byte(pageYAML))
	if err != nil {
		t.Fatal(err)
	}

	widgets, err := d.Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(widgets) != 2 || !d.Loaded() {
		t.Fatalf("widgets = %d, want 2", len(widgets))
	}
	hero := host.Container("hero")
	if hero == nil || hero.Widget() != widgets[0] {
		t.Fatal("hero container not wired")
	}
	if cfg := widgets[0].Config(); cfg.Y != 0 || cfg.X != 320 {
		t.Errorf("hero position = (%v, %v), want (320, 0)", cfg.X, cfg.Y)
	}
	if host.Container("spine-widget-1") == nil {
		t.Error("unnamed element should get a generated id")
	}
	if host.Container("banner") != nil {
		t.Error("non-widget element became a container")
	}

	again, err := d.Load(p)
	if again != nil || err != nil {
		t.Errorf("second Load = %v, %v; want nil, nil", again, err)
	}
	if len(host.Widgets()) != 2 {
		t.Errorf("host widgets = %d after second Load, want 2", len(host.Widgets()))
	}
	host.Dispose()
}

func TestDiscoverer_ElementErrorsJoined(t *testing.T) {
	host := newHost(100, 100)
	d := New(host)
	page := &Page{Elements: []Element{
		{ID: "bad", Class: WidgetClass, Attrs: map[string]string{"data-json": "a.json"}},
		{ID: "scale", Class: WidgetClass, Attrs: map[string]string{"data-scale": "big"}},
		{ID: "good", Class: WidgetClass, Attrs: map[string]string{
			"data-json": "a.json", "data-atlas": "a.atlas", "data-animation": "walk",
		}},
	}}
	widgets, err := d.Load(page)
	if len(widgets) != 1 {
		t.Errorf("widgets = %d, want 1", len(widgets))
	}
	if !errors.Is(err, skelwidget.ErrMissingField) || !errors.Is(err, skelwidget.ErrInvalidField) {
		t.Errorf("err = %v, want missing and invalid field errors", err)
	}
	if !strings.Contains(err.Error(), `"bad"`) {
		t.Errorf("err %q should name the element", err)
	}
	host.Dispose()
}
