package skelwidget

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/phanxgames/skelwidget/render"
	"gopkg.in/yaml.v3"
)

func ptr[T any](v T) *T { return &v }

func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve(RawConfig{JSON: "a.json", Atlas: "x/y/a.atlas", Animation: "walk"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Scale != 1 || cfg.Skin != "default" || !cfg.Loop {
		t.Errorf("scale/skin/loop = %v/%q/%v, want 1/default/true", cfg.Scale, cfg.Skin, cfg.Loop)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("size = %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
	if cfg.X != 320 || cfg.Y != 20 {
		t.Errorf("position = (%v, %v), want (320, 20)", cfg.X, cfg.Y)
	}
	if cfg.BackgroundColor != "#555555" {
		t.Errorf("BackgroundColor = %q", cfg.BackgroundColor)
	}
	want := render.Color{R: 0x55 / 255.0, G: 0x55 / 255.0, B: 0x55 / 255.0, A: 1}
	if cfg.Background != want {
		t.Errorf("Background = %v, want %v", cfg.Background, want)
	}
	if cfg.ImagesPath != "x/y/" {
		t.Errorf("ImagesPath = %q, want x/y/", cfg.ImagesPath)
	}
	if cfg.TexturePath() != "x/y/a.png" {
		t.Errorf("TexturePath = %q, want x/y/a.png", cfg.TexturePath())
	}
	if cfg.PremultipliedAlpha || cfg.LoadTimeout != 0 {
		t.Error("premultiplied alpha and load timeout should be off by default")
	}
}

func TestResolve_XFollowsWidth(t *testing.T) {
	cfg, err := Resolve(RawConfig{JSON: "a", Atlas: "b", Animation: "c", Width: 300})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.X != 150 {
		t.Errorf("X = %v, want 150", cfg.X)
	}
	if cfg.ImagesPath != "" {
		t.Errorf("ImagesPath = %q, want empty for an atlas without a directory", cfg.ImagesPath)
	}
}

func TestResolve_ExplicitValuesKept(t *testing.T) {
	raw := RawConfig{
		JSON: "a.json", Atlas: "a.atlas", Animation: "walk",
		ImagesPath: "img/", Skin: "red", Loop: ptr(false), Scale: 0.5,
		X: ptr(0.0), Y: ptr(0.0), Width: 100, Height: 50,
		BackgroundColor: "cornflowerblue", PremultipliedAlpha: true,
		LoadTimeout: time.Second,
	}
	cfg, err := Resolve(raw)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.X != 0 || cfg.Y != 0 {
		t.Errorf("explicit zero position replaced: (%v, %v)", cfg.X, cfg.Y)
	}
	if cfg.Loop || cfg.Scale != 0.5 || cfg.Skin != "red" || cfg.ImagesPath != "img/" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Background.B != 237/255.0 {
		t.Errorf("cornflowerblue B = %v", cfg.Background.B)
	}
}

func TestResolve_MissingField(t *testing.T) {
	tests := []struct {
		field string
		raw   RawConfig
	}{
		{"json", RawConfig{Atlas: "a", Animation: "b"}},
		{"atlas", RawConfig{JSON: "a", Animation: "b"}},
		{"animation", RawConfig{JSON: "a", Atlas: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			_, err := Resolve(tt.raw)
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("err = %v, want ErrMissingField", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("ConfigError field = %v, want %q", ce, tt.field)
			}
		})
	}
}

func TestResolve_InvalidField(t *testing.T) {
	base := RawConfig{JSON: "a", Atlas: "b", Animation: "c"}
	tests := []struct {
		field  string
		mutate func(*RawConfig)
	}{
		{"width", func(r *RawConfig) { r.Width = -1 }},
		{"height", func(r *RawConfig) { r.Height = -5 }},
		{"backgroundColor", func(r *RawConfig) { r.BackgroundColor = "#zzz" }},
		{"loadTimeout", func(r *RawConfig) { r.LoadTimeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			raw := base
			tt.mutate(&raw)
			_, err := Resolve(raw)
			var ce *ConfigError
			if !errors.Is(err, ErrInvalidField) || !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("err = %v, want invalid %s", err, tt.field)
			}
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	raws := []RawConfig{
		{JSON: "a.json", Atlas: "dir/a.atlas", Animation: "walk"},
		{JSON: "a.json", Atlas: "a.atlas", Animation: "walk", Loop: ptr(false), Y: ptr(0.0), Width: 10},
		{JSON: "a.json", Atlas: "a.atlas", Animation: "walk", BackgroundColor: "#abc", Scale: 2, Skin: "x"},
	}
	for i, raw := range raws {
		first, err := Resolve(raw)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		second, err := Resolve(first.Raw())
		if err != nil {
			t.Fatalf("case %d: second Resolve: %v", i, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("case %d: Resolve(Raw()) = %+v, want %+v", i, second, first)
		}
	}
}

func TestRawConfig_YAML(t *testing.T) {
	src := `
json: hero/hero.json
atlas: hero/hero.atlas
animation: run
loop: false
y: 0
width: 320
backgroundColor: "#000000"
loadTimeout: 2s
`
	var raw RawConfig
	if err := yaml.Unmarshal([]byte(src), &raw); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	cfg, err := Resolve(raw)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Loop || cfg.Y != 0 || cfg.X != 160 || cfg.LoadTimeout != 2*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
}
