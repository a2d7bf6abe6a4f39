package skelwidget

import (
	"strings"
	"time"

	"github.com/phanxgames/skelwidget/render"
)

// Defaults applied by Resolve.
const (
	DefaultScale           = 1.0
	DefaultSkin            = "default"
	DefaultWidth           = 640
	DefaultHeight          = 480
	DefaultY               = 20.0
	DefaultBackgroundColor = "#555555"
)

// RawConfig is an unresolved widget configuration, as written by a caller or
// read from a page manifest. Zero values mean "use the default"; the pointer
// fields distinguish an explicit zero from an omitted value.
type RawConfig struct {
	JSON               string        `yaml:"json"`
	Atlas              string        `yaml:"atlas"`
	Animation          string        `yaml:"animation"`
	ImagesPath         string        `yaml:"imagesPath,omitempty"`
	Skin               string        `yaml:"skin,omitempty"`
	Loop               *bool         `yaml:"loop,omitempty"`
	Scale              float64       `yaml:"scale,omitempty"`
	X                  *float64      `yaml:"x,omitempty"`
	Y                  *float64      `yaml:"y,omitempty"`
	Width              int           `yaml:"width,omitempty"`
	Height             int           `yaml:"height,omitempty"`
	BackgroundColor    string        `yaml:"backgroundColor,omitempty"`
	PremultipliedAlpha bool          `yaml:"premultipliedAlpha,omitempty"`
	LoadTimeout        time.Duration `yaml:"loadTimeout,omitempty"`

	// OnReady is called once, after the skeleton is built.
	OnReady func(w *Widget) `yaml:"-"`
	// OnError is called once, when loading or pose construction fails. When
	// nil the error is returned from the tick that hit it.
	OnError func(w *Widget, err error) `yaml:"-"`
}

// WidgetConfig is a fully resolved configuration. It is produced by Resolve
// and passed by value; the widget never modifies it.
type WidgetConfig struct {
	JSON               string
	Atlas              string
	Animation          string
	ImagesPath         string
	Skin               string
	Loop               bool
	Scale              float64
	X, Y               float64
	Width, Height      int
	BackgroundColor    string
	Background         render.Color
	PremultipliedAlpha bool
	LoadTimeout        time.Duration

	OnReady func(w *Widget)
	OnError func(w *Widget, err error)
}

// Resolve validates raw and fills every omitted field with its default.
// It has no side effects, and resolving the Raw form of its result yields
// the same configuration.
func Resolve(raw RawConfig) (WidgetConfig, error) {
	for _, req := range []struct{ name, value string }{
		{"json", raw.JSON},
		{"atlas", raw.Atlas},
		{"animation", raw.Animation},
	} {
		if req.value == "" {
			return WidgetConfig{}, &ConfigError{Field: req.name, Err: ErrMissingField}
		}
	}
	if raw.Width < 0 {
		return WidgetConfig{}, &ConfigError{Field: "width", Err: ErrInvalidField}
	}
	if raw.Height < 0 {
		return WidgetConfig{}, &ConfigError{Field: "height", Err: ErrInvalidField}
	}
	if raw.LoadTimeout < 0 {
		return WidgetConfig{}, &ConfigError{Field: "loadTimeout", Err: ErrInvalidField}
	}

	cfg := WidgetConfig{
		JSON:               raw.JSON,
		Atlas:              raw.Atlas,
		Animation:          raw.Animation,
		ImagesPath:         raw.ImagesPath,
		Skin:               raw.Skin,
		Loop:               true,
		Scale:              raw.Scale,
		Width:              raw.Width,
		Height:             raw.Height,
		BackgroundColor:    raw.BackgroundColor,
		PremultipliedAlpha: raw.PremultipliedAlpha,
		LoadTimeout:        raw.LoadTimeout,
		OnReady:            raw.OnReady,
		OnError:            raw.OnError,
	}
	if cfg.ImagesPath == "" {
		cfg.ImagesPath = cfg.Atlas[:strings.LastIndex(cfg.Atlas, "/")+1]
	}
	if cfg.Skin == "" {
		cfg.Skin = DefaultSkin
	}
	if raw.Loop != nil {
		cfg.Loop = *raw.Loop
	}
	if cfg.Scale == 0 {
		cfg.Scale = DefaultScale
	}
	if cfg.Width == 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = DefaultHeight
	}
	cfg.X = float64(cfg.Width) / 2
	if raw.X != nil {
		cfg.X = *raw.X
	}
	cfg.Y = DefaultY
	if raw.Y != nil {
		cfg.Y = *raw.Y
	}
	if cfg.BackgroundColor == "" {
		cfg.BackgroundColor = DefaultBackgroundColor
	}
	bg, err := render.ParseColor(cfg.BackgroundColor)
	if err != nil {
		return WidgetConfig{}, &ConfigError{Field: "backgroundColor", Err: ErrInvalidField}
	}
	cfg.Background = bg
	return cfg, nil
}

// Raw returns a RawConfig with every field set explicitly.
func (c WidgetConfig) Raw() RawConfig {
	loop, x, y := c.Loop, c.X, c.Y
	return RawConfig{
		JSON:               c.JSON,
		Atlas:              c.Atlas,
		Animation:          c.Animation,
		ImagesPath:         c.ImagesPath,
		Skin:               c.Skin,
		Loop:               &loop,
		Scale:              c.Scale,
		X:                  &x,
		Y:                  &y,
		Width:              c.Width,
		Height:             c.Height,
		BackgroundColor:    c.BackgroundColor,
		PremultipliedAlpha: c.PremultipliedAlpha,
		LoadTimeout:        c.LoadTimeout,
		OnReady:            c.OnReady,
		OnError:            c.OnError,
	}
}

// TexturePath is the image loaded alongside the atlas: the atlas locator
// with a trailing ".atlas" replaced by ".png".
func (c WidgetConfig) TexturePath() string {
	return strings.TrimSuffix(c.Atlas, ".atlas") + ".png"
}
