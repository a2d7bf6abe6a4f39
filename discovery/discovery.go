// Package discovery creates widgets from a declarative page manifest.
//
// A page is a YAML document listing elements. Every element whose class
// list contains "spine-widget" becomes a container on the host and gets a
// widget configured from its data-* attributes:
//
//	width: 1280
//	height: 480
//	elements:
//	  - id: hero
//	    class: spine-widget
//	    bounds: {x: 0, y: 0, width: 640, height: 480}
//	    attrs:
//	      data-json: hero/hero.json
//	      data-atlas: hero/hero.atlas
//	      data-animation: walk
//	      data-background-color: "#202020"
package discovery

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/phanxgames/skelwidget"
	"gopkg.in/yaml.v3"
)

// WidgetClass marks the elements that become widgets.
const WidgetClass = "spine-widget"

// Bounds is an element's placement in the host window.
type Bounds struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Element is one declared element of a page.
type Element struct {
	ID     string            `yaml:"id"`
	Class  string            `yaml:"class"`
	Bounds Bounds            `yaml:"bounds"`
	Attrs  map[string]string `yaml:"attrs"`
}

// HasClass reports whether name is in the element's space-separated class
// list.
func (e Element) HasClass(name string) bool {
	for _, c := range strings.Fields(e.Class) {
		if c == name {
			return true
		}
	}
	return false
}

// Page is a parsed page manifest.
type Page struct {
	Title    string    `yaml:"title"`
	Width    int       `yaml:"width"`
	Height   int       `yaml:"height"`
	Elements []Element `yaml:"elements"`
}

// Widgets returns the elements carrying WidgetClass, in document order. An
// element without an id is named after its position among them, as in
// "spine-widget-2".
func (p *Page) Widgets() []Element {
	var out []Element
	for _, e := range p.Elements {
		if !e.HasClass(WidgetClass) {
			continue
		}
		if e.ID == "" {
			e.ID = fmt.Sprintf("%s-%d", WidgetClass, len(out))
		}
		out = append(out, e)
	}
	return out
}

// ParsePage decodes a YAML page manifest.
func ParsePage(data []byte) (*Page, error) {
	var p Page
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("discovery: parse page: %w", err)
	}
	return &p, nil
}

// LoadPage reads and decodes a page manifest from disk.
func LoadPage(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}
	return ParsePage(data)
}

// ConfigFromAttrs maps data-* attributes onto a RawConfig. Empty attributes
// are treated as absent. Boolean attributes are true only for "true".
func ConfigFromAttrs(attrs map[string]string) (skelwidget.RawConfig, error) {
	raw := skelwidget.RawConfig{
		JSON:            attrs["data-json"],
		Atlas:           attrs["data-atlas"],
		Animation:       attrs["data-animation"],
		ImagesPath:      attrs["data-images-path"],
		Skin:            attrs["data-skin"],
		BackgroundColor: attrs["data-background-color"],
	}
	if v := attrs["data-loop"]; v != "" {
		loop := v == "true"
		raw.Loop = &loop
	}
	if v := attrs["data-premultiplied-alpha"]; v != "" {
		raw.PremultipliedAlpha = v == "true"
	}

	var err error
	if raw.Scale, err = parseFloat(attrs, "data-scale"); err != nil {
		return raw, err
	}
	for _, f := range []struct {
		name string
		dst  **float64
	}{
		{"data-x", &raw.X},
		{"data-y", &raw.Y},
	} {
		if attrs[f.name] == "" {
			continue
		}
		v, err := parseFloat(attrs, f.name)
		if err != nil {
			return raw, err
		}
		*f.dst = &v
	}
	if raw.Width, err = parseInt(attrs, "data-width"); err != nil {
		return raw, err
	}
	if raw.Height, err = parseInt(attrs, "data-height"); err != nil {
		return raw, err
	}
	return raw, nil
}

func parseFloat(attrs map[string]string, name string) (float64, error) {
	s := attrs[name]
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &skelwidget.ConfigError{Field: name, Err: fmt.Errorf("%w: %v", skelwidget.ErrInvalidField, err)}
	}
	return v, nil
}

func parseInt(attrs map[string]string, name string) (int, error) {
	s := attrs[name]
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &skelwidget.ConfigError{Field: name, Err: fmt.Errorf("%w: %v", skelwidget.ErrInvalidField, err)}
	}
	return v, nil
}

// Discoverer loads the widgets of a page into a host, at most once.
type Discoverer struct {
	host   *skelwidget.Host
	loaded bool

	// OnReady and OnError, when set, are installed on every widget created.
	OnReady func(w *skelwidget.Widget)
	OnError func(w *skelwidget.Widget, err error)
}

// New creates a Discoverer for host.
func New(host *skelwidget.Host) *Discoverer {
	return &Discoverer{host: host}
}

// Loaded reports whether Load has run.
func (d *Discoverer) Loaded() bool {
	return d.loaded
}

// Load creates a widget for every WidgetClass element of page. Only the
// first call does anything; later calls return nil, nil. An element that
// fails does not stop the others; the failures are joined.
func (d *Discoverer) Load(page *Page) ([]*skelwidget.Widget, error) {
	if d.loaded {
		return nil, nil
	}
	d.loaded = true

	var widgets []*skelwidget.Widget
	var errs []error
	for _, el := range page.Widgets() {
		w, err := d.LoadElement(el)
		if err != nil {
			errs = append(errs, fmt.Errorf("discovery: element %q: %w", el.ID, err))
			continue
		}
		widgets = append(widgets, w)
	}
	return widgets, errors.Join(errs...)
}

// LoadElement creates the container and widget for one element, whether or
// not it carries WidgetClass.
func (d *Discoverer) LoadElement(el Element) (*skelwidget.Widget, error) {
	raw, err := ConfigFromAttrs(el.Attrs)
	if err != nil {
		return nil, err
	}
	raw.OnReady, raw.OnError = d.OnReady, d.OnError
	c := d.host.AddContainer(el.ID, skelwidget.Rect{
		X: el.Bounds.X, Y: el.Bounds.Y, Width: el.Bounds.Width, Height: el.Bounds.Height,
	})
	return d.host.NewWidget(c, raw)
}
