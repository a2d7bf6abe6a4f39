// Package atlas parses libGDX/Spine text texture atlases.
//
// An atlas file lists one or more pages (texture images) followed by the
// named regions packed into each page:
//
//	hero.png
//	size: 256,256
//	format: RGBA8888
//	filter: Linear,Linear
//	repeat: none
//	head
//	  rotate: false
//	  xy: 2, 2
//	  size: 64, 64
//	  orig: 64, 64
//	  offset: 0, 0
//	  index: -1
//
// Page textures are resolved through a [TextureLoader] so the caller decides
// where images come from (an asset manager, an embedded FS, a test fixture).
package atlas

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrMissingTexture is returned by a TextureLoader that has no image for the
// requested page name.
var ErrMissingTexture = errors.New("atlas: texture not loaded")

// TextureLoader returns the texture for a page name as written in the atlas.
type TextureLoader func(pageName string) (*ebiten.Image, error)

// Page is one texture image of an atlas.
type Page struct {
	Name    string
	Texture *ebiten.Image
	Width   int // from the "size" line, or the texture bounds when absent
	Height  int
	Format  string
	Filter  [2]string
	Repeat  string
}

// Region is a named sub-rectangle within a page.
type Region struct {
	Name           string
	Page           *Page
	X, Y           int  // top-left corner within the page
	Width, Height  int  // packed size, unrotated
	OriginalWidth  int  // untrimmed size as authored
	OriginalHeight int  //
	OffsetX        int  // trim offset, measured from the bottom-left
	OffsetY        int  //
	Index          int  // frame index for sequences, -1 otherwise
	Rotate         bool // stored 90 degrees clockwise in the page

	// Normalized texture coordinates of the packed rectangle.
	U, V, U2, V2 float64
}

// Atlas holds the pages and regions parsed from one atlas file.
type Atlas struct {
	Pages   []*Page
	Regions []*Region
	byName  map[string]*Region
}

// FindRegion returns the first region with the given name, or nil.
func (a *Atlas) FindRegion(name string) *Region {
	return a.byName[name]
}

// Dispose drops the atlas's references to its page textures. The textures
// themselves belong to whoever the TextureLoader got them from.
func (a *Atlas) Dispose() {
	for _, p := range a.Pages {
		p.Texture = nil
	}
}

// Parse reads atlas text and resolves every page through load. Regions are
// kept in file order.
func Parse(text string, load TextureLoader) (*Atlas, error) {
	if load == nil {
		return nil, fmt.Errorf("atlas: nil texture loader")
	}
	r := &reader{scanner: bufio.NewScanner(strings.NewReader(text))}
	a := &Atlas{byName: make(map[string]*Region)}

	var page *Page
	for {
		line, ok := r.next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			page = nil
			continue
		}
		if page == nil {
			p, err := r.readPage(strings.TrimSpace(line), load)
			if err != nil {
				return nil, err
			}
			a.Pages = append(a.Pages, p)
			page = p
			continue
		}
		region, err := r.readRegion(strings.TrimSpace(line), page)
		if err != nil {
			return nil, err
		}
		a.Regions = append(a.Regions, region)
		if _, dup := a.byName[region.Name]; !dup {
			a.byName[region.Name] = region
		}
	}
	if len(a.Pages) == 0 {
		return nil, fmt.Errorf("atlas: no pages found")
	}
	return a, nil
}

// reader is a line scanner with one line of push-back, needed because the
// optional key lines of a page or region are only recognizable by peeking.
type reader struct {
	scanner *bufio.Scanner
	pending *string
	lineNo  int
}

func (r *reader) next() (string, bool) {
	if r.pending != nil {
		s := *r.pending
		r.pending = nil
		return s, true
	}
	if !r.scanner.Scan() {
		return "", false
	}
	r.lineNo++
	return strings.TrimRight(r.scanner.Text(), "\r"), true
}

func (r *reader) unread(line string) {
	r.pending = &line
}

// entry reads the next "key: v1, v2" line. If the next line is not an entry
// it is pushed back and ok is false.
func (r *reader) entry() (key string, values []string, ok bool) {
	line, more := r.next()
	if !more {
		return "", nil, false
	}
	trimmed := strings.TrimSpace(line)
	colon := strings.IndexByte(trimmed, ':')
	if trimmed == "" || colon < 0 {
		r.unread(line)
		return "", nil, false
	}
	key = strings.TrimSpace(trimmed[:colon])
	for _, v := range strings.Split(trimmed[colon+1:], ",") {
		values = append(values, strings.TrimSpace(v))
	}
	return key, values, true
}

func (r *reader) readPage(name string, load TextureLoader) (*Page, error) {
	p := &Page{Name: name, Filter: [2]string{"Nearest", "Nearest"}, Repeat: "none"}
	for {
		key, values, ok := r.entry()
		if !ok {
			break
		}
		switch key {
		case "size":
			w, h, err := pair(values)
			if err != nil {
				return nil, fmt.Errorf("atlas: page %q line %d: size: %w", name, r.lineNo, err)
			}
			p.Width, p.Height = w, h
		case "format":
			p.Format = values[0]
		case "filter":
			if len(values) == 2 {
				p.Filter = [2]string{values[0], values[1]}
			}
		case "repeat":
			p.Repeat = values[0]
		}
	}

	tex, err := load(name)
	if err != nil {
		return nil, fmt.Errorf("atlas: page %q: %w", name, err)
	}
	if tex == nil {
		return nil, fmt.Errorf("atlas: page %q: %w", name, ErrMissingTexture)
	}
	p.Texture = tex
	if p.Width == 0 || p.Height == 0 {
		b := tex.Bounds()
		p.Width, p.Height = b.Dx(), b.Dy()
	}
	return p, nil
}

func (r *reader) readRegion(name string, page *Page) (*Region, error) {
	reg := &Region{Name: name, Page: page, Index: -1}
	var haveOrig bool
	for {
		line, more := r.next()
		if !more {
			break
		}
		// Region keys are indented; an unindented line starts the next region.
		if line == "" || (line[0] != ' ' && line[0] != '\t') {
			r.unread(line)
			break
		}
		r.unread(line)
		key, values, ok := r.entry()
		if !ok {
			break
		}
		var err error
		switch key {
		case "rotate":
			reg.Rotate = values[0] == "true" || values[0] == "90"
		case "xy":
			reg.X, reg.Y, err = pair(values)
		case "size":
			reg.Width, reg.Height, err = pair(values)
		case "orig":
			reg.OriginalWidth, reg.OriginalHeight, err = pair(values)
			haveOrig = true
		case "offset":
			reg.OffsetX, reg.OffsetY, err = pair(values)
		case "index":
			reg.Index, err = strconv.Atoi(values[0])
		}
		if err != nil {
			return nil, fmt.Errorf("atlas: region %q line %d: %s: %w", name, r.lineNo, key, err)
		}
	}
	if !haveOrig {
		reg.OriginalWidth, reg.OriginalHeight = reg.Width, reg.Height
	}

	pw, ph := float64(page.Width), float64(page.Height)
	reg.U = float64(reg.X) / pw
	reg.V = float64(reg.Y) / ph
	if reg.Rotate {
		reg.U2 = float64(reg.X+reg.Height) / pw
		reg.V2 = float64(reg.Y+reg.Width) / ph
	} else {
		reg.U2 = float64(reg.X+reg.Width) / pw
		reg.V2 = float64(reg.Y+reg.Height) / ph
	}
	return reg, nil
}

func pair(values []string) (int, int, error) {
	if len(values) < 2 {
		return 0, 0, fmt.Errorf("want 2 values, got %d", len(values))
	}
	a, err := strconv.Atoi(values[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(values[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
