// Package assets loads text and textures in the background and exposes them
// to a game loop that polls for completion.
//
// Fetching and decoding run on goroutines. GPU images are created lazily on
// the first Get or Texture call, which must happen on the game goroutine.
package assets

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"maps"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

type kind uint8

const (
	kindText kind = iota
	kindTexture
)

type entry struct {
	kind kind
	done bool
	err  error
	text string
	img  image.Image
	tex  *ebiten.Image
}

// Manager tracks a set of asset requests. The zero value is not usable; use
// NewManager.
type Manager struct {
	src    Source
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	entries map[string]*entry
	pending int
	errs    map[string]string
}

// NewManager creates a Manager reading from src.
func NewManager(src Source) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		src:     src,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]*entry),
		errs:    make(map[string]string),
	}
}

// LoadText requests path as UTF-8 text. Repeated requests are ignored.
func (m *Manager) LoadText(path string) {
	m.request(path, kindText)
}

// LoadTexture requests path as a decoded image. Repeated requests are
// ignored.
func (m *Manager) LoadTexture(path string) {
	m.request(path, kindTexture)
}

func (m *Manager) request(path string, k kind) {
	m.mu.Lock()
	if _, ok := m.entries[path]; ok {
		m.mu.Unlock()
		return
	}
	e := &entry{kind: k}
	m.entries[path] = e
	m.pending++
	ctx := m.ctx
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		text, img, err := m.fetch(ctx, path, k)
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.entries[path] != e {
			return // disposed
		}
		e.done = true
		e.text, e.img, e.err = text, img, err
		m.pending--
		if err != nil {
			m.errs[path] = fmt.Sprintf("couldn't load %s: %v", path, err)
		}
	}()
}

func (m *Manager) fetch(ctx context.Context, path string, k kind) (string, image.Image, error) {
	rc, err := m.src.Open(ctx, path)
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()
	if k == kindText {
		data, err := io.ReadAll(rc)
		if err != nil {
			return "", nil, err
		}
		return string(data), nil, nil
	}
	img, _, err := image.Decode(rc)
	if err != nil {
		return "", nil, fmt.Errorf("decode: %w", err)
	}
	return "", img, nil
}

// IsLoadingComplete reports whether every request has finished, successfully
// or not.
func (m *Manager) IsLoadingComplete() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending == 0
}

// HasErrors reports whether any finished request failed.
func (m *Manager) HasErrors() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errs) > 0
}

// Errors returns a copy of the per-path failure messages.
func (m *Manager) Errors() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.errs)
}

// Pending returns the paths whose requests have not finished.
func (m *Manager) Pending() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for p, e := range m.entries {
		if !e.done {
			out = append(out, p)
		}
	}
	return out
}

// Get returns a string for a loaded text asset, an *ebiten.Image for a
// loaded texture, or nil if path is not loaded.
func (m *Manager) Get(path string) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[path]
	if !ok || !e.done || e.err != nil {
		return nil
	}
	if e.kind == kindText {
		return e.text
	}
	return m.textureLocked(e)
}

// Text returns a loaded text asset.
func (m *Manager) Text(path string) (string, bool) {
	s, ok := m.Get(path).(string)
	return s, ok
}

// Texture returns a loaded texture, or nil.
func (m *Manager) Texture(path string) *ebiten.Image {
	tex, _ := m.Get(path).(*ebiten.Image)
	return tex
}

func (m *Manager) textureLocked(e *entry) *ebiten.Image {
	if e.tex == nil && e.img != nil {
		e.tex = ebiten.NewImageFromImage(e.img)
		e.img = nil
	}
	return e.tex
}

// Wait blocks until every request issued so far has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Dispose cancels outstanding requests and releases every texture. The
// manager is empty afterwards and may be reused.
func (m *Manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancel()
	for _, e := range m.entries {
		if e.tex != nil {
			e.tex.Deallocate()
		}
	}
	m.entries = make(map[string]*entry)
	m.errs = make(map[string]string)
	m.pending = 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
}
