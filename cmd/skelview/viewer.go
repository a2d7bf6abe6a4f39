package main

import (
	"log"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/skelwidget"
	"github.com/phanxgames/skelwidget/discovery"
)

// viewer wraps the host with keyboard controls, hot reload and saved prefs.
type viewer struct {
	host     *skelwidget.Host
	disc     *discovery.Discoverer
	page     *discovery.Page
	pagePath string
	assetDir string
	prefs    *prefStore
	watch    *watcher
}

func newViewer(host *skelwidget.Host, page *discovery.Page, pagePath, assetDir string, prefs *prefStore) *viewer {
	v := &viewer{
		host:     host,
		disc:     discovery.New(host),
		page:     page,
		pagePath: pagePath,
		assetDir: assetDir,
		prefs:    prefs,
	}
	v.disc.OnReady = v.applyPrefs
	v.disc.OnError = func(w *skelwidget.Widget, err error) {
		log.Printf("skelview: %s: %v", w.Container().ID, err)
	}
	return v
}

// load creates the page's widgets. Elements that fail are logged and
// skipped.
func (v *viewer) load() {
	if _, err := v.disc.Load(v.page); err != nil {
		log.Printf("skelview: %v", err)
	}
}

// applyPrefs restores the saved animation and paused state of a widget once
// it is ready.
func (v *viewer) applyPrefs(w *skelwidget.Widget) {
	wp, ok := v.prefs.get(w.Container().ID)
	if !ok {
		return
	}
	if wp.Animation != "" && slices.Contains(w.Animations(), wp.Animation) {
		if err := w.SetAnimation(wp.Animation); err != nil {
			log.Printf("skelview: %v", err)
		}
	}
	if wp.Paused {
		w.Pause()
	}
}

func (v *viewer) Update() error {
	v.handleInput()
	if v.watch != nil {
		v.reload(v.watch.drain())
	}
	return v.host.Update()
}

func (v *viewer) Draw(screen *ebiten.Image) {
	v.host.Draw(screen)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.host.Layout(outsideWidth, outsideHeight)
}

// targets returns the widget under the cursor, or every widget when the
// cursor is outside all containers.
func (v *viewer) targets() []*skelwidget.Widget {
	x, y := ebiten.CursorPosition()
	if c := v.host.ContainerAt(float64(x), float64(y)); c != nil && c.Widget() != nil {
		return []*skelwidget.Widget{c.Widget()}
	}
	return v.host.Widgets()
}

func (v *viewer) handleInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		for _, w := range v.targets() {
			v.togglePause(w)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		for _, w := range v.targets() {
			v.nextAnimation(w)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		v.host.Screenshot("skelview")
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		v.host.ShowFPS = !v.host.ShowFPS
	}
}

func (v *viewer) togglePause(w *skelwidget.Widget) {
	if w.IsPlaying() {
		w.Pause()
	} else {
		w.Play()
	}
	paused := !w.IsPlaying()
	v.savePrefs(w, func(wp *widgetPrefs) { wp.Paused = paused })
}

func (v *viewer) nextAnimation(w *skelwidget.Widget) {
	if !w.Loaded() {
		return
	}
	name := nextName(w.Animations(), w.CurrentAnimation())
	if name == "" {
		return
	}
	if err := w.SetAnimation(name); err != nil {
		log.Printf("skelview: %v", err)
		return
	}
	v.savePrefs(w, func(wp *widgetPrefs) { wp.Animation = name })
}

func (v *viewer) savePrefs(w *skelwidget.Widget, fn func(*widgetPrefs)) {
	if err := v.prefs.update(w.Container().ID, fn); err != nil {
		log.Printf("skelview: %v", err)
	}
}

// nextName returns the name after current in names, wrapping around.
func nextName(names []string, current string) string {
	if len(names) == 0 {
		return ""
	}
	i := slices.Index(names, current)
	return names[(i+1)%len(names)]
}

// reload recreates the widgets whose files changed. A change to the page
// manifest reloads every widget on it.
func (v *viewer) reload(changed []string) {
	if len(changed) == 0 {
		return
	}
	reloadAll := false
	ids := make(map[string]bool)
	for _, path := range changed {
		if filepath.Clean(path) == filepath.Clean(v.pagePath) {
			reloadAll = true
			continue
		}
		for _, el := range affected(v.page, v.assetDir, path) {
			ids[el.ID] = true
		}
	}
	if reloadAll {
		page, err := discovery.LoadPage(v.pagePath)
		if err != nil {
			log.Printf("skelview: %v", err)
			return
		}
		v.page = page
	}
	for _, el := range v.page.Widgets() {
		if !reloadAll && !ids[el.ID] {
			continue
		}
		log.Printf("skelview: reloading %s", el.ID)
		if _, err := v.disc.LoadElement(el); err != nil {
			log.Printf("skelview: %s: %v", el.ID, err)
		}
	}
}

// affected returns the widget elements that read the file at path.
func affected(page *discovery.Page, assetDir, path string) []discovery.Element {
	path = filepath.Clean(path)
	var out []discovery.Element
	for _, el := range page.Widgets() {
		for _, p := range assetPaths(el) {
			if filepath.Clean(filepath.Join(assetDir, p)) == path {
				out = append(out, el)
				break
			}
		}
	}
	return out
}

// assetPaths lists the files a widget element loads.
func assetPaths(el discovery.Element) []string {
	var out []string
	if p := el.Attrs["data-json"]; p != "" {
		out = append(out, p)
	}
	if p := el.Attrs["data-atlas"]; p != "" {
		out = append(out, p, strings.TrimSuffix(p, ".atlas")+".png")
	}
	return out
}

// watchDirs lists the directories holding the page and its assets.
func watchDirs(page *discovery.Page, pagePath, assetDir string) []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	add(filepath.Dir(pagePath))
	for _, el := range page.Widgets() {
		for _, p := range assetPaths(el) {
			add(filepath.Join(assetDir, filepath.Dir(p)))
		}
	}
	return dirs
}
