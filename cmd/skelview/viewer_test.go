package main

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/phanxgames/skelwidget/discovery"
)

type memStore struct {
	props map[string][]byte
	err   error
}

func (m *memStore) ObjectPropExists(object, property string) bool {
	_, ok := m.props[object+"/"+property]
	return ok
}

func (m *memStore) LoadObjectProp(object, property string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.props[object+"/"+property], nil
}

func (m *memStore) SaveObjectProp(object, property string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.props[object+"/"+property] = data
	return nil
}

func TestPrefStore_RoundTrip(t *testing.T) {
	store := &memStore{props: map[string][]byte{}}
	ps := newPrefStore(store)
	if _, ok := ps.get("hero"); ok {
		t.Fatal("fresh store should have no prefs")
	}
	if err := ps.update("hero", func(wp *widgetPrefs) { wp.Paused = true }); err != nil {
		t.Fatal(err)
	}
	if err := ps.update("hero", func(wp *widgetPrefs) { wp.Animation = "jump" }); err != nil {
		t.Fatal(err)
	}

	reopened := newPrefStore(store)
	got, ok := reopened.get("hero")
	want := widgetPrefs{Paused: true, Animation: "jump"}
	if !ok || got != want {
		t.Errorf("prefs = %+v, want %+v", got, want)
	}
}

func TestPrefStore_NilStore(t *testing.T) {
	ps := newPrefStore(nil)
	if err := ps.update("hero", func(wp *widgetPrefs) { wp.Paused = true }); err != nil {
		t.Fatal(err)
	}
	if wp, _ := ps.get("hero"); !wp.Paused {
		t.Error("prefs should still be kept in memory")
	}
}

func TestPrefStore_Errors(t *testing.T) {
	store := &memStore{props: map[string][]byte{prefsObject + "/" + prefsProperty: []byte("widgets: [")}}
	ps := newPrefStore(store)
	if len(ps.prefs.Widgets) != 0 {
		t.Error("bad payload should fall back to empty prefs")
	}
	store.err = errors.New("disk full")
	if err := ps.update("hero", func(*widgetPrefs) {}); err == nil {
		t.Error("expected save error")
	}
}

func TestDecodePrefs(t *testing.T) {
	p, err := decodePrefs([]byte("widgets:\n  hero:\n    paused: true\n    animation: walk\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Widgets["hero"]; !got.Paused || got.Animation != "walk" {
		t.Errorf("hero = %+v", got)
	}
	p, err = decodePrefs(nil)
	if err != nil || p.Widgets == nil {
		t.Errorf("empty payload = %+v, %v", p, err)
	}
}

func TestDebouncer(t *testing.T) {
	d := newDebouncer(100 * time.Millisecond)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	steps := []struct {
		name string
		at   time.Duration
		want bool
	}{
		{"a.json", 0, true},
		{"a.json", 50 * time.Millisecond, false},
		{"b.json", 60 * time.Millisecond, true},
		{"a.json", 150 * time.Millisecond, true},
		{"a.json", 200 * time.Millisecond, false},
	}
	for i, s := range steps {
		if got := d.allow(s.name, t0.Add(s.at)); got != s.want {
			t.Errorf("step %d: allow(%s, +%v) = %v, want %v", i, s.name, s.at, got, s.want)
		}
	}
}

func TestIsWatchedFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"hero.json", true},
		{"hero.atlas", true},
		{"HERO.PNG", true},
		{"page.yml", true},
		{"hero.json~", false},
		{".hero.swp", false},
		{"README", false},
	}
	for _, tt := range tests {
		if got := isWatchedFile(tt.path); got != tt.want {
			t.Errorf("isWatchedFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNextName(t *testing.T) {
	names := []string{"idle", "walk", "jump"}
	tests := []struct {
		current, want string
	}{
		{"idle", "walk"},
		{"jump", "idle"},
		{"", "idle"},
		{"missing", "idle"},
	}
	for _, tt := range tests {
		if got := nextName(names, tt.current); got != tt.want {
			t.Errorf("nextName(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
	if got := nextName(nil, "idle"); got != "" {
		t.Errorf("nextName(nil) = %q", got)
	}
}

var testPage = &discovery.Page{Elements: []discovery.Element{
	{ID: "hero", Class: "spine-widget", Attrs: map[string]string{
		"data-json": "hero/hero.json", "data-atlas": "hero/hero.atlas",
	}},
	{ID: "goblin", Class: "spine-widget", Attrs: map[string]string{
		"data-json": "goblin/goblin.json", "data-atlas": "shared/chars.atlas",
	}},
	{ID: "twin", Class: "spine-widget", Attrs: map[string]string{
		"data-json": "twin/twin.json", "data-atlas": "shared/chars.atlas",
	}},
	{ID: "note", Class: "caption", Attrs: map[string]string{"data-json": "hero/hero.json"}},
}}

func TestAffected(t *testing.T) {
	root := filepath.FromSlash("/srv/assets")
	tests := []struct {
		path string
		want []string
	}{
		{"/srv/assets/hero/hero.json", []string{"hero"}},
		{"/srv/assets/hero/./hero.png", []string{"hero"}},
		{"/srv/assets/shared/chars.png", []string{"goblin", "twin"}},
		{"/srv/assets/goblin/goblin.atlas", nil},
		{"/elsewhere/hero/hero.json", nil},
	}
	for _, tt := range tests {
		var ids []string
		for _, el := range affected(testPage, root, filepath.FromSlash(tt.path)) {
			ids = append(ids, el.ID)
		}
		if !reflect.DeepEqual(ids, tt.want) {
			t.Errorf("affected(%s) = %v, want %v", tt.path, ids, tt.want)
		}
	}
}

func TestWatchDirs(t *testing.T) {
	got := watchDirs(testPage, filepath.FromSlash("site/page.yaml"), filepath.FromSlash("site/assets"))
	want := []string{
		"site",
		filepath.FromSlash("site/assets/hero"),
		filepath.FromSlash("site/assets/goblin"),
		filepath.FromSlash("site/assets/shared"),
		filepath.FromSlash("site/assets/twin"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("watchDirs = %v, want %v", got, want)
	}
}
