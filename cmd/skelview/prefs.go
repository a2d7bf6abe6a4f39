package main

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	prefsObject   = "prefs"
	prefsProperty = "widgets"
)

// widgetPrefs is what the viewer remembers about one container between runs.
type widgetPrefs struct {
	Paused    bool   `yaml:"paused"`
	Animation string `yaml:"animation,omitempty"`
}

type prefs struct {
	Widgets map[string]widgetPrefs `yaml:"widgets"`
}

// propStore is the subset of *gdata.Manager the viewer uses.
type propStore interface {
	ObjectPropExists(object, property string) bool
	LoadObjectProp(object, property string) ([]byte, error)
	SaveObjectProp(object, property string, data []byte) error
}

// prefStore persists prefs. A nil store keeps prefs in memory only.
type prefStore struct {
	store propStore
	prefs prefs
}

// openPrefs opens the per-user data directory for appName. Failing to open
// it is not fatal: the viewer runs without persistence.
func openPrefs(appName string) *prefStore {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("skelview: prefs disabled: %v", err)
		return newPrefStore(nil)
	}
	return newPrefStore(m)
}

func newPrefStore(store propStore) *prefStore {
	ps := &prefStore{store: store}
	if err := ps.load(); err != nil {
		log.Printf("skelview: %v (using defaults)", err)
	}
	return ps
}

func (ps *prefStore) load() error {
	ps.prefs = prefs{Widgets: make(map[string]widgetPrefs)}
	if ps.store == nil || !ps.store.ObjectPropExists(prefsObject, prefsProperty) {
		return nil
	}
	data, err := ps.store.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}
	p, err := decodePrefs(data)
	if err != nil {
		return err
	}
	ps.prefs = p
	return nil
}

func (ps *prefStore) get(id string) (widgetPrefs, bool) {
	wp, ok := ps.prefs.Widgets[id]
	return wp, ok
}

// update changes one container's prefs and saves them.
func (ps *prefStore) update(id string, fn func(*widgetPrefs)) error {
	wp := ps.prefs.Widgets[id]
	fn(&wp)
	ps.prefs.Widgets[id] = wp
	return ps.save()
}

func (ps *prefStore) save() error {
	if ps.store == nil {
		return nil
	}
	data, err := encodePrefs(ps.prefs)
	if err != nil {
		return err
	}
	if err := ps.store.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}

func encodePrefs(p prefs) ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode prefs: %w", err)
	}
	return data, nil
}

func decodePrefs(data []byte) (prefs, error) {
	var p prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return prefs{}, fmt.Errorf("decode prefs: %w", err)
	}
	if p.Widgets == nil {
		p.Widgets = make(map[string]widgetPrefs)
	}
	return p, nil
}
