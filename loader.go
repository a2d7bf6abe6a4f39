package skelwidget

import (
	"fmt"
	"sort"
	"time"
)

// AssetManager fetches a widget's files. Loads are issued up front and the
// manager is polled once per tick until every request has finished.
type AssetManager interface {
	LoadText(path string)
	LoadTexture(path string)
	IsLoadingComplete() bool
	HasErrors() bool
	// Get returns a string for text, an *ebiten.Image for a texture, or nil.
	Get(path string) any
	// Errors maps each failed path to its message.
	Errors() map[string]string
	Dispose()
}

// LoadState is the progress of a widget's asset requests.
type LoadState uint8

const (
	LoadPending LoadState = iota
	LoadLoaded
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadLoaded:
		return "loaded"
	case LoadFailed:
		return "failed"
	default:
		return "pending"
	}
}

// loader issues a widget's three asset requests and reports when they have
// all finished.
type loader struct {
	assets  AssetManager
	paths   []string
	started time.Time
	timeout time.Duration
	settled bool
}

// beginLoad requests the atlas text, the skeleton JSON and the texture that
// sits next to the atlas.
func beginLoad(cfg WidgetConfig, assets AssetManager, now time.Time) *loader {
	l := &loader{
		assets:  assets,
		paths:   []string{cfg.Atlas, cfg.JSON, cfg.TexturePath()},
		started: now,
		timeout: cfg.LoadTimeout,
	}
	assets.LoadText(cfg.Atlas)
	assets.LoadText(cfg.JSON)
	assets.LoadTexture(cfg.TexturePath())
	return l
}

// poll checks the asset manager without blocking. settled is true on the
// first poll that observes a terminal state and false on every other poll.
func (l *loader) poll(now time.Time) (state LoadState, settled bool, err error) {
	state, err = l.state(now)
	if state != LoadPending && !l.settled {
		l.settled = true
		settled = true
	}
	return state, settled, err
}

func (l *loader) state(now time.Time) (LoadState, error) {
	if !l.assets.IsLoadingComplete() {
		if l.timeout > 0 && now.Sub(l.started) >= l.timeout {
			return LoadFailed, l.timeoutError()
		}
		return LoadPending, nil
	}
	if l.assets.HasErrors() {
		return LoadFailed, &AssetError{Kind: ErrAssetLoad, Messages: sortedMessages(l.assets.Errors())}
	}
	return LoadLoaded, nil
}

func (l *loader) timeoutError() error {
	errs := make(map[string]string)
	for p, msg := range l.assets.Errors() {
		errs[p] = msg
	}
	for _, p := range l.paths {
		if _, failed := errs[p]; failed || l.assets.Get(p) != nil {
			continue
		}
		errs[p] = fmt.Sprintf("couldn't load %s: timed out after %v", p, l.timeout)
	}
	return &AssetError{Kind: ErrAssetLoad, Messages: sortedMessages(errs)}
}

func sortedMessages(errs map[string]string) []string {
	msgs := make([]string, 0, len(errs))
	for _, m := range errs {
		msgs = append(msgs, m)
	}
	sort.Strings(msgs)
	return msgs
}
