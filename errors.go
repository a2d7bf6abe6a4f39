package skelwidget

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField means a required configuration field was empty.
	ErrMissingField = errors.New("skelwidget: missing required field")
	// ErrInvalidField means a configuration field could not be used.
	ErrInvalidField = errors.New("skelwidget: invalid field")

	// ErrAssetLoad means one or more asset requests failed.
	ErrAssetLoad = errors.New("skelwidget: failed to load assets")
	// ErrUnresolvedImage means an atlas page names an image that was not loaded.
	ErrUnresolvedImage = errors.New("skelwidget: unresolved atlas image")
	// ErrUnknownSkin means the configured skin is not in the skeleton.
	ErrUnknownSkin = errors.New("skelwidget: unknown skin")
	// ErrUnknownAnimation means a requested animation is not in the skeleton.
	ErrUnknownAnimation = errors.New("skelwidget: unknown animation")
	// ErrMalformedAsset means an atlas or skeleton file could not be parsed.
	ErrMalformedAsset = errors.New("skelwidget: malformed asset")

	// ErrNotReady means an operation needs a loaded skeleton.
	ErrNotReady = errors.New("skelwidget: widget not loaded")
	// ErrNoContainer means no container has the requested id.
	ErrNoContainer = errors.New("skelwidget: no such container")
)

// ConfigError reports a configuration field that failed resolution.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Field)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AssetError reports a failure while loading or interpreting assets. Kind is
// one of the asset sentinels; Messages holds per-resource details, sorted.
type AssetError struct {
	Kind     error
	Messages []string
	Err      error
}

func (e *AssetError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *AssetError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// LifecycleError reports a widget operation called in the wrong state.
type LifecycleError struct {
	Op  string
	Err error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Op)
}

func (e *LifecycleError) Unwrap() error { return e.Err }
