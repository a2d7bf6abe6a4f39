package skelwidget

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action    string `json:"action"`
	Target    string `json:"target,omitempty"` // container id; empty means every widget
	Label     string `json:"label,omitempty"`
	Animation string `json:"animation,omitempty"`
	Frames    int    `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences widget commands and screenshots across ticks for
// automated visual testing. Attach to a Host via SetTestRunner.
//
//	{"steps": [
//	  {"action": "wait", "frames": 30},
//	  {"action": "animation", "target": "hero", "animation": "run"},
//	  {"action": "pause"},
//	  {"action": "screenshot", "label": "paused"}
//	]}
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	errs      []error
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Host via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "wait", "pause", "play", "animation", "screenshot":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the host. The runner's step method
// is called from Host.Update before the scheduler tick.
func (h *Host) SetTestRunner(runner *TestRunner) {
	h.runner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Errors returns the failures of steps that could not be applied.
func (r *TestRunner) Errors() []error {
	return r.errs
}

// step advances the test runner by one tick. Called from Host.Update.
func (r *TestRunner) step(h *Host) {
	if r.done {
		return
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		if st.Target == "" {
			h.Screenshot(st.Label)
			break
		}
		for _, w := range r.targets(h, st) {
			path := filepath.Join(h.ScreenshotDir, fmt.Sprintf("%s_%s.png", sanitizeLabel(st.Target), sanitizeLabel(st.Label)))
			if err := w.Screenshot(path); err != nil {
				r.fail(st, err)
			}
		}
	case "pause":
		for _, w := range r.targets(h, st) {
			w.Pause()
		}
	case "play":
		for _, w := range r.targets(h, st) {
			w.Play()
		}
	case "animation":
		for _, w := range r.targets(h, st) {
			if err := w.SetAnimation(st.Animation); err != nil {
				r.fail(st, err)
			}
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *TestRunner) targets(h *Host, st testStep) []*Widget {
	if st.Target == "" {
		return h.Widgets()
	}
	c := h.Container(st.Target)
	if c == nil || c.widget == nil {
		r.fail(st, fmt.Errorf("%w: %q", ErrNoContainer, st.Target))
		return nil
	}
	return []*Widget{c.widget}
}

func (r *TestRunner) fail(st testStep, err error) {
	r.errs = append(r.errs, fmt.Errorf("step %d (%s): %w", r.cursor-1, st.Action, err))
	_, _ = fmt.Fprintf(os.Stderr, "[skelwidget] test runner: step %d (%s): %v\n", r.cursor-1, st.Action, err)
}
