package warpgrid

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in an automation script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// scriptTarget is what a ScriptRunner drives. *Game implements it.
type scriptTarget interface {
	InjectMove(x, y float64)
	InjectSweep(fromX, fromY, toX, toY float64, frames int)
	Screenshot(label string)
	Shutdown()
	pendingInjections() int
}

// ScriptRunner replays pointer moves, waits and screenshots across frames.
// Recognized actions: move, sweep, wait, screenshot, quit.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script of the form {"steps": [...]}.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "move", "sweep", "wait", "screenshot", "quit":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the script by one frame. Called at the start of Update.
func (r *ScriptRunner) step(t scriptTarget) {
	if r.done {
		return
	}
	// Let queued moves play out before advancing.
	if t.pendingInjections() > 0 {
		return
	}
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
	case "move":
		t.InjectMove(st.X, st.Y)
	case "sweep":
		t.InjectSweep(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		t.Screenshot(st.Label)
	case "quit":
		t.Shutdown()
		r.done = true
		return
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && t.pendingInjections() == 0 {
		r.done = true
	}
}
