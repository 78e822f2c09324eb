package video

import "fmt"

// Phase tracks the composition stage through one attempt.
type Phase string

const (
	PhaseIdle                Phase = "idle"
	PhaseConvertingImages    Phase = "converting_images"
	PhaseGeneratingThumbnail Phase = "generating_thumbnail"
	PhaseRendering           Phase = "rendering"
	PhaseDone                Phase = "done"
	PhaseFailed              Phase = "failed"
)

var transitions = map[Phase][]Phase{
	PhaseIdle:                {PhaseConvertingImages},
	PhaseConvertingImages:    {PhaseGeneratingThumbnail, PhaseRendering},
	PhaseGeneratingThumbnail: {PhaseRendering},
	PhaseRendering:           {PhaseDone},
}

// Terminal reports whether no further transition is possible.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// CanTransition reports whether to may follow p. Failed follows any
// non-terminal phase.
func (p Phase) CanTransition(to Phase) bool {
	if p.Terminal() {
		return false
	}
	if to == PhaseFailed {
		return true
	}
	for _, next := range transitions[p] {
		if next == to {
			return true
		}
	}
	return false
}

// tracker holds the phase of a single attempt and reports each change.
type tracker struct {
	phase    Phase
	onChange func(from, to Phase)
}

func newTracker(onChange func(from, to Phase)) *tracker {
	return &tracker{phase: PhaseIdle, onChange: onChange}
}

func (t *tracker) advance(to Phase) error {
	if !t.phase.CanTransition(to) {
		return fmt.Errorf("invalid phase transition %s -> %s", t.phase, to)
	}
	from := t.phase
	t.phase = to
	if t.onChange != nil {
		t.onChange(from, to)
	}
	return nil
}

// fail moves to PhaseFailed and returns err unchanged.
func (t *tracker) fail(err error) error {
	if !t.phase.Terminal() {
		_ = t.advance(PhaseFailed)
	}
	return err
}
