package video

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhase_CanTransition(t *testing.T) {
	assert.True(t, PhaseIdle.CanTransition(PhaseConvertingImages))
	assert.True(t, PhaseConvertingImages.CanTransition(PhaseGeneratingThumbnail))
	assert.True(t, PhaseConvertingImages.CanTransition(PhaseRendering))
	assert.True(t, PhaseGeneratingThumbnail.CanTransition(PhaseRendering))
	assert.True(t, PhaseRendering.CanTransition(PhaseDone))

	assert.False(t, PhaseIdle.CanTransition(PhaseRendering))
	assert.False(t, PhaseRendering.CanTransition(PhaseConvertingImages))

	for _, p := range []Phase{PhaseIdle, PhaseConvertingImages, PhaseGeneratingThumbnail, PhaseRendering} {
		assert.True(t, p.CanTransition(PhaseFailed), p)
	}
	for _, to := range []Phase{PhaseIdle, PhaseConvertingImages, PhaseRendering, PhaseDone} {
		assert.False(t, PhaseFailed.CanTransition(to), to)
		assert.False(t, PhaseDone.CanTransition(to), to)
	}
}

func TestTracker(t *testing.T) {
	var seen []Phase
	tr := newTracker(func(from, to Phase) { seen = append(seen, to) })

	require.NoError(t, tr.advance(PhaseConvertingImages))
	assert.Error(t, tr.advance(PhaseDone))

	boom := errors.New("boom")
	assert.Same(t, boom, tr.fail(boom))
	assert.Equal(t, PhaseFailed, tr.phase)
	assert.Error(t, tr.advance(PhaseRendering))

	assert.Equal(t, []Phase{PhaseConvertingImages, PhaseFailed}, seen)
}
