package typing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runToEnd(t *testing.T, a *Animator, gen uint64) []string {
	t.Helper()
	var frames []string
	for i := 0; i < 100; i++ {
		step := a.Tick(gen)
		if step.Done {
			frames = append(frames, step.Final)
			return frames
		}
		require.True(t, step.Reschedule)
		s, ok := a.State()
		require.True(t, ok)
		frames = append(frames, s.Displayed)
	}
	t.Fatal("animation did not complete")
	return nil
}

func TestAnimatorRevealsChunksInOrder(t *testing.T) {
	var a Animator
	gen := a.Start([]string{"Hi! How are you? ", "I am fine."}, "<full>")

	frames := runToEnd(t, &a, gen)
	assert.Equal(t, []string{"Hi! How are you? ", "Hi! How are you? I am fine.", "<full>"}, frames)
	assert.Equal(t, Completed, a.Phase())
	assert.False(t, a.Active())

	_, ok := a.State()
	assert.False(t, ok)
}

func TestAnimatorStaleTickAfterStop(t *testing.T) {
	var a Animator
	gen := a.Start([]string{"one. ", "two."}, "full")
	a.Tick(gen)

	state, ok := a.Stop()
	require.True(t, ok)
	assert.Equal(t, "full", state.FullRendered)
	assert.Equal(t, "one. ", state.Displayed)
	assert.Equal(t, Cancelled, a.Phase())

	assert.Equal(t, Step{}, a.Tick(gen))

	_, ok = a.Stop()
	assert.False(t, ok)
}

func TestAnimatorPauseAndResume(t *testing.T) {
	var a Animator
	gen := a.Start([]string{"a ", "b ", "c"}, "abc")
	a.Tick(gen)

	paused, same := a.TogglePause()
	assert.True(t, paused)
	assert.Equal(t, gen, same)

	step := a.Tick(gen)
	assert.Equal(t, Step{Reschedule: true, Delay: PausePollInterval}, step)
	s, _ := a.State()
	assert.Equal(t, "a ", s.Displayed)

	paused, resumed := a.TogglePause()
	assert.False(t, paused)
	assert.NotEqual(t, gen, resumed)

	// The poll scheduled while paused belongs to the old chain.
	assert.Equal(t, Step{}, a.Tick(gen))

	frames := runToEnd(t, &a, resumed)
	assert.Equal(t, []string{"a b ", "a b c", "abc"}, frames)
}

func TestAnimatorStartSupersedes(t *testing.T) {
	var a Animator
	first := a.Start([]string{"old"}, "old")
	second := a.Start([]string{"new"}, "new")

	assert.Equal(t, Step{}, a.Tick(first))
	step := a.Tick(second)
	assert.True(t, step.Changed)
	s, _ := a.State()
	assert.Equal(t, "new", s.Displayed)
}

func TestAnimatorTogglePauseWhenIdle(t *testing.T) {
	var a Animator
	paused, _ := a.TogglePause()
	assert.False(t, paused)
	assert.Equal(t, Idle, a.Phase())
}
