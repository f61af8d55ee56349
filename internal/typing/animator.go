package typing

import "time"

const (
	// TickInterval is the delay between two revealed chunks.
	TickInterval = 50 * time.Millisecond
	// PausePollInterval is how often a paused animation checks for resume.
	PausePollInterval = 100 * time.Millisecond
	// Cursor is appended to the partial text while typing.
	Cursor = "▋"
)

type Phase int

const (
	Idle Phase = iota
	Typing
	Paused
	Completed
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Typing:
		return "typing"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return "idle"
}

// State is the progress of one animation.
type State struct {
	Chunks       []string
	Cursor       int
	Displayed    string
	FullRendered string
}

// Step tells the caller what a tick did.
type Step struct {
	// Changed is set when the displayed text advanced or the animation ended.
	Changed bool
	// Reschedule asks for another tick with the same generation after Delay.
	Reschedule bool
	Delay      time.Duration
	// Done is set on the tick that completes the animation; Final then holds
	// the full rendering to display in place of the partial text.
	Done  bool
	Final string
}

// Animator drives at most one typing animation at a time. Every tick is tagged
// with a generation; ticks from an older generation are ignored, which is how
// a stopped or superseded animation loses its pending timer.
type Animator struct {
	state      *State
	phase      Phase
	generation uint64
}

// Start begins a new animation and returns the generation its ticks must
// carry. Any animation still running is discarded; callers that need its
// final rendering call Stop first.
func (a *Animator) Start(chunks []string, fullRendered string) uint64 {
	if len(chunks) == 0 {
		chunks = []string{""}
	}
	a.generation++
	a.phase = Typing
	a.state = &State{
		Chunks:       chunks,
		FullRendered: fullRendered,
	}
	return a.generation
}

// Tick reveals the next chunk. The first tick after the last chunk completes
// the animation.
func (a *Animator) Tick(generation uint64) Step {
	if !a.Active() || generation != a.generation {
		return Step{}
	}

	if a.phase == Paused {
		return Step{Reschedule: true, Delay: PausePollInterval}
	}

	s := a.state
	if s.Cursor < len(s.Chunks) {
		s.Displayed += s.Chunks[s.Cursor]
		s.Cursor++
		return Step{Changed: true, Reschedule: true, Delay: TickInterval}
	}

	final := s.FullRendered
	a.phase = Completed
	a.state = nil
	return Step{Changed: true, Done: true, Final: final}
}

// TogglePause flips between typing and paused. On resume the generation is
// bumped so that the chain left over from the pause dies and the caller
// starts a fresh one with the returned generation.
func (a *Animator) TogglePause() (paused bool, generation uint64) {
	switch a.phase {
	case Typing:
		a.phase = Paused
		return true, a.generation
	case Paused:
		a.phase = Typing
		a.generation++
		return false, a.generation
	}
	return false, a.generation
}

// Stop cancels the running animation and returns its last state so the
// caller can show the full rendering. ok is false when nothing was running.
func (a *Animator) Stop() (state State, ok bool) {
	if !a.Active() {
		return State{}, false
	}
	state = *a.state
	a.generation++
	a.phase = Cancelled
	a.state = nil
	return state, true
}

// Active reports whether an animation is typing or paused.
func (a *Animator) Active() bool {
	return a.phase == Typing || a.phase == Paused
}

func (a *Animator) Paused() bool {
	return a.phase == Paused
}

func (a *Animator) Phase() Phase {
	return a.phase
}

func (a *Animator) Generation() uint64 {
	return a.generation
}

// State returns a copy of the running animation's state.
func (a *Animator) State() (State, bool) {
	if a.state == nil {
		return State{}, false
	}
	return *a.state, true
}
