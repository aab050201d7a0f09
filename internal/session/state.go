package session

import "fmt"

// State of a quiz-taking session.
type State string

const (
	StateNotStarted  State = "not_started"
	StateLoading     State = "loading"
	StateReady       State = "ready"
	StateAnswering   State = "answering"
	StateExpired     State = "expired"
	StateSubmitting  State = "submitting"
	StateSubmitted   State = "submitted"
	StateUnavailable State = "unavailable" // question load failed or quiz has no questions
)

// Every state may go back to NotStarted (selection cleared) or Loading (another quiz selected).
var transitions = map[State][]State{
	StateNotStarted:  {StateLoading},
	StateLoading:     {StateReady, StateSubmitted, StateUnavailable},
	StateReady:       {StateAnswering, StateExpired, StateSubmitting, StateSubmitted},
	StateAnswering:   {StateAnswering, StateExpired, StateSubmitting, StateSubmitted},
	StateExpired:     {StateSubmitting, StateSubmitted},
	StateSubmitting:  {StateSubmitted, StateReady, StateAnswering, StateExpired},
	StateSubmitted:   {},
	StateUnavailable: {},
}

func (s State) CanTransitionTo(next State) bool {
	if next == StateNotStarted || next == StateLoading {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsAnswers reports whether the answer set may still be edited.
func (s State) AcceptsAnswers() bool {
	return s == StateReady || s == StateAnswering
}

// CanSubmit reports whether a submission may be attempted from this state.
func (s State) CanSubmit() bool {
	return s == StateReady || s == StateAnswering || s == StateExpired
}

func transitionError(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
