package model

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of a device. It is persisted and
// serialized as its canonical upper-case name.
type State string

const (
	StateAvailable State = "AVAILABLE"
	StateInUse     State = "IN_USE"
	StateDisabled  State = "DISABLED"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	switch s {
	case StateAvailable, StateInUse, StateDisabled:
		return true
	default:
		return false
	}
}

// ParseState converts a textual token into a State. Tokens are matched
// case-insensitively with surrounding whitespace ignored; unknown tokens
// are rejected.
func ParseState(s string) (State, error) {
	state := State(strings.ToUpper(strings.TrimSpace(s)))
	if !state.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidState, s)
	}

	return state, nil
}

func AllStates() []State {
	return []State{StateAvailable, StateInUse, StateDisabled}
}
