package validation

import "slices"

// State is the validation status of the current candidate. It is one of
// Idle, Checking, Valid or Invalid.
type State interface {
	isState()
}

// Idle means there is nothing to check: no candidate, a candidate below the
// minimum length, custom-slug mode off, or a pre-vetted suggestion.
type Idle struct{}

// Checking means a validation request is outstanding for the candidate.
type Checking struct{}

// Valid means the service confirmed the candidate is available.
type Valid struct{}

// Invalid means the service rejected the candidate.
type Invalid struct {
	Reason      string
	Suggestions []string
}

func (Idle) isState()     {}
func (Checking) isState() {}
func (Valid) isState()    {}
func (Invalid) isState()  {}

// Status names the variant of s.
func Status(s State) string {
	switch s.(type) {
	case Checking:
		return "checking"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "idle"
	}
}

// Submittable reports whether a form may be submitted in state s.
func Submittable(s State) bool {
	switch s.(type) {
	case Idle, Valid, nil:
		return true
	default:
		return false
	}
}

func sameState(a, b State) bool {
	ai, aInvalid := a.(Invalid)
	bi, bInvalid := b.(Invalid)

	if aInvalid || bInvalid {
		return aInvalid && bInvalid && ai.Reason == bi.Reason && slices.Equal(ai.Suggestions, bi.Suggestions)
	}

	return Status(a) == Status(b)
}
