package chat

// State is the submission state of a session.
type State int

const (
	// Idle accepts new input.
	Idle State = iota
	// Submitting waits for the backend to answer.
	Submitting
	// Rendering animates the answer and its sources.
	Rendering
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Rendering:
		return "rendering"
	default:
		return "unknown"
	}
}
