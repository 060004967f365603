package scheduler

// State is the phase of a Scheduler.
type State uint8

const (
	Idle       State = iota // No pending pass
	Expanding               // Processing units, possibly across several slices
	Committing              // Applying effects to the host
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Expanding:
		return "Expanding"
	case Committing:
		return "Committing"
	default:
		return "Unknown"
	}
}
