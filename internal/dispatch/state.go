package dispatch

// State is the dispatcher's lifecycle stage.
type State int

const (
	Idle State = iota
	Discovering
	Registered
	Dispatching
	// Succeeded means the selected runner returned normally, its status may
	// still be non-zero, or help or version output was printed.
	Succeeded
	// Failed covers discovery errors, unknown commands, parse errors and
	// runner errors or panics.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Discovering:
		return "discovering"
	case Registered:
		return "registered"
	case Dispatching:
		return "dispatching"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}
