package pipeline

// State is the position of the change pipeline in its cycle.
type State int32

const (
	StateIdle State = iota
	StatePendingContent
	StatePendingDiagnostics
	StateDebouncing
	StateBuilding
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePendingContent:
		return "pending-content"
	case StatePendingDiagnostics:
		return "pending-diagnostics"
	case StateDebouncing:
		return "debouncing"
	case StateBuilding:
		return "building"
	default:
		return "unknown"
	}
}
