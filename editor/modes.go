package editor

import "storymap/uid"

// State is the gesture currently in progress on the chart.
type State int

const (
	StateIdle             State = iota // No gesture
	StateDraggingNode                  // A character node follows the pointer
	StateDraggingEndpoint              // An association endpoint follows the pointer
)

// String returns the state name for display
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateDraggingNode:
		return "DRAGGING_NODE"
	case StateDraggingEndpoint:
		return "DRAGGING_ENDPOINT"
	default:
		return "UNKNOWN"
	}
}

// TargetKind tells what a pointer event landed on.
type TargetKind int

const (
	TargetNone     TargetKind = iota // Empty canvas
	TargetNode                       // A character node
	TargetEndpoint                   // An association endpoint control
)

// Target identifies the chart element under the pointer. Endpoint targets
// carry the endpoint id, not the association id.
type Target struct {
	Kind TargetKind
	ID   uid.UID
}

// NodeTarget returns a target for a character node.
func NodeTarget(id uid.UID) Target {
	return Target{Kind: TargetNode, ID: id}
}

// EndpointTarget returns a target for an association endpoint.
func EndpointTarget(id uid.UID) Target {
	return Target{Kind: TargetEndpoint, ID: id}
}
