// Package player provides per-guild playback sessions with integrated
// queue management on top of a remote audio node.
package player

// State represents the playback state of a session.
type State int

const (
	StateIdle      State = iota // Connected, nothing playing
	StatePlaying                // Track is playing on the node
	StatePaused                 // Track is paused on the node
	StateDestroyed              // Session torn down, no further use
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
