package player

import "github.com/immortal-forest/Tune-V2/internal/domain/track"

// EventType represents a playback event type reported by the audio node.
type EventType int

const (
	EventTrackStarted EventType = iota // Node began playing a track
	EventTrackEnded                    // Node finished, stopped or failed a track
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackStarted:
		return "track_started"
	case EventTrackEnded:
		return "track_ended"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type  EventType
	Track track.Track
	// MayAdvance is false when the node already reported a replacement or
	// the stop was deliberate, so the session must not start the next track.
	MayAdvance bool
}
