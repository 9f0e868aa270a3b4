// Package track provides the Track domain entity.
package track

import (
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Source identifies the upstream catalog a track was resolved from.
type Source int

const (
	SourceUnknown Source = iota
	SourceYouTube
	SourceSoundCloud
)

// String returns the string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceYouTube:
		return "youtube"
	case SourceSoundCloud:
		return "soundcloud"
	default:
		return "unknown"
	}
}

// ClassifySource classifies a raw query or URL by URL pattern matching.
func ClassifySource(query string) Source {
	if strings.Contains(query, "https://") && (strings.Contains(query, "youtube") || strings.Contains(query, "youtu.be")) {
		return SourceYouTube
	}
	if strings.Contains(query, "soundcloud") {
		return SourceSoundCloud
	}
	return SourceUnknown
}

// SourceFromName maps an audio-node source name to a Source.
func SourceFromName(name string) Source {
	switch strings.ToLower(name) {
	case "youtube":
		return SourceYouTube
	case "soundcloud":
		return SourceSoundCloud
	default:
		return SourceUnknown
	}
}

// Requester identifies the user who asked for a track.
type Requester struct {
	ID   snowflake.ID // Discord user ID
	Name string       // Display name
}

// Mention returns the Discord mention string for the requester.
func (r Requester) Mention() string {
	return "<@" + r.ID.String() + ">"
}

// Track represents a track resolved through the audio node.
// Identity is the external handle ID; two tracks with the same ID are the
// same track regardless of how they were resolved.
type Track struct {
	ID        string        // External identifier (video ID etc.)
	Encoded   string        // Opaque node playback handle
	Title     string        // Track title
	Author    string        // Uploader / artist name
	URI       string        // Canonical URL
	Source    Source        // Upstream catalog
	Duration  time.Duration // Track length
	Requester Requester     // Who enqueued it
	ChannelID snowflake.ID  // Text channel announcements go to
	Thumbnail string        // Thumbnail URL, set once before first display
}

// Same reports whether two tracks share the same external identity.
func (t Track) Same(other Track) bool {
	return t.ID == other.ID
}

// DurationSeconds returns the track length in whole seconds.
func (t Track) DurationSeconds() int {
	return int(t.Duration / time.Second)
}

// Markdown returns the track as a Discord markdown link.
func (t Track) Markdown() string {
	return "[" + t.Title + "](" + t.URI + ")"
}
