package audionode

import (
	"time"

	"github.com/disgoorg/disgolink/v3/lavalink"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

// FromLavalink converts a node track into the domain entity. Requester and
// announce channel are filled in by the caller.
func FromLavalink(t lavalink.Track) track.Track {
	out := track.Track{
		ID:       t.Info.Identifier,
		Encoded:  t.Encoded,
		Title:    t.Info.Title,
		Author:   t.Info.Author,
		Source:   track.SourceFromName(t.Info.SourceName),
		Duration: time.Duration(t.Info.Length) * time.Millisecond,
	}
	if t.Info.URI != nil {
		out.URI = *t.Info.URI
	}
	if t.Info.ArtworkURL != nil {
		out.Thumbnail = *t.Info.ArtworkURL
	}
	return out
}
