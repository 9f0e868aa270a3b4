package audionode

import (
	"testing"
	"time"

	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/stretchr/testify/assert"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

func TestFromLavalink(t *testing.T) {
	uri := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	art := "https://img.youtube.com/vi/dQw4w9WgXcQ/mqdefault.jpg"

	got := FromLavalink(lavalink.Track{
		Encoded: "opaque-blob",
		Info: lavalink.TrackInfo{
			Identifier: "dQw4w9WgXcQ",
			Title:      "Never Gonna Give You Up",
			Author:     "Rick Astley",
			Length:     lavalink.Duration(212000),
			SourceName: "youtube",
			URI:        &uri,
			ArtworkURL: &art,
		},
	})

	assert.Equal(t, "dQw4w9WgXcQ", got.ID)
	assert.Equal(t, "opaque-blob", got.Encoded)
	assert.Equal(t, "Never Gonna Give You Up", got.Title)
	assert.Equal(t, "Rick Astley", got.Author)
	assert.Equal(t, track.SourceYouTube, got.Source)
	assert.Equal(t, 212*time.Second, got.Duration)
	assert.Equal(t, uri, got.URI)
	assert.Equal(t, art, got.Thumbnail)
}

func TestFromLavalink_NilOptionals(t *testing.T) {
	got := FromLavalink(lavalink.Track{
		Encoded: "blob",
		Info: lavalink.TrackInfo{
			Identifier: "scid",
			SourceName: "soundcloud",
		},
	})

	assert.Equal(t, track.SourceSoundCloud, got.Source)
	assert.Empty(t, got.URI)
	assert.Empty(t, got.Thumbnail)
}
