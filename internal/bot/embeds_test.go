package bot

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name   string
		total  time.Duration
		played time.Duration
		want   string
	}{
		{
			name:   "start",
			total:  4 * time.Minute,
			played: 0,
			want:   "🔘▬▬▬",
		},
		{
			name:   "halfway",
			total:  4 * time.Minute,
			played: 2 * time.Minute,
			want:   "▬▬🔘▬",
		},
		{
			name:   "end clamps to last slot",
			total:  4 * time.Minute,
			played: 4 * time.Minute,
			want:   "▬▬▬🔘",
		},
		{
			name:   "past end clamps",
			total:  4 * time.Minute,
			played: 5 * time.Minute,
			want:   "▬▬▬🔘",
		},
		{
			name:   "zero total keeps knob at start",
			total:  0,
			played: time.Minute,
			want:   "🔘▬▬▬",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progressBar(tt.total, tt.played, 4))
		})
	}
}

func listTracks(n int) []track.Track {
	out := make([]track.Track, n)
	for i := range out {
		out[i] = track.Track{
			ID:    fmt.Sprintf("id%d", i+1),
			Title: fmt.Sprintf("Track %d", i+1),
			URI:   fmt.Sprintf("https://youtu.be/id%d", i+1),
		}
	}
	return out
}

func TestTrackListEmbed(t *testing.T) {
	embed, pages := trackListEmbed("Queue", listTracks(25), 3)

	assert.Equal(t, 3, pages)
	assert.Equal(t, "Queue", embed.Title)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Page 3/3", embed.Footer.Text)
	// last page holds entries 21..25, numbered from the full list
	assert.Contains(t, embed.Description, "`21.` **[Track 21](https://youtu.be/id21)**")
	assert.Contains(t, embed.Description, "`25.`")
	assert.NotContains(t, embed.Description, "`20.`")
}

func TestTrackListEmbedSinglePage(t *testing.T) {
	embed, pages := trackListEmbed("History", listTracks(2), 1)

	assert.Equal(t, 1, pages)
	assert.Contains(t, embed.Description, "`1.`")
	assert.Contains(t, embed.Description, "`2.`")
}

func TestSearchResultsEmbed(t *testing.T) {
	embed := searchResultsEmbed(listTracks(3))

	assert.Equal(t, "Tracks found", embed.Title)
	assert.Contains(t, embed.Description, "`1.` **[Track 1](https://youtu.be/id1)**")
	assert.Contains(t, embed.Description, "`3.`")
}
