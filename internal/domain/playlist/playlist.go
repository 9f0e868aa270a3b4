// Package playlist provides the persisted playlist entity.
package playlist

import (
	"time"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

// Item is a single saved entry of a playlist. Index is assigned by the
// store and is 1-based.
type Item struct {
	Index  int
	Title  string
	URL    string
	Source track.Source
}

// Playlist is a named, member-owned collection of saved tracks.
type Playlist struct {
	ID         string
	Name       string
	MemberID   string
	CreatedAt  time.Time
	ModifiedAt time.Time
	Items      []Item
}

// Len returns the number of saved items.
func (p Playlist) Len() int {
	return len(p.Items)
}

// ItemFromTrack converts a resolved track into a playlist item.
func ItemFromTrack(t track.Track) Item {
	return Item{
		Title:  t.Title,
		URL:    t.URI,
		Source: t.Source,
	}
}
