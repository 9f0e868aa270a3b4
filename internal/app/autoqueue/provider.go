// Package autoqueue fills a session's recommendation queue from the
// track that just started playing.
package autoqueue

import (
	"context"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

// Provider is the interface for recommendation providers. Different
// implementations can source related tracks through various strategies.
type Provider interface {
	// Related retrieves tracks related to the seed, excluding IDs the
	// session has already seen.
	Related(ctx context.Context, seed track.Track, excludeIDs map[string]struct{}) ([]track.Track, error)

	// Name returns the provider name (used in config).
	Name() string
}

// RelatedLoader loads tracks from the audio node for an identifier.
type RelatedLoader interface {
	LoadTracks(ctx context.Context, query string) ([]track.Track, error)
}
