// Package resolve turns user queries into playable tracks through the
// audio node.
package resolve

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

// Errors
var (
	ErrTrackNotFound       = errors.New("no track found")
	ErrInvalidVideo        = errors.New("invalid youtube video url")
	ErrPlaylistUnsupported = errors.New("playlists are not supported")
)

const searchPrefix = "ytsearch:"

// videoIDPattern matches the video ID in the four YouTube URL shapes:
// /v/<id>, youtu.be/<id>, ?v=<id> (or &v=), and /embed/<id>.
var videoIDPattern = regexp.MustCompile(`(?:[vV]/|be/|[?&]v=|embed/)([\w-]+)`)

// Loader loads tracks from the audio node for an identifier or search query.
type Loader interface {
	LoadTracks(ctx context.Context, query string) ([]track.Track, error)
}

// Checker verifies that a YouTube video ID resolves to a real video.
type Checker interface {
	VideoExists(ctx context.Context, videoID string) (bool, error)
}

// Resolver resolves user queries to tracks.
type Resolver struct {
	loader  Loader
	checker Checker
}

// New creates a resolver over a node loader and a video existence checker.
func New(loader Loader, checker Checker) *Resolver {
	return &Resolver{loader: loader, checker: checker}
}

// Resolve resolves a query to a single track. Playlist links are an
// explicit unsupported outcome, dead YouTube links fail the existence
// check, and anything that is not a URL becomes a node search where only
// the first result counts.
func (r *Resolver) Resolve(ctx context.Context, query string) (track.Track, error) {
	query = stripBrackets(query)

	if isPlaylist(query) {
		return track.Track{}, ErrPlaylistUnsupported
	}

	source := track.ClassifySource(query)
	switch source {
	case track.SourceYouTube:
		id := ExtractVideoID(query)
		if id == "" {
			return track.Track{}, ErrInvalidVideo
		}
		exists, err := r.checker.VideoExists(ctx, id)
		if err != nil {
			return track.Track{}, err
		}
		if !exists {
			return track.Track{}, ErrInvalidVideo
		}
		query = "https://youtu.be/" + id
	case track.SourceSoundCloud:
		// soundcloud links load as-is
	default:
		query = searchPrefix + query
	}

	tracks, err := r.loader.LoadTracks(ctx, query)
	if err != nil {
		return track.Track{}, err
	}
	if len(tracks) == 0 {
		return track.Track{}, ErrTrackNotFound
	}
	return tracks[0], nil
}

// Search returns up to limit search results for a plain-text query.
func (r *Resolver) Search(ctx context.Context, query string, limit int) ([]track.Track, error) {
	query = stripBrackets(query)

	tracks, err := r.loader.LoadTracks(ctx, searchPrefix+query)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, ErrTrackNotFound
	}
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

// ExtractVideoID pulls the video ID out of a YouTube URL. Returns "" when
// none of the known URL shapes match.
func ExtractVideoID(query string) string {
	m := videoIDPattern.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return m[1]
}

// stripBrackets drops the <> characters Discord uses to suppress embeds.
func stripBrackets(query string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(query)
}

// isPlaylist reports whether a query targets a playlist: a `list` query
// parameter (YouTube) or a `sets` path segment (SoundCloud).
func isPlaylist(query string) bool {
	u, err := url.Parse(query)
	if err != nil {
		return false
	}
	if u.Query().Get("list") != "" {
		return true
	}
	for _, part := range strings.Split(u.Path, "/") {
		if part == "sets" {
			return true
		}
	}
	return false
}
