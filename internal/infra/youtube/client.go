// Package youtube provides thumbnail resolution and video existence checks
// against YouTube's static image host.
package youtube

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

const (
	// SoundCloud has no stable per-track artwork endpoint we can hit
	// anonymously, so tracks fall back to static artwork.
	soundCloudThumb = "https://r1.hiclipart.com/path/310/259/692/ksnhqtqg0mddtjejjea3rprovf-8f54861ffbc19d4eb264ce3a6740cdd6.png"
	defaultThumb    = "https://cdn.discordapp.com/avatars/980092225960702012/7bd37b51889111531a4ee267d05f48dd.png?size=1024"
)

// Client resolves YouTube video thumbnails. A thumbnail request doubles as
// an existence check: the image host answers 404 for unknown video IDs.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	// Cache of id -> exists results
	existsCache map[string]bool
	cacheMu     sync.RWMutex
}

// New creates a new thumbnail client.
func New() *Client {
	return &Client{
		baseURL:     "https://img.youtube.com/vi/",
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		existsCache: make(map[string]bool),
	}
}

// ThumbnailURL returns the medium-quality thumbnail URL for a video ID.
func (c *Client) ThumbnailURL(videoID string) string {
	return c.baseURL + videoID + "/mqdefault.jpg"
}

// VideoExists reports whether a YouTube video ID resolves to a real video,
// by probing its thumbnail on the image host.
func (c *Client) VideoExists(ctx context.Context, videoID string) (bool, error) {
	if videoID == "" {
		return false, errors.New("video id is required")
	}

	c.cacheMu.RLock()
	if exists, ok := c.existsCache[videoID]; ok {
		c.cacheMu.RUnlock()
		return exists, nil
	}
	c.cacheMu.RUnlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return false, errors.Wrap(err, "rate limiter wait failed")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.ThumbnailURL(videoID), nil)
	if err != nil {
		return false, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	exists := resp.StatusCode == http.StatusOK

	c.cacheMu.Lock()
	c.existsCache[videoID] = exists
	c.cacheMu.Unlock()
	zlog.Debug().Msgf("video existence check: id=%s exists=%v", videoID, exists)

	return exists, nil
}

// Thumbnail returns the artwork URL for a resolved track. YouTube tracks get
// their real thumbnail; other sources get static artwork.
func (c *Client) Thumbnail(t track.Track) string {
	switch t.Source {
	case track.SourceYouTube:
		return c.ThumbnailURL(t.ID)
	case track.SourceSoundCloud:
		return soundCloudThumb
	default:
		return defaultThumb
	}
}
