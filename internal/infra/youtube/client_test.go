package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 2 * time.Second},
		limiter:     rate.NewLimiter(rate.Inf, 1),
		existsCache: make(map[string]bool),
	}
}

func TestClient_VideoExists(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path == "/known/mqdefault.jpg" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL + "/")

	exists, err := c.VideoExists(context.Background(), "known")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.VideoExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	// second lookup is served from cache
	exists, err = c.VideoExists(context.Background(), "known")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 2, hits)
}

func TestClient_VideoExists_EmptyID(t *testing.T) {
	c := New()
	_, err := c.VideoExists(context.Background(), "")
	assert.Error(t, err)
}

func TestClient_Thumbnail(t *testing.T) {
	c := New()

	tests := []struct {
		name  string
		track track.Track
		want  string
	}{
		{
			name:  "youtube uses real thumbnail",
			track: track.Track{ID: "dQw4w9WgXcQ", Source: track.SourceYouTube},
			want:  "https://img.youtube.com/vi/dQw4w9WgXcQ/mqdefault.jpg",
		},
		{
			name:  "soundcloud uses static artwork",
			track: track.Track{ID: "12345", Source: track.SourceSoundCloud},
			want:  soundCloudThumb,
		},
		{
			name:  "unknown source uses default artwork",
			track: track.Track{ID: "abc", Source: track.SourceUnknown},
			want:  defaultThumb,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Thumbnail(tt.track))
		})
	}
}
