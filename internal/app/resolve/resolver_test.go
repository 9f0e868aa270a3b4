package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

type fakeLoader struct {
	lastQuery string
	tracks    []track.Track
	err       error
}

func (f *fakeLoader) LoadTracks(_ context.Context, query string) ([]track.Track, error) {
	f.lastQuery = query
	return f.tracks, f.err
}

type fakeChecker struct {
	exists map[string]bool
}

func (f *fakeChecker) VideoExists(_ context.Context, id string) (bool, error) {
	return f.exists[id], nil
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "watch url",
			query: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "watch url with extra params",
			query: "https://www.youtube.com/watch?t=30&v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "short url",
			query: "https://youtu.be/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "embed url",
			query: "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "legacy v path",
			query: "https://www.youtube.com/v/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "no id",
			query: "https://www.youtube.com/feed/trending",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVideoID(tt.query))
		})
	}
}

func TestResolver_Resolve_PlaylistRejected(t *testing.T) {
	r := New(&fakeLoader{}, &fakeChecker{})

	tests := []struct {
		name  string
		query string
	}{
		{
			name:  "youtube playlist param",
			query: "https://www.youtube.com/watch?v=abc&list=PLxyz",
		},
		{
			name:  "soundcloud set",
			query: "https://soundcloud.com/artist/sets/my-mix",
		},
		{
			name:  "bracketed playlist link",
			query: "<https://www.youtube.com/playlist?list=PLxyz>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), tt.query)
			assert.ErrorIs(t, err, ErrPlaylistUnsupported)
		})
	}
}

func TestResolver_Resolve_YouTubeURL(t *testing.T) {
	loader := &fakeLoader{tracks: []track.Track{{ID: "dQw4w9WgXcQ", Title: "found"}}}
	checker := &fakeChecker{exists: map[string]bool{"dQw4w9WgXcQ": true}}
	r := New(loader, checker)

	got, err := r.Resolve(context.Background(), "<https://www.youtube.com/watch?v=dQw4w9WgXcQ>")
	require.NoError(t, err)
	assert.Equal(t, "found", got.Title)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", loader.lastQuery)
}

func TestResolver_Resolve_DeadYouTubeLink(t *testing.T) {
	r := New(&fakeLoader{}, &fakeChecker{exists: map[string]bool{}})

	_, err := r.Resolve(context.Background(), "https://www.youtube.com/watch?v=nosuchvideo")
	assert.ErrorIs(t, err, ErrInvalidVideo)
}

func TestResolver_Resolve_PlainTextSearch(t *testing.T) {
	loader := &fakeLoader{tracks: []track.Track{
		{ID: "first"},
		{ID: "second"},
	}}
	r := New(loader, &fakeChecker{})

	got, err := r.Resolve(context.Background(), "never gonna give you up")
	require.NoError(t, err)
	assert.Equal(t, "first", got.ID, "only the first result counts")
	assert.Equal(t, "ytsearch:never gonna give you up", loader.lastQuery)
}

func TestResolver_Resolve_SoundCloudPassthrough(t *testing.T) {
	loader := &fakeLoader{tracks: []track.Track{{ID: "sc"}}}
	r := New(loader, &fakeChecker{})

	_, err := r.Resolve(context.Background(), "https://soundcloud.com/artist/song")
	require.NoError(t, err)
	assert.Equal(t, "https://soundcloud.com/artist/song", loader.lastQuery)
}

func TestResolver_Resolve_NoResults(t *testing.T) {
	r := New(&fakeLoader{}, &fakeChecker{})

	_, err := r.Resolve(context.Background(), "obscure query with no hits")
	assert.ErrorIs(t, err, ErrTrackNotFound)
}

func TestResolver_Search_Limit(t *testing.T) {
	loader := &fakeLoader{tracks: []track.Track{
		{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}, {ID: "5"}, {ID: "6"}, {ID: "7"},
	}}
	r := New(loader, &fakeChecker{})

	got, err := r.Search(context.Background(), "some query", 5)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, "ytsearch:some query", loader.lastQuery)

	loader.tracks = nil
	_, err = r.Search(context.Background(), "nothing", 5)
	assert.ErrorIs(t, err, ErrTrackNotFound)
}
