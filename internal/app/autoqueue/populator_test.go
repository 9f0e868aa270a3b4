package autoqueue

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immortal-forest/Tune-V2/internal/app/player"
	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

type stubProvider struct {
	name   string
	tracks []track.Track
	err    error
	calls  int
}

func (s *stubProvider) Related(_ context.Context, _ track.Track, excludeIDs map[string]struct{}) ([]track.Track, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var out []track.Track
	for _, t := range s.tracks {
		if _, seen := excludeIDs[t.ID]; !seen {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubProvider) Name() string { return s.name }

type noopNode struct{}

func (noopNode) Play(context.Context, track.Track) error { return nil }
func (noopNode) Stop(context.Context) error { return nil }
func (noopNode) Pause(context.Context, bool) error { return nil }
func (noopNode) Seek(context.Context, time.Duration) error { return nil }
func (noopNode) SetVolume(context.Context, int) error { return nil }
func (noopNode) Position() time.Duration { return 0 }
func (noopNode) Destroy(context.Context) error { return nil }

func ytTrack(id string) track.Track {
	return track.Track{ID: id, Source: track.SourceYouTube}
}

func newPopulatedSession(t *testing.T) *player.Session {
	t.Helper()
	s := player.NewSession(snowflake.ID(1), snowflake.ID(2), noopNode{})
	_, err := s.TogglePopulate()
	require.NoError(t, err)
	return s
}

func TestPopulator_AppendsUnseenTracks(t *testing.T) {
	s := newPopulatedSession(t)
	_, err := s.Enqueue(context.Background(), ytTrack("seed"))
	require.NoError(t, err)

	provider := &stubProvider{
		name:   "mix",
		tracks: []track.Track{ytTrack("r1"), ytTrack("r2")},
	}
	p := NewPopulator([]Provider{provider})

	p.Populate(context.Background(), s, ytTrack("seed"))
	assert.Len(t, s.AutoQueue(), 2)
}

func TestPopulator_SuppressesDuplicates(t *testing.T) {
	s := newPopulatedSession(t)
	ctx := context.Background()

	_, err := s.Enqueue(ctx, ytTrack("seed"))
	require.NoError(t, err)
	_, err = s.Enqueue(ctx, ytTrack("queued"))
	require.NoError(t, err)
	s.AppendAutoQueue([]track.Track{ytTrack("already-auto")})

	provider := &stubProvider{
		name: "mix",
		tracks: []track.Track{
			ytTrack("seed"),         // currently playing
			ytTrack("queued"),       // in the user queue
			ytTrack("already-auto"), // in the auto-queue
			ytTrack("fresh"),
		},
	}
	p := NewPopulator([]Provider{provider})

	p.Populate(ctx, s, ytTrack("seed"))

	auto := s.AutoQueue()
	require.Len(t, auto, 2)
	ids := map[string]bool{}
	for _, tr := range auto {
		ids[tr.ID] = true
	}
	assert.True(t, ids["already-auto"])
	assert.True(t, ids["fresh"])
}

func TestPopulator_SkipsWhenPopulateOff(t *testing.T) {
	s := player.NewSession(snowflake.ID(1), snowflake.ID(2), noopNode{})

	provider := &stubProvider{name: "mix", tracks: []track.Track{ytTrack("r1")}}
	p := NewPopulator([]Provider{provider})

	p.Populate(context.Background(), s, ytTrack("seed"))
	assert.Zero(t, provider.calls)
	assert.Empty(t, s.AutoQueue())
}

func TestPopulator_SkipsNonYouTubeSeed(t *testing.T) {
	s := newPopulatedSession(t)

	provider := &stubProvider{name: "mix", tracks: []track.Track{ytTrack("r1")}}
	p := NewPopulator([]Provider{provider})

	p.Populate(context.Background(), s, track.Track{ID: "sc", Source: track.SourceSoundCloud})
	assert.Zero(t, provider.calls)
}

func TestPopulator_SwallowsProviderFailure(t *testing.T) {
	s := newPopulatedSession(t)

	failing := &stubProvider{name: "broken", err: errors.New("upstream down")}
	working := &stubProvider{name: "mix", tracks: []track.Track{ytTrack("r1")}}
	p := NewPopulator([]Provider{failing, working})

	p.Populate(context.Background(), s, ytTrack("seed"))
	assert.Len(t, s.AutoQueue(), 1)
}

func TestMixProvider_QueryAndFiltering(t *testing.T) {
	loader := &recordingLoader{tracks: []track.Track{
		ytTrack("seed"),
		ytTrack("r1"),
		ytTrack("known"),
		ytTrack("r2"),
	}}
	provider, err := NewMixProvider(loader, map[string]any{"limit": 10})
	require.NoError(t, err)

	got, err := provider.Related(context.Background(), ytTrack("seed"), map[string]struct{}{"known": {}})
	require.NoError(t, err)

	assert.Equal(t, "https://www.youtube.com/watch?v=seed&list=RDseed", loader.lastQuery)
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r2", got[1].ID)
}

func TestMixProvider_RespectsLimit(t *testing.T) {
	loader := &recordingLoader{}
	for i := 0; i < 20; i++ {
		loader.tracks = append(loader.tracks, ytTrack(string(rune('a'+i))))
	}
	provider, err := NewMixProvider(loader, map[string]any{"limit": 3})
	require.NoError(t, err)

	got, err := provider.Related(context.Background(), ytTrack("seed"), nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestMixProvider_InvalidSettings(t *testing.T) {
	_, err := NewMixProvider(&recordingLoader{}, map[string]any{"limit": 100})
	assert.Error(t, err)
}

type recordingLoader struct {
	lastQuery string
	tracks    []track.Track
}

func (r *recordingLoader) LoadTracks(_ context.Context, query string) ([]track.Track, error) {
	r.lastQuery = query
	return r.tracks, nil
}
