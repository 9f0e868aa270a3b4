package autoqueue

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/immortal-forest/Tune-V2/internal/app/player"
	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

// Populator feeds a session's recommendation queue when a track starts.
// Provider failures are logged and swallowed; playback is never interrupted
// by a failed recommendation fetch.
type Populator struct {
	providers []Provider
}

// NewPopulator creates a populator over the configured providers.
func NewPopulator(providers []Provider) *Populator {
	return &Populator{providers: providers}
}

// Populate fetches tracks related to the seed and appends the unseen ones
// to the session's auto-queue. Does nothing when populate is off or the
// seed is not a YouTube track. Safe to call from the event drain goroutine;
// results against a destroyed session are discarded.
func (p *Populator) Populate(ctx context.Context, s *player.Session, seed track.Track) {
	if !s.Populate() {
		return
	}
	if seed.Source != track.SourceYouTube {
		zlog.Debug().Msgf("autoqueue: seed is not a youtube track, skipping: id=%s source=%s", seed.ID, seed.Source)
		return
	}

	known := s.KnownTrackIDs()

	var collected []track.Track
	for _, provider := range p.providers {
		related, err := provider.Related(ctx, seed, known)
		if err != nil {
			zlog.Warn().Msgf("autoqueue: provider failed, trying next: provider=%s error=%v", provider.Name(), err)
			continue
		}
		for _, t := range related {
			if _, seen := known[t.ID]; seen {
				continue
			}
			known[t.ID] = struct{}{}
			collected = append(collected, t)
		}
	}

	if len(collected) == 0 {
		zlog.Debug().Msgf("autoqueue: no new candidates for seed: id=%s", seed.ID)
		return
	}

	s.AppendAutoQueue(collected)
	zlog.Info().Msgf("autoqueue: added candidates: guild=%s seed=%s count=%d", s.GuildID(), seed.ID, len(collected))
}
