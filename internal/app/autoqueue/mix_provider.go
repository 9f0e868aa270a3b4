package autoqueue

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

type MixProviderConfig struct {
	Limit int `yaml:"limit" mapstructure:"limit" default:"10" validate:"gte=1,lte=50"`
}

// MixProvider sources related tracks from YouTube's per-video mix playlist
// (the RD<id> radio list), loaded through the audio node.
type MixProvider struct {
	loader RelatedLoader
	config *MixProviderConfig
}

// NewMixProvider creates a new MixProvider.
func NewMixProvider(loader RelatedLoader, settings map[string]any) (*MixProvider, error) {
	var config MixProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	zlog.Debug().Msgf("mix provider config: %+v", config)
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &MixProvider{loader: loader, config: &config}, nil
}

// Related loads the seed's mix playlist and returns the entries that are
// neither the seed itself nor already known to the session.
func (p *MixProvider) Related(ctx context.Context, seed track.Track, excludeIDs map[string]struct{}) ([]track.Track, error) {
	if seed.Source != track.SourceYouTube || seed.ID == "" {
		return nil, nil
	}

	query := fmt.Sprintf("https://www.youtube.com/watch?v=%s&list=RD%s", seed.ID, seed.ID)
	related, err := p.loader.LoadTracks(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load mix playlist")
	}

	out := make([]track.Track, 0, len(related))
	for _, t := range related {
		if t.ID == seed.ID {
			continue
		}
		if _, seen := excludeIDs[t.ID]; seen {
			continue
		}
		out = append(out, t)
		if len(out) >= p.config.Limit {
			break
		}
	}
	return out, nil
}

// Name returns the provider name.
func (p *MixProvider) Name() string {
	return "mix"
}
