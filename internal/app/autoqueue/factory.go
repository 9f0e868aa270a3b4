package autoqueue

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/immortal-forest/Tune-V2/internal/infra/config"
)

// NewProvidersFromConfig creates the configured recommendation providers.
// With nothing configured, a single mix provider with default settings is
// used.
func NewProvidersFromConfig(cfg *config.Config, loader RelatedLoader) ([]Provider, error) {
	pcfgs := cfg.AutoQueue.Providers
	if len(pcfgs) == 0 {
		pcfgs = []config.ProviderConfig{{Type: "mix"}}
	}

	var providers []Provider
	for i, pcfg := range pcfgs {
		var provider Provider
		var err error
		switch pcfg.Type {
		case "mix":
			provider, err = NewMixProvider(loader, pcfg.Settings)
		default:
			return nil, errors.Newf("unsupported provider type: %s (provider index %d)", pcfg.Type, i)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, type %s)", i, pcfg.Type)
		}

		providers = append(providers, provider)
		zlog.Info().Msgf("registered recommendation provider: index=%d type=%s", i+1, pcfg.Type)
	}
	return providers, nil
}
