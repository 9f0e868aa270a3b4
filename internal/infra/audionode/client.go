// Package audionode wraps the Lavalink client: node connection, track
// loading and per-guild playback commands.
package audionode

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
	"github.com/immortal-forest/Tune-V2/internal/infra/config"
)

// TrackStartHandler is called when the node starts playing a track.
type TrackStartHandler func(guildID snowflake.ID, t track.Track)

// TrackEndHandler is called when the node finishes, fails or stops a
// track. mayAdvance is false when the next track must not be started
// (deliberate stop or replacement).
type TrackEndHandler func(guildID snowflake.ID, t track.Track, mayAdvance bool)

// Client wraps the disgolink client.
type Client struct {
	link disgolink.Client
}

// New creates an audio node client. Track stuck and exception events are
// folded into the end handler so a broken track never wedges the queue.
func New(appID snowflake.ID, onStart TrackStartHandler, onEnd TrackEndHandler) *Client {
	c := &Client{}
	c.link = disgolink.New(appID,
		disgolink.WithListenerFunc(func(p disgolink.Player, e lavalink.TrackStartEvent) {
			onStart(p.GuildID(), FromLavalink(e.Track))
		}),
		disgolink.WithListenerFunc(func(p disgolink.Player, e lavalink.TrackEndEvent) {
			onEnd(p.GuildID(), FromLavalink(e.Track), e.Reason.MayStartNext())
		}),
		disgolink.WithListenerFunc(func(p disgolink.Player, e lavalink.TrackExceptionEvent) {
			zlog.Error().Msgf("audionode: track exception: guild=%s track=%s error=%s", p.GuildID(), e.Track.Info.Title, e.Exception.Message)
			onEnd(p.GuildID(), FromLavalink(e.Track), true)
		}),
		disgolink.WithListenerFunc(func(p disgolink.Player, e lavalink.TrackStuckEvent) {
			zlog.Warn().Msgf("audionode: track stuck: guild=%s track=%s threshold=%s", p.GuildID(), e.Track.Info.Title, e.Threshold)
			onEnd(p.GuildID(), FromLavalink(e.Track), true)
		}),
	)
	return c
}

// Connect registers the configured node and opens its websocket.
func (c *Client) Connect(ctx context.Context, cfg config.NodeConfig) error {
	node, err := c.link.AddNode(ctx, disgolink.NodeConfig{
		Name:     "tune",
		Address:  fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		Secure:   cfg.Secure,
	})
	if err != nil {
		return errors.Wrap(err, "failed to add audio node")
	}
	zlog.Info().Msgf("audio node ready: name=%s session=%s", node.Config().Name, node.SessionID())
	return nil
}

// LoadTracks resolves an identifier (URL, playlist URL or `ytsearch:`
// query) to tracks through the node. Search results come back in ranked
// order; an empty result is not an error.
func (c *Client) LoadTracks(ctx context.Context, identifier string) ([]track.Track, error) {
	node := c.link.BestNode()
	if node == nil {
		return nil, errors.New("no audio node available")
	}

	var (
		tracks  []track.Track
		loadErr error
	)
	node.LoadTracksHandler(ctx, identifier, disgolink.NewResultHandler(
		func(t lavalink.Track) {
			tracks = []track.Track{FromLavalink(t)}
		},
		func(p lavalink.Playlist) {
			for _, t := range p.Tracks {
				tracks = append(tracks, FromLavalink(t))
			}
		},
		func(results []lavalink.Track) {
			for _, t := range results {
				tracks = append(tracks, FromLavalink(t))
			}
		},
		func() {},
		func(err error) {
			loadErr = err
		},
	))
	if loadErr != nil {
		return nil, errors.Wrapf(loadErr, "failed to load tracks: identifier=%s", identifier)
	}
	return tracks, nil
}

// PlayerFor returns the playback command adapter for a guild.
func (c *Client) PlayerFor(guildID snowflake.ID) *NodePlayer {
	return &NodePlayer{link: c.link, guildID: guildID}
}

// OnVoiceStateUpdate forwards a gateway voice state update to the node.
func (c *Client) OnVoiceStateUpdate(ctx context.Context, guildID snowflake.ID, channelID *snowflake.ID, sessionID string) {
	c.link.OnVoiceStateUpdate(ctx, guildID, channelID, sessionID)
}

// OnVoiceServerUpdate forwards a gateway voice server update to the node.
func (c *Client) OnVoiceServerUpdate(ctx context.Context, guildID snowflake.ID, token, endpoint string) {
	c.link.OnVoiceServerUpdate(ctx, guildID, token, endpoint)
}

// Close shuts down the node connections.
func (c *Client) Close() {
	c.link.Close()
}
