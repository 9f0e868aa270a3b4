// Package bot wires the Discord gateway to the playback sessions: the
// message command surface, the node event reactor and the voice lifecycle.
package bot

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/disgo"
	disbot "github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/immortal-forest/Tune-V2/internal/app/autoqueue"
	"github.com/immortal-forest/Tune-V2/internal/app/player"
	"github.com/immortal-forest/Tune-V2/internal/app/resolve"
	"github.com/immortal-forest/Tune-V2/internal/domain/track"
	"github.com/immortal-forest/Tune-V2/internal/infra/audionode"
	"github.com/immortal-forest/Tune-V2/internal/infra/config"
	"github.com/immortal-forest/Tune-V2/internal/infra/youtube"
)

// Bot is the Discord side of the player.
type Bot struct {
	cfg       *config.Config
	client    disbot.Client
	node      *audionode.Client
	registry  *player.Registry
	resolver  *resolve.Resolver
	populator *autoqueue.Populator
	thumbs    *youtube.Client

	pagers  *pagerRegistry
	pickers *pickerRegistry

	// last text channel a command came from, per guild; fallback announce
	// target for tracks that were not requested directly (auto-queue)
	announceMu sync.RWMutex
	announce   map[snowflake.ID]snowflake.ID
}

// New builds the bot and all of its collaborators from configuration.
func New(cfg *config.Config) (*Bot, error) {
	b := &Bot{
		cfg:      cfg,
		registry: player.NewRegistry(),
		thumbs:   youtube.New(),
		pagers:   newPagerRegistry(),
		pickers:  newPickerRegistry(),
		announce: make(map[snowflake.ID]snowflake.ID),
	}

	client, err := disgo.New(cfg.Discord.Token,
		disbot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentMessageContent,
				gateway.IntentGuildVoiceStates,
				gateway.IntentGuildMessageReactions,
			),
			gateway.WithPresenceOpts(gateway.WithListeningActivity("Tune")),
		),
		disbot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds | cache.FlagChannels | cache.FlagVoiceStates | cache.FlagMembers),
		),
		disbot.WithEventListenerFunc(b.onReady),
		disbot.WithEventListenerFunc(b.onMessageCreate),
		disbot.WithEventListenerFunc(b.onGuildVoiceStateUpdate),
		disbot.WithEventListenerFunc(b.onVoiceServerUpdate),
		disbot.WithEventListenerFunc(b.onMessageReactionAdd),
		disbot.WithEventListenerFunc(b.onComponentInteraction),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create discord client")
	}
	b.client = client

	b.node = audionode.New(client.ApplicationID(), b.onTrackStart, b.onTrackEnd)
	b.resolver = resolve.New(b.node, b.thumbs)

	providers, err := autoqueue.NewProvidersFromConfig(cfg, b.node)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create recommendation providers")
	}
	b.populator = autoqueue.NewPopulator(providers)

	return b, nil
}

// Start opens the gateway and connects the audio node.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.client.OpenGateway(ctx); err != nil {
		return errors.Wrap(err, "failed to open gateway")
	}
	if err := b.node.Connect(ctx, b.cfg.Node); err != nil {
		return errors.Wrap(err, "failed to connect audio node")
	}
	go b.janitor(ctx)
	return nil
}

// Close tears down all sessions, the node and the gateway.
func (b *Bot) Close(ctx context.Context) {
	for _, s := range b.registry.All() {
		b.registry.Remove(s.GuildID())
		if err := s.Destroy(ctx); err != nil {
			zlog.Warn().Msgf("bot: session teardown failed: guild=%s error=%v", s.GuildID(), err)
		}
	}
	b.node.Close()
	b.client.Close(ctx)
}

// connectVoice creates a session for a guild and joins the voice channel.
func (b *Bot) connectVoice(ctx context.Context, guildID, channelID snowflake.ID) (*player.Session, error) {
	s := player.NewSession(guildID, channelID, b.node.PlayerFor(guildID))
	b.registry.Put(s)
	go b.drainEvents(s)

	if err := b.client.UpdateVoiceState(ctx, guildID, &channelID, false, true); err != nil {
		b.registry.Remove(guildID)
		_ = s.Destroy(ctx)
		return nil, errors.Wrap(err, "failed to join voice channel")
	}
	zlog.Info().Msgf("bot: joined voice channel: guild=%s channel=%s", guildID, channelID)
	return s, nil
}

// disconnectVoice destroys a guild's session and leaves the voice channel.
func (b *Bot) disconnectVoice(ctx context.Context, guildID snowflake.ID) {
	s, ok := b.registry.Remove(guildID)
	if !ok {
		return
	}
	if err := b.client.UpdateVoiceState(ctx, guildID, nil, false, false); err != nil {
		zlog.Warn().Msgf("bot: voice disconnect failed: guild=%s error=%v", guildID, err)
	}
	if err := s.Destroy(ctx); err != nil {
		zlog.Warn().Msgf("bot: session destroy failed: guild=%s error=%v", guildID, err)
	}
	zlog.Info().Msgf("bot: left voice channel: guild=%s", guildID)
}

// drainEvents is the per-session event loop. One goroutine per session
// keeps the node's events for a guild in order.
func (b *Bot) drainEvents(s *player.Session) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("bot: event loop panicked: guild=%s panic=%v", s.GuildID(), r)
		}
	}()

	for ev := range s.Events() {
		switch ev.Type {
		case player.EventTrackStarted:
			b.handleTrackStarted(s, ev)
		case player.EventTrackEnded:
			b.handleTrackEnded(s, ev)
		}
	}
}

func (b *Bot) handleTrackStarted(s *player.Session, ev player.Event) {
	ctx := context.Background()

	cur, ok := s.Current()
	if !ok {
		cur = ev.Track
	}
	if cur.Thumbnail == "" {
		cur.Thumbnail = b.thumbs.Thumbnail(cur)
	}

	channelID := b.announceChannel(s.GuildID(), cur)
	if channelID != 0 {
		b.sendEmbed(channelID, nowPlayingEmbed(cur))
	}

	if s.Populate() && cur.Source == track.SourceYouTube {
		var noticeID snowflake.ID
		if channelID != 0 {
			msg, err := b.client.Rest().CreateMessage(channelID, populateNotice(cur))
			if err == nil {
				noticeID = msg.ID
			}
		}
		b.populator.Populate(ctx, s, cur)
		if noticeID != 0 {
			if err := b.client.Rest().AddReaction(channelID, noticeID, emojiDone); err != nil {
				zlog.Debug().Msgf("bot: populate reaction failed: error=%v", err)
			}
		}
	}
}

func (b *Bot) handleTrackEnded(s *player.Session, ev player.Event) {
	if !ev.MayAdvance {
		return
	}
	ctx := context.Background()

	ended, ok := s.Current()
	if !ok {
		ended = ev.Track
	}

	_, started, err := s.Advance(ctx, ended)
	if err != nil && !errors.Is(err, player.ErrDestroyed) {
		zlog.Error().Msgf("bot: advance failed: guild=%s error=%v", s.GuildID(), err)
		return
	}
	if !started {
		zlog.Debug().Msgf("bot: queue drained, going idle: guild=%s", s.GuildID())
	}
}

// announceChannel picks where to announce a track: the channel it was
// requested from, falling back to the guild's last command channel.
func (b *Bot) announceChannel(guildID snowflake.ID, t track.Track) snowflake.ID {
	if t.ChannelID != 0 {
		return t.ChannelID
	}
	b.announceMu.RLock()
	defer b.announceMu.RUnlock()
	return b.announce[guildID]
}

func (b *Bot) rememberChannel(guildID, channelID snowflake.ID) {
	b.announceMu.Lock()
	defer b.announceMu.Unlock()
	b.announce[guildID] = channelID
}

// onTrackStart and onTrackEnd run on the node websocket goroutine; they
// only enqueue into the session's channel.
func (b *Bot) onTrackStart(guildID snowflake.ID, t track.Track) {
	s, ok := b.registry.Get(guildID)
	if !ok {
		return
	}
	s.Dispatch(player.Event{Type: player.EventTrackStarted, Track: t})
}

func (b *Bot) onTrackEnd(guildID snowflake.ID, t track.Track, mayAdvance bool) {
	s, ok := b.registry.Get(guildID)
	if !ok {
		return
	}
	s.Dispatch(player.Event{Type: player.EventTrackEnded, Track: t, MayAdvance: mayAdvance})
}
