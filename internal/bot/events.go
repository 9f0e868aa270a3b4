package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/immortal-forest/Tune-V2/internal/app/pager"
	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

func (b *Bot) onReady(e *events.Ready) {
	zlog.Info().Msgf("bot: ready: user=%s guilds=%d", e.User.Username, len(e.Guilds))
}

// onGuildVoiceStateUpdate forwards the bot's own voice state to the audio
// node and tears sessions down when the bot is kicked or left alone.
func (b *Bot) onGuildVoiceStateUpdate(e *events.GuildVoiceStateUpdate) {
	ctx := context.Background()
	guildID := e.VoiceState.GuildID

	if e.VoiceState.UserID == b.client.ApplicationID() {
		b.node.OnVoiceStateUpdate(ctx, guildID, e.VoiceState.ChannelID, e.VoiceState.SessionID)
		if e.VoiceState.ChannelID == nil {
			if s, ok := b.registry.Get(guildID); ok {
				b.registry.Remove(guildID)
				if err := s.Destroy(ctx); err != nil {
					zlog.Warn().Msgf("bot: session destroy failed: guild=%s error=%v", guildID, err)
				}
			}
			return
		}
		if s, ok := b.registry.Get(guildID); ok {
			s.Rebind(*e.VoiceState.ChannelID)
		}
		return
	}

	s, ok := b.registry.Get(guildID)
	if !ok {
		return
	}
	if b.listenerCount(guildID, s.ChannelID()) > 0 {
		return
	}
	zlog.Info().Msgf("bot: voice channel empty, leaving: guild=%s channel=%s", guildID, s.ChannelID())
	b.disconnectVoice(ctx, guildID)
}

// listenerCount counts non-bot members in a voice channel.
func (b *Bot) listenerCount(guildID, channelID snowflake.ID) int {
	count := 0
	b.client.Caches().VoiceStatesForEach(guildID, func(vs discord.VoiceState) {
		if vs.ChannelID == nil || *vs.ChannelID != channelID {
			return
		}
		if member, ok := b.client.Caches().Member(guildID, vs.UserID); ok && member.User.Bot {
			return
		}
		count++
	})
	return count
}

func (b *Bot) onVoiceServerUpdate(e *events.VoiceServerUpdate) {
	if e.Endpoint == nil {
		return
	}
	b.node.OnVoiceServerUpdate(context.Background(), e.GuildID, e.Token, *e.Endpoint)
}

// onMessageReactionAdd resolves search picker reactions into enqueued tracks.
func (b *Bot) onMessageReactionAdd(e *events.MessageReactionAdd) {
	if e.GuildID == nil || e.Emoji.Name == nil {
		return
	}

	entry, ok := b.pickers.peek(e.MessageID)
	if !ok || entry.userID != e.UserID {
		return
	}

	index := -1
	for i, emoji := range searchEmojis {
		if emoji == *e.Emoji.Name {
			index = i
			break
		}
	}
	if index < 0 || index >= len(entry.results) {
		return
	}
	if _, ok := b.pickers.take(e.MessageID); !ok {
		return
	}

	ctx := context.Background()
	if err := b.client.Rest().RemoveAllReactions(entry.channelID, entry.messageID); err != nil {
		zlog.Debug().Msgf("bot: failed to clear picker reactions: error=%v", err)
	}

	s, ok := b.registry.Get(entry.guildID)
	if !ok {
		b.sendText(entry.channelID, "Not connected to a VC. Can't add tracks to the queue.")
		return
	}

	t := entry.results[index]
	t.Requester = track.Requester{ID: e.UserID, Name: b.memberName(entry.guildID, e)}
	t.ChannelID = entry.channelID
	if t.Thumbnail == "" {
		t.Thumbnail = b.thumbs.Thumbnail(t)
	}

	if _, err := s.Enqueue(ctx, t); err != nil {
		zlog.Error().Msgf("bot: enqueue failed: guild=%s error=%v", entry.guildID, err)
		b.sendText(entry.channelID, "Couldn't play that track.")
		return
	}
	b.sendEmbed(entry.channelID, titleDescEmbed("Enqueued a track!", "**"+t.Markdown()+"**"))
}

func (b *Bot) memberName(guildID snowflake.ID, e *events.MessageReactionAdd) string {
	if e.Member != nil {
		return e.Member.User.Username
	}
	if member, ok := b.client.Caches().Member(guildID, e.UserID); ok {
		return member.User.Username
	}
	return e.UserID.String()
}

// onComponentInteraction flips pager pages via the prev/next buttons.
func (b *Bot) onComponentInteraction(e *events.ComponentInteractionCreate) {
	parts := strings.Split(e.Data.CustomID(), ":")
	if len(parts) != 3 || parts[0] != "pager" {
		return
	}
	pagerID, direction := parts[1], parts[2]

	entry, ok := b.pagers.get(pagerID)
	if !ok {
		b.disablePagerMessage(e, pagerID)
		return
	}

	items := entry.fetch()
	entry.pg.Resize(len(items))

	var err error
	if direction == "prev" {
		_, err = entry.pg.Prev()
	} else {
		_, err = entry.pg.Next()
	}
	if errors.Is(err, pager.ErrExpired) {
		b.pagers.remove(pagerID)
		b.disablePagerMessage(e, pagerID)
		return
	}

	embed, _ := trackListEmbed(entry.title, items, entry.pg.Page())
	if err := e.UpdateMessage(discord.NewMessageUpdateBuilder().
		SetEmbeds(embed).
		SetContainerComponents(pagerComponents(pagerID, false)).
		Build()); err != nil {
		zlog.Warn().Msgf("bot: pager update failed: error=%v", err)
	}
}

func (b *Bot) disablePagerMessage(e *events.ComponentInteractionCreate, pagerID string) {
	if err := e.UpdateMessage(discord.NewMessageUpdateBuilder().
		SetContainerComponents(pagerComponents(pagerID, true)).
		Build()); err != nil {
		zlog.Debug().Msgf("bot: failed to disable pager: error=%v", err)
	}
}
