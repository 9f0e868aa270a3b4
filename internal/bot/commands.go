package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/immortal-forest/Tune-V2/internal/app/player"
	"github.com/immortal-forest/Tune-V2/internal/app/resolve"
	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

// command aliases, canonical name first
var commandAliases = map[string]string{
	"join": "join", "connect": "join", "c": "join", "j": "join",
	"leave": "leave", "disconnect": "leave", "d": "leave", "l": "leave",
	"play":   "play",
	"search": "search", "s": "search",
	"history": "history", "h": "history",
	"queue": "queue", "q": "queue",
	"autoqueue": "autoqueue", "autoq": "autoqueue", "aq": "autoqueue", "aqueue": "autoqueue",
	"populate": "populate", "eaq": "populate", "enableautoqueue": "populate",
	"skip": "skip", "next": "skip", "n": "skip",
	"volume": "volume", "vol": "volume", "v": "volume",
	"pause":  "pause",
	"resume": "resume",
	"seek":   "seek",
	"nowplaying": "nowplaying", "np": "nowplaying", "current": "nowplaying",
	"shuffle": "shuffle",
	"loops":   "loops", "ls": "loops",
	"loopq": "loopq", "lq": "loopq", "loopall": "loopq", "la": "loopq",
	"clear":  "clear",
	"remove": "remove", "rm": "remove",
	"playerstatus": "playerstatus", "ps": "playerstatus",
}

func (b *Bot) onMessageCreate(e *events.MessageCreate) {
	if e.Message.Author.Bot {
		return
	}

	name, args, ok := b.parseCommand(e.Message.Content)
	if !ok {
		return
	}

	if e.GuildID == nil {
		b.sendText(e.ChannelID, "Music is not supported in DMs.")
		return
	}
	guildID := *e.GuildID
	b.rememberChannel(guildID, e.ChannelID)

	canonical, known := commandAliases[name]
	if !known {
		return
	}
	zlog.Debug().Msgf("bot: command: guild=%s user=%s command=%s", guildID, e.Message.Author.ID, canonical)

	ctx := context.Background()
	switch canonical {
	case "join":
		b.handleJoin(ctx, e)
	case "leave":
		b.handleLeave(ctx, e)
	case "play":
		b.handlePlay(ctx, e, strings.Join(args, " "))
	case "search":
		b.handleSearch(ctx, e, strings.Join(args, " "))
	case "queue":
		b.handleList(e, "Queue", "Empty queue!")
	case "autoqueue":
		b.handleList(e, "Auto-Queue", "Empty auto-queue!")
	case "history":
		b.handleList(e, "History", "Empty history. Play something to see it here.")
	case "populate":
		b.handlePopulate(e)
	case "skip":
		b.handleSkip(ctx, e)
	case "volume":
		b.handleVolume(ctx, e, args)
	case "pause":
		b.handlePause(ctx, e)
	case "resume":
		b.handleResume(ctx, e)
	case "seek":
		b.handleSeek(ctx, e, args)
	case "nowplaying":
		b.handleNowPlaying(e)
	case "shuffle":
		b.handleShuffle(e)
	case "loops":
		b.handleLoopSingle(e)
	case "loopq":
		b.handleLoopAll(e)
	case "clear":
		b.handleClear(e)
	case "remove":
		b.handleRemove(e, args)
	case "playerstatus":
		b.handlePlayerStatus(e)
	}
}

// parseCommand strips the command prefix (or a leading bot mention) and
// splits the command word from its arguments.
func (b *Bot) parseCommand(content string) (string, []string, bool) {
	prefix := b.cfg.Discord.Prefix

	var rest string
	switch {
	case strings.HasPrefix(content, prefix):
		rest = content[len(prefix):]
	case strings.HasPrefix(content, b.mention()):
		rest = content[len(b.mention()):]
	case strings.HasPrefix(content, b.nickMention()):
		rest = content[len(b.nickMention()):]
	default:
		return "", nil, false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

func (b *Bot) mention() string {
	return "<@" + b.client.ApplicationID().String() + ">"
}

func (b *Bot) nickMention() string {
	return "<@!" + b.client.ApplicationID().String() + ">"
}

// session returns the guild's session, telling the channel off when there
// is none.
func (b *Bot) session(e *events.MessageCreate) (*player.Session, bool) {
	s, ok := b.registry.Get(*e.GuildID)
	if !ok {
		b.sendText(e.ChannelID, "Not connected to a VC.")
		return nil, false
	}
	return s, true
}

func (b *Bot) handleJoin(ctx context.Context, e *events.MessageCreate) *player.Session {
	guildID := *e.GuildID

	voice, ok := b.client.Caches().VoiceState(guildID, e.Message.Author.ID)
	if !ok || voice.ChannelID == nil {
		b.sendEmbed(e.ChannelID, titleEmbed("You're not connected to any VC"))
		return nil
	}
	target := *voice.ChannelID

	if s, ok := b.registry.Get(guildID); ok {
		if s.ChannelID() == target {
			b.sendText(e.ChannelID, "Bot is already in VC.")
			return s
		}
		// move to the caller's channel
		if err := b.client.UpdateVoiceState(ctx, guildID, &target, false, true); err != nil {
			zlog.Error().Msgf("bot: voice move failed: guild=%s error=%v", guildID, err)
			return s
		}
		s.Rebind(target)
		b.sendEmbed(e.ChannelID, titleEmbed(fmt.Sprintf("Joined: *%s*", b.channelName(target))))
		return s
	}

	s, err := b.connectVoice(ctx, guildID, target)
	if err != nil {
		zlog.Error().Msgf("bot: voice connect failed: guild=%s error=%v", guildID, err)
		b.sendText(e.ChannelID, "Couldn't join the voice channel.")
		return nil
	}
	b.sendEmbed(e.ChannelID, titleEmbed(fmt.Sprintf("Joined: *%s*", b.channelName(target))))
	return s
}

func (b *Bot) handleLeave(ctx context.Context, e *events.MessageCreate) {
	s, ok := b.registry.Get(*e.GuildID)
	if !ok {
		b.sendEmbed(e.ChannelID, titleEmbed("You're not connected to any VC"))
		return
	}
	b.sendEmbed(e.ChannelID, titleEmbed(fmt.Sprintf("Disconnected: *%s*", b.channelName(s.ChannelID()))))
	b.disconnectVoice(ctx, *e.GuildID)
}

func (b *Bot) handlePlay(ctx context.Context, e *events.MessageCreate, query string) {
	if query == "" {
		b.sendText(e.ChannelID, "Give me something to play.")
		return
	}

	s, ok := b.registry.Get(*e.GuildID)
	if !ok {
		if s = b.handleJoin(ctx, e); s == nil {
			return
		}
	}

	t, err := b.resolver.Resolve(ctx, query)
	if err != nil {
		b.sendResolveError(e.ChannelID, err)
		return
	}
	b.attachRequester(&t, e)

	if _, err := s.Enqueue(ctx, t); err != nil {
		zlog.Error().Msgf("bot: enqueue failed: guild=%s error=%v", s.GuildID(), err)
		b.sendText(e.ChannelID, "Couldn't play that track.")
		return
	}

	if err := b.client.Rest().AddReaction(e.ChannelID, e.MessageID, emojiAdded); err != nil {
		zlog.Debug().Msgf("bot: reaction failed: error=%v", err)
	}
	b.sendEmbed(e.ChannelID, titleDescEmbed("Enqueued a track!", "**"+t.Markdown()+"**"))
}

func (b *Bot) sendResolveError(channelID snowflake.ID, err error) {
	switch {
	case errors.Is(err, resolve.ErrPlaylistUnsupported):
		b.sendText(channelID, "Not supported.")
	case errors.Is(err, resolve.ErrInvalidVideo):
		b.sendText(channelID, "Invalid YouTube video url")
	case errors.Is(err, resolve.ErrTrackNotFound):
		b.sendText(channelID, "No track found.")
	default:
		zlog.Error().Msgf("bot: resolve failed: error=%v", err)
		b.sendText(channelID, "Something went wrong looking that up.")
	}
}

func (b *Bot) attachRequester(t *track.Track, e *events.MessageCreate) {
	t.Requester = track.Requester{
		ID:   e.Message.Author.ID,
		Name: e.Message.Author.Username,
	}
	t.ChannelID = e.ChannelID
	if t.Thumbnail == "" {
		t.Thumbnail = b.thumbs.Thumbnail(*t)
	}
}

func (b *Bot) handleSearch(ctx context.Context, e *events.MessageCreate, query string) {
	if query == "" {
		b.sendText(e.ChannelID, "Give me something to search for.")
		return
	}

	results, err := b.resolver.Search(ctx, query, len(searchEmojis))
	if err != nil {
		b.sendText(e.ChannelID, "No tracks found.")
		return
	}

	msg, err := b.client.Rest().CreateMessage(e.ChannelID, discord.NewMessageCreateBuilder().
		SetEmbeds(searchResultsEmbed(results)).
		Build())
	if err != nil {
		zlog.Warn().Msgf("bot: failed to send search results: error=%v", err)
		return
	}

	b.pickers.add(&pickerEntry{
		guildID:   *e.GuildID,
		channelID: e.ChannelID,
		messageID: msg.ID,
		userID:    e.Message.Author.ID,
		results:   results,
	})
	for i := range results {
		if err := b.client.Rest().AddReaction(e.ChannelID, msg.ID, searchEmojis[i]); err != nil {
			zlog.Debug().Msgf("bot: picker reaction failed: error=%v", err)
		}
	}
}

// handleList renders queue, auto-queue or history as a paginated message.
func (b *Bot) handleList(e *events.MessageCreate, title, emptyMsg string) {
	s, ok := b.session(e)
	if !ok {
		return
	}

	var fetch func() []track.Track
	switch title {
	case "Queue":
		fetch = s.Queue
	case "Auto-Queue":
		fetch = s.AutoQueue
	default:
		fetch = s.History
	}

	items := fetch()
	if len(items) == 0 {
		b.sendText(e.ChannelID, emptyMsg)
		return
	}

	embed, _ := trackListEmbed(title, items, 1)
	// the pager ID is minted before the message so the buttons can carry it
	entry := b.pagers.add(e.ChannelID, 0, title, fetch)
	msg, err := b.client.Rest().CreateMessage(e.ChannelID, discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		SetContainerComponents(pagerComponents(entry.id, false)).
		Build())
	if err != nil {
		b.pagers.remove(entry.id)
		zlog.Warn().Msgf("bot: failed to send list: error=%v", err)
		return
	}
	entry.messageID = msg.ID
}

func (b *Bot) handlePopulate(e *events.MessageCreate) {
	s, ok := b.session(e)
	if !ok {
		return
	}
	on, err := s.TogglePopulate()
	if err != nil {
		return
	}
	if on {
		b.sendEmbed(e.ChannelID, titleEmbed("Enabled Auto-Queue"))
	} else {
		b.sendEmbed(e.ChannelID, titleEmbed("Disabled Auto-Queue"))
	}
}

func (b *Bot) handleSkip(ctx context.Context, e *events.MessageCreate) {
	s, ok := b.session(e)
	if !ok {
		return
	}
	if _, err := s.Skip(ctx); err != nil {
		b.sendText(e.ChannelID, "Not playing anything at the moment.")
		return
	}
	if err := b.client.Rest().AddReaction(e.ChannelID, e.MessageID, emojiSkip); err != nil {
		zlog.Debug().Msgf("bot: reaction failed: error=%v", err)
	}
}

func (b *Bot) handleVolume(ctx context.Context, e *events.MessageCreate, args []string) {
	s, ok := b.session(e)
	if !ok {
		return
	}

	if len(args) == 0 {
		b.sendEmbed(e.ChannelID, titleDescEmbed("Player volume", fmt.Sprintf("**`%d`**", s.Volume())))
		return
	}

	value, err := strconv.Atoi(args[0])
	if err != nil {
		b.sendText(e.ChannelID, "Volume must be a number.")
		return
	}

	old := s.Volume()
	if err := s.SetVolume(ctx, value); err != nil {
		b.sendText(e.ChannelID, "Volume must be from 0-200")
		return
	}

	desc := fmt.Sprintf("**`%d`**", value)
	if old > 0 {
		pct := float64(value-old) / float64(old) * 100
		sign := ""
		if pct > 0 {
			sign = "+"
		}
		desc = fmt.Sprintf("**`%d (%s%.1f%%)`**", value, sign, pct)
	}
	b.sendEmbed(e.ChannelID, titleDescEmbed("Player volume", desc))
}

func (b *Bot) handlePause(ctx context.Context, e *events.MessageCreate) {
	s, ok := b.session(e)
	if !ok {
		return
	}
	if err := s.Pause(ctx); err != nil {
		b.sendText(e.ChannelID, "Not playing anything at the moment.")
		return
	}
	if err := b.client.Rest().AddReaction(e.ChannelID, e.MessageID, emojiPause); err != nil {
		zlog.Debug().Msgf("bot: reaction failed: error=%v", err)
	}
	b.sendEmbed(e.ChannelID, titleEmbed("Paused"))
}

func (b *Bot) handleResume(ctx context.Context, e *events.MessageCreate) {
	s, ok := b.session(e)
	if !ok {
		return
	}
	if err := s.Resume(ctx); err != nil {
		if errors.Is(err, player.ErrNotPaused) {
			b.sendText(e.ChannelID, "Player isn't paused!")
		} else {
			b.sendText(e.ChannelID, "Not playing anything at the moment.")
		}
		return
	}
	if err := b.client.Rest().AddReaction(e.ChannelID, e.MessageID, emojiResume); err != nil {
		zlog.Debug().Msgf("bot: reaction failed: error=%v", err)
	}
	b.sendEmbed(e.ChannelID, titleEmbed("Resumed"))
}

func (b *Bot) handleSeek(ctx context.Context, e *events.MessageCreate, args []string) {
	if len(args) == 0 {
		b.sendText(e.ChannelID, "Player position is required!")
		return
	}
	s, ok := b.session(e)
	if !ok {
		return
	}
	position, err := strconv.Atoi(args[0])
	if err != nil {
		b.sendText(e.ChannelID, "Position must be a number of seconds.")
		return
	}
	if position < 0 {
		b.sendText(e.ChannelID, "Seek value can't be negative.")
		return
	}
	if s.State() != player.StatePlaying {
		b.sendText(e.ChannelID, "Not playing anything at the moment.")
		return
	}
	if err := s.Seek(ctx, time.Duration(position)*time.Second); err != nil {
		b.sendText(e.ChannelID, "Not playing anything at the moment.")
		return
	}
	b.sendEmbed(e.ChannelID, titleDescEmbed("Player position", fmt.Sprintf("**`%s`**", track.FormatClock(position))))
}

func (b *Bot) handleNowPlaying(e *events.MessageCreate) {
	s, ok := b.session(e)
	if !ok {
		return
	}
	cur, ok := s.Current()
	if !ok {
		b.sendText(e.ChannelID, "Not playing anything at the moment.")
		return
	}
	b.sendEmbed(e.ChannelID, nowPlayingStatusEmbed(cur, s.Position()))
}

func (b *Bot) handleShuffle(e *events.MessageCreate) {
	s, ok := b.session(e)
	if !ok {
		return
	}
	if err := s.Shuffle(); err != nil {
		b.sendText(e.ChannelID, "Empty queue.")
		return
	}
	b.sendEmbed(e.ChannelID, titleEmbed("Shuffled the queue."))
}

func (b *Bot) handleLoopSingle(e *events.MessageCreate) {
	s, ok := b.session(e)
	if !ok {
		return
	}
	cur, playing := s.Current()
	if !playing {
		b.sendText(e.ChannelID, "Not playing anything at the moment.")
		return
	}
	on, err := s.ToggleLoopSingle()
	if err != nil {
		b.sendText(e.ChannelID, "Queue loop is enabled. Disable it to loop a single track.")
		return
	}
	if on {
		b.sendEmbed(e.ChannelID, titleDescEmbed("Looping track", "**"+cur.Markdown()+"**"))
	} else {
		b.sendEmbed(e.ChannelID, titleEmbed("Disabled single track looping"))
	}
}

func (b *Bot) handleLoopAll(e *events.MessageCreate) {
	s, ok := b.session(e)
	if !ok {
		return
	}
	if _, playing := s.Current(); !playing {
		b.sendText(e.ChannelID, "Not playing anything at the moment.")
		return
	}
	on, err := s.ToggleLoopAll()
	if err != nil {
		b.sendText(e.ChannelID, "Single track loop is enabled. Disable it to loop the queue.")
		return
	}
	if on {
		b.sendEmbed(e.ChannelID, discord.NewEmbedBuilder().
			SetTitle("Looping the queue").
			SetColor(embedColor).
			SetFooterText("Note: Tracks will be played from history if queue is empty.").
			Build())
	} else {
		b.sendEmbed(e.ChannelID, titleEmbed("Disabled queue looping"))
	}
}

func (b *Bot) handleClear(e *events.MessageCreate) {
	s, ok := b.session(e)
	if !ok {
		return
	}
	if len(s.Queue()) == 0 {
		b.sendText(e.ChannelID, "Empty queue.")
		return
	}
	if err := s.Clear(); err != nil {
		return
	}
	b.sendEmbed(e.ChannelID, titleEmbed("Cleared the queue"))
}

func (b *Bot) handleRemove(e *events.MessageCreate, args []string) {
	if len(args) == 0 {
		b.sendText(e.ChannelID, "Track's index is needed.")
		return
	}
	s, ok := b.session(e)
	if !ok {
		return
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		b.sendText(e.ChannelID, "Track's index is needed.")
		return
	}
	if len(s.Queue()) == 0 {
		b.sendText(e.ChannelID, "Empty queue.")
		return
	}
	if index < 1 {
		b.sendText(e.ChannelID, "Index can't be `0`.")
		return
	}
	removed, err := s.Remove(index)
	if err != nil {
		b.sendText(e.ChannelID, fmt.Sprintf("No track at index `%d`.", index))
		return
	}
	b.sendEmbed(e.ChannelID, titleDescEmbed("Removed a track from the queue", "**"+removed.Markdown()+"**"))
}

func (b *Bot) handlePlayerStatus(e *events.MessageCreate) {
	s, ok := b.session(e)
	if !ok {
		return
	}

	var status string
	switch s.State() {
	case player.StatePlaying:
		status = "**Playing**"
	case player.StatePaused:
		status = "**Paused**"
	default:
		status = "**Idling**"
	}

	builder := discord.NewEmbedBuilder().
		SetTitle("Player Stats").
		SetColor(embedColor)
	if cur, playing := s.Current(); playing {
		builder.AddField("Current", cur.Markdown(), false)
	}
	builder.
		AddField("Status", status, true).
		AddField("Volume", strconv.Itoa(s.Volume()), true).
		AddField("In-Queue", strconv.Itoa(len(s.Queue())), true).
		AddField("History", strconv.Itoa(len(s.History())), true).
		AddField("Latency", fmt.Sprintf("%.2f ms", float64(b.client.Gateway().Latency().Microseconds())/1000), false)
	b.sendEmbed(e.ChannelID, builder.Build())
}

func (b *Bot) channelName(channelID snowflake.ID) string {
	if ch, ok := b.client.Caches().Channel(channelID); ok {
		return ch.Name()
	}
	return channelID.String()
}
