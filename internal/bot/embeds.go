package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	zlog "github.com/rs/zerolog/log"

	"github.com/disgoorg/snowflake/v2"

	"github.com/immortal-forest/Tune-V2/internal/app/pager"
	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

const embedColor = 0xE91E63

const (
	emojiDone   = "✅"
	emojiSkip   = "⏭"
	emojiPause  = "⏸"
	emojiResume = "▶"
	emojiAdded  = "➕"
	emojiPrev   = "⬅"
	emojiNext   = "➡"
)

// searchEmojis index search picker reactions; position maps to result index.
var searchEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣"}

func (b *Bot) sendText(channelID snowflake.ID, content string) {
	_, err := b.client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetContent(content).
		Build())
	if err != nil {
		zlog.Warn().Msgf("bot: failed to send message: channel=%s error=%v", channelID, err)
	}
}

func (b *Bot) sendEmbed(channelID snowflake.ID, embed discord.Embed) {
	_, err := b.client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		Build())
	if err != nil {
		zlog.Warn().Msgf("bot: failed to send embed: channel=%s error=%v", channelID, err)
	}
}

func titleEmbed(title string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle(title).
		SetColor(embedColor).
		Build()
}

func titleDescEmbed(title, desc string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(desc).
		SetColor(embedColor).
		Build()
}

// nowPlayingEmbed is the announcement sent when a track starts.
func nowPlayingEmbed(t track.Track) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("Now Playing!").
		SetDescription(t.Markdown()).
		SetColor(embedColor).
		AddField("Duration", track.FormatVerbose(t.DurationSeconds()), false).
		AddField("Requested by", t.Requester.Mention(), false).
		AddField("Uploader", t.Author, true).
		SetThumbnail(t.Thumbnail).
		Build()
}

// nowPlayingStatusEmbed extends the announcement with live progress.
func nowPlayingStatusEmbed(t track.Track, position time.Duration) discord.Embed {
	played := int(position.Seconds())
	return discord.NewEmbedBuilder().
		SetTitle("Now Playing!").
		SetDescription(t.Markdown()).
		SetColor(embedColor).
		AddField("Duration", track.FormatVerbose(t.DurationSeconds()), false).
		AddField("Played", track.FormatVerbose(played), false).
		AddField("Progress", progressBar(t.Duration, position, 12), false).
		AddField("Requested by", t.Requester.Mention(), false).
		AddField("Uploader", t.Author, true).
		SetThumbnail(t.Thumbnail).
		Build()
}

func populateNotice(seed track.Track) discord.MessageCreate {
	mixURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s&list=RD%s", seed.ID, seed.ID)
	return discord.NewMessageCreateBuilder().
		SetEmbeds(discord.NewEmbedBuilder().
			SetTitle("Populating auto-queue").
			SetDescriptionf("**[%s Mix](%s)**", seed.Title, mixURL).
			SetColor(embedColor).
			SetFooterText("Note: Queue takes precedence over Auto-Queue").
			Build()).
		Build()
}

// trackListEmbed renders one page of a track list with a page footer.
func trackListEmbed(title string, items []track.Track, page int) (discord.Embed, int) {
	start, end, pages := pager.Paginate(len(items), page)

	var sb strings.Builder
	for i, t := range items[start:end] {
		fmt.Fprintf(&sb, "`%d.` **%s**\n", start+i+1, t.Markdown())
	}

	return discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(sb.String()).
		SetColor(embedColor).
		SetFooterTextf("Page %d/%d", page, pages).
		Build(), pages
}

// searchResultsEmbed renders the numbered picker list.
func searchResultsEmbed(results []track.Track) discord.Embed {
	var sb strings.Builder
	for i, t := range results {
		fmt.Fprintf(&sb, "`%d.` **%s**\n", i+1, t.Markdown())
	}
	return titleDescEmbed("Tracks found", sb.String())
}

// progressBar renders a text progress bar of the given width, the knob
// marking the played portion.
func progressBar(total, played time.Duration, size int) string {
	if size < 2 {
		size = 2
	}
	filled := 0
	if total > 0 {
		filled = int(int64(size) * int64(played) / int64(total))
	}
	if filled >= size {
		filled = size - 1
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▬", filled) + "🔘" + strings.Repeat("▬", size-filled-1)
}

// pagerComponents builds the navigation row for a pager message.
func pagerComponents(pagerID string, disabled bool) discord.ContainerComponent {
	prev := discord.NewDangerButton(emojiPrev, "pager:"+pagerID+":prev")
	next := discord.NewDangerButton(emojiNext, "pager:"+pagerID+":next")
	if disabled {
		prev = prev.AsDisabled()
		next = next.AsDisabled()
	}
	return discord.NewActionRow(prev, next)
}
