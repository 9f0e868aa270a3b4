package audionode

import (
	"context"
	"time"

	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

// NodePlayer issues playback commands for one guild's node player.
type NodePlayer struct {
	link    disgolink.Client
	guildID snowflake.ID
}

// Play starts a track on the node, replacing whatever was playing.
func (p *NodePlayer) Play(ctx context.Context, t track.Track) error {
	return p.link.Player(p.guildID).Update(ctx, lavalink.WithEncodedTrack(t.Encoded))
}

// Stop clears the node's current track without disconnecting.
func (p *NodePlayer) Stop(ctx context.Context) error {
	return p.link.Player(p.guildID).Update(ctx, lavalink.WithNullTrack())
}

// Pause pauses or unpauses playback.
func (p *NodePlayer) Pause(ctx context.Context, paused bool) error {
	return p.link.Player(p.guildID).Update(ctx, lavalink.WithPaused(paused))
}

// Seek moves the current track to the given position. Seeking past the
// track's end makes the node finish it, which is how skip works.
func (p *NodePlayer) Seek(ctx context.Context, position time.Duration) error {
	return p.link.Player(p.guildID).Update(ctx, lavalink.WithPosition(lavalink.Duration(position.Milliseconds())))
}

// SetVolume sets the node volume for this guild.
func (p *NodePlayer) SetVolume(ctx context.Context, volume int) error {
	return p.link.Player(p.guildID).Update(ctx, lavalink.WithVolume(volume))
}

// Position returns the node-reported playback position.
func (p *NodePlayer) Position() time.Duration {
	pl := p.link.ExistingPlayer(p.guildID)
	if pl == nil {
		return 0
	}
	return time.Duration(pl.Position()) * time.Millisecond
}

// Destroy removes the guild's player from the node.
func (p *NodePlayer) Destroy(ctx context.Context) error {
	pl := p.link.ExistingPlayer(p.guildID)
	if pl == nil {
		return nil
	}
	return pl.Destroy(ctx)
}
