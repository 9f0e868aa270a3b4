package player

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

// Errors
var (
	ErrNoTrack      = errors.New("no track playing")
	ErrQueueEmpty   = errors.New("queue is empty")
	ErrNotPlaying   = errors.New("not playing")
	ErrNotPaused    = errors.New("not paused")
	ErrLoopConflict = errors.New("other loop mode is enabled")
	ErrBadIndex     = errors.New("no track at index")
	ErrVolumeRange  = errors.New("volume out of range")
	ErrDestroyed    = errors.New("session destroyed")
)

// VolumeMax is the upper bound accepted by SetVolume.
const VolumeMax = 200

// NodePlayer issues playback commands to the remote audio node for one
// guild. Implemented by the audionode package; faked in tests.
type NodePlayer interface {
	Play(ctx context.Context, t track.Track) error
	Stop(ctx context.Context) error
	Pause(ctx context.Context, paused bool) error
	Seek(ctx context.Context, position time.Duration) error
	SetVolume(ctx context.Context, volume int) error
	Position() time.Duration
	Destroy(ctx context.Context) error
}

// Session manages playback for a single guild. All mutations go through the
// session mutex; node commands that decide a state transition are issued
// while the lock is held so the decision and the command stay atomic.
type Session struct {
	mu sync.RWMutex

	guildID   snowflake.ID
	channelID snowflake.ID // voice channel the session is bound to
	node      NodePlayer

	queue     []track.Track
	autoQueue []track.Track
	history   []track.Track
	current   *track.Track

	state      State
	loopSingle bool
	loopAll    bool
	populate   bool
	volume     int

	eventCh chan Event
}

// NewSession creates a session for a guild bound to a voice channel.
func NewSession(guildID, channelID snowflake.ID, node NodePlayer) *Session {
	return &Session{
		guildID:   guildID,
		channelID: channelID,
		node:      node,
		state:     StateIdle,
		volume:    100,
		eventCh:   make(chan Event, 10),
	}
}

// GuildID returns the guild this session belongs to.
func (s *Session) GuildID() snowflake.ID {
	return s.guildID
}

// ChannelID returns the voice channel this session is bound to.
func (s *Session) ChannelID() snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channelID
}

// Rebind points the session at a new voice channel after the bot is moved.
// Playback state is untouched.
func (s *Session) Rebind(channelID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelID = channelID
}

// Events returns the session's event channel. Exactly one goroutine should
// drain it; events for a guild are delivered in node order.
func (s *Session) Events() <-chan Event {
	return s.eventCh
}

// Dispatch queues a node event for the session's drain goroutine.
func (s *Session) Dispatch(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return
	}
	s.sendEventLocked(ev)
}

// sendEventLocked sends an event without blocking. Must be called with lock held.
func (s *Session) sendEventLocked(ev Event) {
	select {
	case s.eventCh <- ev:
	default:
		zlog.Warn().Msgf("player: event channel full, dropping event: guild=%s type=%s", s.guildID, ev.Type)
	}
}

// Enqueue appends a track. When the session is idle it claims the playing
// transition and starts the track on the node; the returned bool reports
// whether playback started now (false means the track was queued behind
// the current one).
func (s *Session) Enqueue(ctx context.Context, t track.Track) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return false, ErrDestroyed
	}

	if s.state == StateIdle && s.current == nil {
		s.current = &t
		s.state = StatePlaying
		if err := s.node.Play(ctx, t); err != nil {
			s.current = nil
			s.state = StateIdle
			return false, err
		}
		return true, nil
	}

	s.queue = append(s.queue, t)
	return false, nil
}

// Skip seeks past the end of the current track; the node reports the end
// and the normal advance path picks the next one.
func (s *Session) Skip(ctx context.Context) (track.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return track.Track{}, ErrDestroyed
	}
	if s.current == nil {
		return track.Track{}, ErrNoTrack
	}

	skipped := *s.current
	if err := s.node.Seek(ctx, skipped.Duration+time.Millisecond); err != nil {
		return track.Track{}, err
	}
	return skipped, nil
}

// Pause pauses the current playback.
func (s *Session) Pause(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return ErrDestroyed
	}
	if s.current == nil {
		return ErrNoTrack
	}
	if s.state != StatePlaying {
		return ErrNotPlaying
	}

	if err := s.node.Pause(ctx, true); err != nil {
		return err
	}
	s.state = StatePaused
	return nil
}

// Resume resumes paused playback.
func (s *Session) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return ErrDestroyed
	}
	if s.current == nil {
		return ErrNoTrack
	}
	if s.state != StatePaused {
		return ErrNotPaused
	}

	if err := s.node.Pause(ctx, false); err != nil {
		return err
	}
	s.state = StatePlaying
	return nil
}

// Seek moves playback of the current track to the given position.
func (s *Session) Seek(ctx context.Context, position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return ErrDestroyed
	}
	if s.current == nil {
		return ErrNoTrack
	}

	return s.node.Seek(ctx, position)
}

// SetVolume sets the node volume. Accepted range is [0, VolumeMax].
func (s *Session) SetVolume(ctx context.Context, volume int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return ErrDestroyed
	}
	if volume < 0 || volume > VolumeMax {
		return ErrVolumeRange
	}

	if err := s.node.SetVolume(ctx, volume); err != nil {
		return err
	}
	s.volume = volume
	return nil
}

// Remove removes the track at the 1-based queue index.
func (s *Session) Remove(index int) (track.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return track.Track{}, ErrDestroyed
	}
	if index < 1 || index > len(s.queue) {
		return track.Track{}, ErrBadIndex
	}

	removed := s.queue[index-1]
	s.queue = append(s.queue[:index-1], s.queue[index:]...)
	return removed, nil
}

// Shuffle shuffles the user queue in place.
func (s *Session) Shuffle() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return ErrDestroyed
	}
	if len(s.queue) == 0 {
		return ErrQueueEmpty
	}

	rand.Shuffle(len(s.queue), func(i, j int) {
		s.queue[i], s.queue[j] = s.queue[j], s.queue[i]
	})
	return nil
}

// Clear drops all queued tracks, both user queue and auto-queue.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return ErrDestroyed
	}
	s.queue = nil
	s.autoQueue = nil
	return nil
}

// ToggleLoopSingle toggles single-track looping and returns the new value.
// Rejected while queue looping is enabled.
func (s *Session) ToggleLoopSingle() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return false, ErrDestroyed
	}
	if s.loopAll {
		return false, ErrLoopConflict
	}
	s.loopSingle = !s.loopSingle
	return s.loopSingle, nil
}

// ToggleLoopAll toggles queue looping and returns the new value. Rejected
// while single-track looping is enabled.
func (s *Session) ToggleLoopAll() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return false, ErrDestroyed
	}
	if s.loopSingle {
		return false, ErrLoopConflict
	}
	s.loopAll = !s.loopAll
	return s.loopAll, nil
}

// TogglePopulate toggles recommendation auto-queueing and returns the new value.
func (s *Session) TogglePopulate() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return false, ErrDestroyed
	}
	s.populate = !s.populate
	return s.populate, nil
}

// Advance reacts to the end of a track: the ended track goes to history and
// the next one starts according to loop and populate settings. Returns the
// started track, or started=false when the session went idle.
func (s *Session) Advance(ctx context.Context, ended track.Track) (next track.Track, started bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return track.Track{}, false, ErrDestroyed
	}

	s.history = append(s.history, ended)

	if s.loopSingle && s.current != nil {
		replay := *s.current
		if err := s.node.Play(ctx, replay); err != nil {
			return track.Track{}, false, err
		}
		s.state = StatePlaying
		return replay, true, nil
	}

	if len(s.queue) == 0 && s.loopAll && len(s.history) > 0 {
		// start the history over, oldest first
		s.queue = append(s.queue, s.history...)
	}

	var candidate *track.Track
	switch {
	case len(s.queue) > 0:
		candidate = &s.queue[0]
		s.queue = s.queue[1:]
	case s.populate && len(s.autoQueue) > 0:
		candidate = &s.autoQueue[0]
		s.autoQueue = s.autoQueue[1:]
	}

	if candidate == nil {
		s.current = nil
		s.state = StateIdle
		return track.Track{}, false, nil
	}

	t := *candidate
	s.current = &t
	s.state = StatePlaying
	if err := s.node.Play(ctx, t); err != nil {
		s.current = nil
		s.state = StateIdle
		return track.Track{}, false, err
	}
	return t, true, nil
}

// AppendAutoQueue adds recommendation candidates and reshuffles the
// auto-queue. Used by the populator; no-op after destroy.
func (s *Session) AppendAutoQueue(tracks []track.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return
	}
	s.autoQueue = append(s.autoQueue, tracks...)
	rand.Shuffle(len(s.autoQueue), func(i, j int) {
		s.autoQueue[i], s.autoQueue[j] = s.autoQueue[j], s.autoQueue[i]
	})
}

// KnownTrackIDs returns the IDs of every track the session has seen:
// current, queued, auto-queued and played.
func (s *Session) KnownTrackIDs() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[string]struct{}, len(s.queue)+len(s.autoQueue)+len(s.history)+1)
	if s.current != nil {
		ids[s.current.ID] = struct{}{}
	}
	for _, t := range s.queue {
		ids[t.ID] = struct{}{}
	}
	for _, t := range s.autoQueue {
		ids[t.ID] = struct{}{}
	}
	for _, t := range s.history {
		ids[t.ID] = struct{}{}
	}
	return ids
}

// Destroy tears the session down: playback stops, the node player is
// released and the event channel is closed. The session is unusable after.
func (s *Session) Destroy(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return nil
	}
	s.state = StateDestroyed
	s.current = nil
	s.queue = nil
	s.autoQueue = nil

	err := s.node.Destroy(ctx)
	close(s.eventCh)
	return err
}

// Destroyed reports whether the session has been torn down.
func (s *Session) Destroyed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateDestroyed
}

// State returns the current playback state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the currently playing track.
func (s *Session) Current() (track.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return track.Track{}, false
	}
	return *s.current, true
}

// Position returns the node-reported playback position of the current track.
func (s *Session) Position() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.node.Position()
}

// Queue returns a copy of the user queue.
func (s *Session) Queue() []track.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]track.Track, len(s.queue))
	copy(out, s.queue)
	return out
}

// AutoQueue returns a copy of the recommendation queue.
func (s *Session) AutoQueue() []track.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]track.Track, len(s.autoQueue))
	copy(out, s.autoQueue)
	return out
}

// History returns a copy of the played tracks, oldest first.
func (s *Session) History() []track.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]track.Track, len(s.history))
	copy(out, s.history)
	return out
}

// Volume returns the last volume set on the node.
func (s *Session) Volume() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// LoopSingle reports whether single-track looping is on.
func (s *Session) LoopSingle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loopSingle
}

// LoopAll reports whether queue looping is on.
func (s *Session) LoopAll() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loopAll
}

// Populate reports whether recommendation auto-queueing is on.
func (s *Session) Populate() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.populate
}
