package bot

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/immortal-forest/Tune-V2/internal/app/pager"
	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

// pickerTTL is how long a search picker accepts reactions.
const pickerTTL = 60 * time.Second

// pagerEntry is a live paginated message. fetch re-reads the backing list
// on every navigation so pages track the session's current contents.
type pagerEntry struct {
	id        string
	channelID snowflake.ID
	messageID snowflake.ID
	title     string
	fetch     func() []track.Track
	pg        *pager.Pager
}

type pagerRegistry struct {
	mu      sync.Mutex
	entries map[string]*pagerEntry
}

func newPagerRegistry() *pagerRegistry {
	return &pagerRegistry{entries: make(map[string]*pagerEntry)}
}

func (r *pagerRegistry) add(channelID, messageID snowflake.ID, title string, fetch func() []track.Track) *pagerEntry {
	e := &pagerEntry{
		id:        uuid.NewString(),
		channelID: channelID,
		messageID: messageID,
		title:     title,
		fetch:     fetch,
		pg:        pager.New(len(fetch())),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.id] = e
	return e
}

func (r *pagerRegistry) get(id string) (*pagerEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	return e, ok
}

func (r *pagerRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// expired returns and drops every pager past its deadline.
func (r *pagerRegistry) expired() []*pagerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*pagerEntry
	for id, e := range r.entries {
		if e.pg.Expired() {
			out = append(out, e)
			delete(r.entries, id)
		}
	}
	return out
}

// pickerEntry is a live search-result picker awaiting a reaction from the
// user who searched.
type pickerEntry struct {
	guildID   snowflake.ID
	channelID snowflake.ID
	messageID snowflake.ID
	userID    snowflake.ID
	results   []track.Track
	deadline  time.Time
}

type pickerRegistry struct {
	mu      sync.Mutex
	entries map[snowflake.ID]*pickerEntry // keyed by message ID
}

func newPickerRegistry() *pickerRegistry {
	return &pickerRegistry{entries: make(map[snowflake.ID]*pickerEntry)}
}

func (r *pickerRegistry) add(e *pickerEntry) {
	e.deadline = time.Now().Add(pickerTTL)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.messageID] = e
}

func (r *pickerRegistry) take(messageID snowflake.ID) (*pickerEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[messageID]
	if !ok {
		return nil, false
	}
	delete(r.entries, messageID)
	return e, true
}

func (r *pickerRegistry) peek(messageID snowflake.ID) (*pickerEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[messageID]
	return e, ok
}

func (r *pickerRegistry) expired() []*pickerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var out []*pickerEntry
	for id, e := range r.entries {
		if now.After(e.deadline) {
			out = append(out, e)
			delete(r.entries, id)
		}
	}
	return out
}

// janitor sweeps expired pagers and pickers, disabling their controls.
func (b *Bot) janitor(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, e := range b.pagers.expired() {
				_, err := b.client.Rest().UpdateMessage(e.channelID, e.messageID,
					discord.NewMessageUpdateBuilder().
						SetContainerComponents(pagerComponents(e.id, true)).
						Build())
				if err != nil {
					zlog.Debug().Msgf("bot: failed to disable pager: message=%s error=%v", e.messageID, err)
				}
			}
			for _, e := range b.pickers.expired() {
				if err := b.client.Rest().RemoveAllReactions(e.channelID, e.messageID); err != nil {
					zlog.Debug().Msgf("bot: failed to clear picker reactions: message=%s error=%v", e.messageID, err)
				}
			}
		}
	}
}
