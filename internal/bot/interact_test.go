package bot

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

func TestPagerRegistry(t *testing.T) {
	r := newPagerRegistry()
	fetch := func() []track.Track { return listTracks(25) }

	e := r.add(snowflake.ID(1), snowflake.ID(2), "Queue", fetch)
	require.NotEmpty(t, e.id)
	assert.Equal(t, 3, e.pg.Pages())

	got, ok := r.get(e.id)
	require.True(t, ok)
	assert.Same(t, e, got)

	r.remove(e.id)
	_, ok = r.get(e.id)
	assert.False(t, ok)
}

func TestPickerRegistryTakeIsOneShot(t *testing.T) {
	r := newPickerRegistry()
	r.add(&pickerEntry{
		guildID:   snowflake.ID(1),
		channelID: snowflake.ID(2),
		messageID: snowflake.ID(3),
		userID:    snowflake.ID(4),
		results:   listTracks(5),
	})

	e, ok := r.peek(snowflake.ID(3))
	require.True(t, ok)
	assert.Equal(t, snowflake.ID(4), e.userID)

	_, ok = r.take(snowflake.ID(3))
	require.True(t, ok)
	_, ok = r.take(snowflake.ID(3))
	assert.False(t, ok)
}

func TestPickerRegistryExpiry(t *testing.T) {
	r := newPickerRegistry()
	r.add(&pickerEntry{messageID: snowflake.ID(1)})
	r.add(&pickerEntry{messageID: snowflake.ID(2)})

	assert.Empty(t, r.expired())

	// force the first entry past its deadline
	e, ok := r.peek(snowflake.ID(1))
	require.True(t, ok)
	e.deadline = time.Now().Add(-time.Second)

	expired := r.expired()
	require.Len(t, expired, 1)
	assert.Equal(t, snowflake.ID(1), expired[0].messageID)

	_, ok = r.peek(snowflake.ID(1))
	assert.False(t, ok)
	_, ok = r.peek(snowflake.ID(2))
	assert.True(t, ok)
}

func TestCommandAliases(t *testing.T) {
	tests := []struct {
		alias string
		want  string
	}{
		{"j", "join"},
		{"connect", "join"},
		{"d", "leave"},
		{"s", "search"},
		{"q", "queue"},
		{"aq", "autoqueue"},
		{"eaq", "populate"},
		{"n", "skip"},
		{"vol", "volume"},
		{"np", "nowplaying"},
		{"ls", "loops"},
		{"la", "loopq"},
		{"rm", "remove"},
		{"ps", "playerstatus"},
		{"h", "history"},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			assert.Equal(t, tt.want, commandAliases[tt.alias])
		})
	}
}
