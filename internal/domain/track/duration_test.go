package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVerbose(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{
			name:    "zero",
			seconds: 0,
			want:    "",
		},
		{
			name:    "seconds only",
			seconds: 42,
			want:    "42 seconds",
		},
		{
			name:    "minutes and seconds",
			seconds: 125,
			want:    "2 minutes, 5 seconds",
		},
		{
			name:    "exact minute drops seconds",
			seconds: 180,
			want:    "3 minutes",
		},
		{
			name:    "one of each",
			seconds: 3661,
			want:    "1 hours, 1 minutes, 1 seconds",
		},
		{
			name:    "days",
			seconds: 90061,
			want:    "1 days, 1 hours, 1 minutes, 1 seconds",
		},
		{
			name:    "hours without minutes",
			seconds: 7205,
			want:    "2 hours, 5 seconds",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatVerbose(tt.seconds))
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{
			name:    "zero",
			seconds: 0,
			want:    "00:00",
		},
		{
			name:    "under a minute",
			seconds: 9,
			want:    "00:09",
		},
		{
			name:    "minutes and seconds",
			seconds: 65,
			want:    "01:05",
		},
		{
			name:    "hours prefix",
			seconds: 3665,
			want:    "01:01:05",
		},
		{
			name:    "days prefix",
			seconds: 90065,
			want:    "01:01:01:05",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatClock(tt.seconds))
		})
	}
}
