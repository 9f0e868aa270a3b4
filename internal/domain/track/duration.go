package track

import (
	"fmt"
	"strings"
)

// FormatVerbose decomposes a duration in seconds into days/hours/minutes/
// seconds and joins the non-zero units into a phrase such as
// "2 hours, 5 minutes". A zero duration yields the empty string; callers
// display their own placeholder for that case.
func FormatVerbose(seconds int) string {
	minutes, secs := seconds/60, seconds%60
	hours, minutes := minutes/60, minutes%60
	days, hours := hours/24, hours%24

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d days", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", minutes))
	}
	if secs > 0 {
		parts = append(parts, fmt.Sprintf("%d seconds", secs))
	}

	return strings.Join(parts, ", ")
}

// FormatClock renders a duration in seconds as zero-padded "MM:SS",
// prefixed with "HH:" when hours are present and "DD:" on top of that when
// days are present.
func FormatClock(seconds int) string {
	minutes, secs := seconds/60, seconds%60
	hours, minutes := minutes/60, minutes%60
	days, hours := hours/24, hours%24

	fmtd := fmt.Sprintf("%02d:%02d", minutes, secs)
	if hours > 0 {
		fmtd = fmt.Sprintf("%02d:", hours) + fmtd
	}
	if days > 0 {
		fmtd = fmt.Sprintf("%02d:", days) + fmtd
	}
	return fmtd
}
