package history

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Relative renders t as a human label relative to now, e.g. "3 hours ago".
func Relative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
