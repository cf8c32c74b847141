package playback

import (
	"fmt"
	"math"
	"time"
)

// FormatTime renders seconds as m:ss. Minutes are unbounded; NaN, infinite
// and negative inputs render as 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	minutes := int64(math.Floor(seconds / 60))
	rest := int64(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%d:%02d", minutes, rest)
}

// FormatDuration is FormatTime for a time.Duration.
func FormatDuration(d time.Duration) string {
	return FormatTime(d.Seconds())
}
