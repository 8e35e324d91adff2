package processing

import "time"

// DefaultMaxBackoff caps the wait between failing status polls.
const DefaultMaxBackoff = 30 * time.Second

// Backoff returns base·2^failures capped at limit. Non-positive failure counts
// return base.
func Backoff(failures int, base, limit time.Duration) time.Duration {
	if limit <= 0 {
		limit = DefaultMaxBackoff
	}
	if failures <= 0 {
		return min(base, limit)
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= limit || d <= 0 {
			return limit
		}
	}
	return d
}
