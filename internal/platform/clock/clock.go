package clock

import "time"

// Clock abstracts wall time so recording boundaries and history
// timestamps stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports real time in UTC. History rows sort on these
// values, so every producer must agree on the zone.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
