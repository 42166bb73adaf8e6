package domain

import "time"

// AnonymityPeriod is how long author identity stays hidden after publication.
const AnonymityPeriod = 90 * 24 * time.Hour

// AnonymityWindow is the derived anonymity state of a paper.
type AnonymityWindow struct {
	// Anonymous is true while the window is open.
	Anonymous bool `json:"anonymous"`

	// EndsAt is published + AnonymityPeriod.
	EndsAt time.Time `json:"ends_at"`
}

// EvaluateAnonymity reports whether now falls inside the window that starts at published.
// The boundary is exclusive: at exactly AnonymityPeriod the paper is no longer anonymous.
func EvaluateAnonymity(published, now time.Time) AnonymityWindow {
	return AnonymityWindow{
		Anonymous: now.Sub(published) < AnonymityPeriod,
		EndsAt:    published.Add(AnonymityPeriod),
	}
}
