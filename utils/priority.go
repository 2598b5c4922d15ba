package utils

import "time"

// Expire priority labels, ordered by urgency.
const (
	PriorityExpired = "expired"
	PriorityUrgent  = "urgent"
	PrioritySoon    = "soon"
	PriorityFresh   = "fresh"
)

// ExpirePriority classifies an expiry date relative to a reference date:
// expired (before), urgent (same day), soon (next day), fresh (later).
// Comparison is at date granularity; time-of-day is ignored. The four
// branches partition all inputs, so exactly one label is returned.
func ExpirePriority(expiryDate, currentDate time.Time) string {
	expiry := StartOfDay(expiryDate)
	current := StartOfDay(currentDate)

	switch {
	case expiry.Before(current):
		return PriorityExpired
	case expiry.Equal(current):
		return PriorityUrgent
	case expiry.Equal(current.AddDate(0, 0, 1)):
		return PrioritySoon
	default:
		return PriorityFresh
	}
}

// ExpirePriorityToday classifies against the real current date.
func ExpirePriorityToday(expiryDate time.Time) string {
	return ExpirePriority(expiryDate, time.Now())
}

// StartOfDay truncates to UTC midnight. Expiry dates are stored at UTC
// midnight, so every date comparison against them uses this truncation.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
