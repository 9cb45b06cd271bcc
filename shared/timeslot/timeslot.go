// Package timeslot holds the pure temporal primitives used by the
// availability engine and the booking write path. All comparisons treat
// ranges as half-open intervals [From, To): two ranges that merely touch
// at an endpoint do not conflict.
package timeslot

import "time"

// Range is a half-open time interval [From, To).
type Range struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Duration returns To - From.
func (r Range) Duration() time.Duration {
	return r.To.Sub(r.From)
}

// Overlaps reports whether two half-open ranges share any interior time.
// [a.From, a.To) overlaps [b.From, b.To) iff a.From < b.To && b.From < a.To.
func Overlaps(a, b Range) bool {
	return a.From.Before(b.To) && b.From.Before(a.To)
}

// OverlapsAny reports whether r overlaps any of the busy ranges.
func OverlapsAny(r Range, busy []Range) bool {
	for _, b := range busy {
		if Overlaps(r, b) {
			return true
		}
	}

	return false
}

// Generate produces the ordered candidate slots of length duration inside
// [open, close). A trailing slot that would extend past close is trimmed,
// so every returned slot fits entirely inside the window.
func Generate(open, close time.Time, duration time.Duration) []Range {
	if duration <= 0 || !close.After(open) {
		return nil
	}

	var slots []Range

	for cursor := open; !cursor.Add(duration).After(close); cursor = cursor.Add(duration) {
		slots = append(slots, Range{From: cursor, To: cursor.Add(duration)})
	}

	return slots
}

// Hours returns the fractional number of hours between from and to.
func Hours(from, to time.Time) float64 {
	return to.Sub(from).Minutes() / 60
}
