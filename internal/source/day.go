package source

import (
	"fmt"
	"time"
)

// DayWindow is the half-open local-time interval covering one calendar day.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// ParseDay computes the local-time window for a "YYYY-MM-DD" date string.
func ParseDay(date string) (DayWindow, error) {
	start, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return DayWindow{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	return DayWindow{Start: start, End: start.AddDate(0, 0, 1)}, nil
}

// Contains reports whether ts falls inside the day.
func (w DayWindow) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && ts.Before(w.End)
}

// Clip bounds ts into the day window.
func (w DayWindow) Clip(ts time.Time) time.Time {
	if ts.Before(w.Start) {
		return w.Start
	}
	if !ts.Before(w.End) {
		return w.End
	}
	return ts
}
