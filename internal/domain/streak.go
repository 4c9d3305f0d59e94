package domain

import "time"

// DayFormat is the calendar-day layout used for streak bookkeeping.
// Days are compared as UTC date strings to avoid timezone drift.
const DayFormat = "2006-01-02"

// Streak records how many consecutive calendar days ended with every task
// completed, and the last day that was credited.
type Streak struct {
	Count             int    `json:"count"`
	LastCompletedDate string `json:"lastCompletedDate,omitempty"`
}

// IsValid checks if the streak has valid data.
func (s Streak) IsValid() bool {
	if s.Count < 0 {
		return false
	}
	if s.LastCompletedDate != "" {
		if _, err := time.Parse(DayFormat, s.LastCompletedDate); err != nil {
			return false
		}
	}
	return true
}

// Day formats a point in time as a UTC calendar-day string.
func Day(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// PreviousDay formats the calendar day exactly one day before t, in UTC.
func PreviousDay(t time.Time) string {
	return t.UTC().AddDate(0, 0, -1).Format(DayFormat)
}
