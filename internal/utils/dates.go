package utils

import (
	"time"
	// embedded zone database for hosts without /usr/share/zoneinfo
	_ "time/tzdata"

	"github.com/yukikurage/habit-tracker-api/internal/constants"
)

// DayOf formats t as a calendar day in loc.
func DayOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(constants.DateLayout)
}

// Today returns the calendar day containing now in loc.
func Today(now time.Time, loc *time.Location) string {
	return DayOf(now, loc)
}

// Yesterday returns the calendar day before now in loc. The arithmetic is done
// on the calendar date, so days shortened or lengthened by DST still step by one.
func Yesterday(now time.Time, loc *time.Location) string {
	return AddDays(now, loc, -1)
}

// AddDays shifts now's calendar day in loc by n days.
func AddDays(now time.Time, loc *time.Location, n int) string {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	shifted := time.Date(local.Year(), local.Month(), local.Day()+n, 12, 0, 0, 0, loc)
	return shifted.Format(constants.DateLayout)
}

// ParseDay parses a YYYY-MM-DD day at midnight in loc.
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(constants.DateLayout, day, loc)
}

// IsDay reports whether s is a well-formed calendar day.
func IsDay(s string) bool {
	_, err := time.Parse(constants.DateLayout, s)
	return err == nil
}

// LoadLocation resolves an IANA zone name, returning fallback for empty or
// unknown names.
func LoadLocation(name string, fallback *time.Location) *time.Location {
	if name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}
