// Package timeutil splits durations into calendar-ish parts and renders them
// as short human phrases ("in 2 days, 3 hours").
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	day = 24 * time.Hour

	// calendarThreshold is where a relative phrase gives way to a date.
	calendarThreshold = 100 * day

	calendarLayout = "January 02, 2006"
)

// Parts is a duration broken into whole units.
type Parts struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Split breaks d into days, hours, minutes and seconds. Negative durations
// split to zero.
func Split(d time.Duration) Parts {
	if d <= 0 {
		return Parts{}
	}
	total := int64(d / time.Second)
	return Parts{
		Days:    int(total / 86400),
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}

// RoundToMinutes drops the seconds, rounding half a minute or more up and
// carrying into hours and days.
func (p Parts) RoundToMinutes() Parts {
	if p.Seconds >= 30 {
		p.Minutes++
	}
	p.Seconds = 0
	if p.Minutes >= 60 {
		p.Minutes -= 60
		p.Hours++
	}
	if p.Hours >= 24 {
		p.Hours -= 24
		p.Days++
	}
	return p
}

// Plural returns unit with an "s" unless n is exactly one.
func Plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// FriendlyUntil describes how long until when, seen from now. Far-off times
// (more than 100 days) render as a local calendar date instead.
func FriendlyUntil(when, now time.Time, withPrepositions bool) string {
	remaining := when.Sub(now)
	if remaining > calendarThreshold {
		return prefix("on ", withPrepositions) + when.In(time.Local).Format(calendarLayout)
	}

	parts := Split(remaining)
	if parts.Days == 0 && parts.Hours == 0 && parts.Minutes == 0 {
		return prefix("in ", withPrepositions) + unit(parts.Seconds, "second")
	}

	parts = parts.RoundToMinutes()
	var phrases []string
	for _, c := range []struct {
		n    int
		name string
	}{
		{parts.Days, "day"},
		{parts.Hours, "hour"},
		{parts.Minutes, "minute"},
	} {
		if c.n != 0 {
			phrases = append(phrases, unit(c.n, c.name))
		}
	}
	return prefix("in ", withPrepositions) + strings.Join(phrases, ", ")
}

// Until is FriendlyUntil measured from the current UTC time.
func Until(when time.Time, withPrepositions bool) string {
	return FriendlyUntil(when, time.Now().UTC(), withPrepositions)
}

func unit(n int, name string) string {
	return fmt.Sprintf("%d %s", n, Plural(name, n))
}

func prefix(word string, enabled bool) string {
	if enabled {
		return word
	}
	return ""
}
