// Package recur parses recurrence expressions for scheduled announcements.
//
// Two forms are understood:
//
//	R[n]/<start>/<period>    e.g. R/2026-01-05T09:00:00Z/P1W
//	R[n]/<period>/<end>      e.g. R3/PT1H/2026-01-05T12:00:00Z
//	R[n]/<start>/<end>       e.g. R/2026-01-05T09:00Z/2026-01-05T09:30Z
//
// and anything not starting with "R" is read as a standard five-field cron
// spec (or a descriptor such as "@daily" or "@every 90m"). Times without an
// offset are UTC.
package recur

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// ErrInvalid wraps every parse failure.
var ErrInvalid = errors.New("invalid recurrence")

// Rule yields occurrences.
type Rule interface {
	// Next returns the first occurrence strictly after after, or false when
	// the recurrence has no more occurrences.
	Next(after time.Time) (time.Time, bool)
}

// Parse reads expr as an ISO 8601 recurrence or, failing the "R" prefix, as
// a cron spec.
func Parse(expr string) (Rule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.Wrap(ErrInvalid, "empty expression")
	}
	if expr[0] == 'R' {
		return parseISO(expr)
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalid, "%q: %v", expr, err)
	}
	return cronRule{sched: sched}, nil
}

type cronRule struct {
	sched cron.Schedule
}

func (r cronRule) Next(after time.Time) (time.Time, bool) {
	next := r.sched.Next(after.UTC())
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}

func parseISO(expr string) (Rule, error) {
	fields := strings.Split(expr, "/")
	if len(fields) != 3 {
		return nil, errors.Wrapf(ErrInvalid, "%q: want R[n]/<a>/<b>", expr)
	}

	count := -1
	if n := fields[0][1:]; n != "" {
		v, err := strconv.Atoi(n)
		if err != nil || v < -1 {
			return nil, errors.Wrapf(ErrInvalid, "%q: bad repetition count %q", expr, n)
		}
		count = v
	}

	a, b := fields[1], fields[2]
	switch {
	case isPeriod(a):
		period, err := ParsePeriod(a)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalid, "%q: %v", expr, err)
		}
		end, err := parseTimePoint(b)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalid, "%q: %v", expr, err)
		}
		return &isoRule{anchor: end, period: period, count: count, backward: true}, nil
	case isPeriod(b):
		start, err := parseTimePoint(a)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalid, "%q: %v", expr, err)
		}
		period, err := ParsePeriod(b)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalid, "%q: %v", expr, err)
		}
		return &isoRule{anchor: start, period: period, count: count}, nil
	default:
		start, err := parseTimePoint(a)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalid, "%q: %v", expr, err)
		}
		end, err := parseTimePoint(b)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalid, "%q: %v", expr, err)
		}
		if !end.After(start) {
			return nil, errors.Wrapf(ErrInvalid, "%q: end must follow start", expr)
		}
		return &isoRule{anchor: start, period: Period{Duration: end.Sub(start)}, count: count}, nil
	}
}

func isPeriod(s string) bool {
	return strings.HasPrefix(s, "P")
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"20060102T150405Z0700",
	"20060102T150405Z",
	"20060102T1504Z",
	"2006-01-02",
}

func parseTimePoint(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time point %q", s)
}

// isoRule is a fixed sequence of occurrences anchored at start (forward) or
// at end (backward, occurrences counting down from the anchor).
type isoRule struct {
	anchor   time.Time
	period   Period
	count    int // -1 is unbounded
	backward bool
}

func (r *isoRule) at(k int) time.Time {
	if r.backward {
		return r.period.shift(r.anchor, -k)
	}
	return r.period.shift(r.anchor, k)
}

func (r *isoRule) allowed(k int) bool {
	return r.count < 0 || k < r.count
}

func (r *isoRule) Next(after time.Time) (time.Time, bool) {
	if r.count == 0 || r.period.IsZero() {
		return time.Time{}, false
	}
	if r.backward {
		return r.nextBackward(after)
	}

	k := 0
	if after.After(r.anchor) || after.Equal(r.anchor) {
		k = r.period.estimate(after.Sub(r.anchor))
	}
	for !r.at(k).After(after) {
		k++
	}
	for k > 0 && r.at(k-1).After(after) {
		k--
	}
	if !r.allowed(k) {
		return time.Time{}, false
	}
	return r.at(k), true
}

func (r *isoRule) nextBackward(after time.Time) (time.Time, bool) {
	if !r.anchor.After(after) {
		return time.Time{}, false
	}
	// Walk down from the anchor to the last occurrence still after "after".
	k := r.period.estimate(r.anchor.Sub(after))
	for k > 0 && !r.at(k).After(after) {
		k--
	}
	for r.allowed(k+1) && r.at(k+1).After(after) {
		k++
	}
	if !r.allowed(k) {
		k = r.count - 1
	}
	return r.at(k), true
}
