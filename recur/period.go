package recur

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/sosodev/duration"
)

// Period is an ISO 8601 duration. Calendar units are kept apart from the
// fixed part so that "P1M" lands on the same day of the next month, or on
// its last day when the month is shorter.
type Period struct {
	Years    int
	Months   int
	Days     int
	Duration time.Duration
}

var periodShape = regexp.MustCompile(`^P(\d+(\.\d+)?Y)?(\d+(\.\d+)?M)?(\d+(\.\d+)?W)?(\d+(\.\d+)?D)?(T(\d+(\.\d+)?H)?(\d+(\.\d+)?M)?(\d+(\.\d+)?S)?)?$`)

// ParsePeriod reads PnYnMnWnDTnHnMnS. Weeks fold into days; calendar parts
// must be whole numbers and seconds may be fractional.
func ParsePeriod(s string) (Period, error) {
	var p Period
	if !periodShape.MatchString(s) || s == "P" || s[len(s)-1] == 'T' {
		return p, fmt.Errorf("period %q is not PnYnMnWnDTnHnMnS", s)
	}

	d, err := duration.Parse(s)
	if err != nil {
		return p, fmt.Errorf("period %q: %w", s, err)
	}

	calendar := []struct {
		value float64
		scale int
		into  *int
	}{
		{d.Years, 1, &p.Years},
		{d.Months, 1, &p.Months},
		{d.Weeks, 7, &p.Days},
		{d.Days, 1, &p.Days},
	}
	for _, part := range calendar {
		if part.value != math.Trunc(part.value) {
			return Period{}, fmt.Errorf("period %q: calendar parts must be whole", s)
		}
		*part.into += int(part.value) * part.scale
	}
	p.Duration = time.Duration(d.Hours*float64(time.Hour)) +
		time.Duration(d.Minutes*float64(time.Minute)) +
		time.Duration(d.Seconds*float64(time.Second))

	if p.IsZero() {
		return Period{}, fmt.Errorf("period %q is empty", s)
	}
	return p, nil
}

// IsZero reports whether the period advances time at all.
func (p Period) IsZero() bool {
	return p.Years == 0 && p.Months == 0 && p.Days == 0 && p.Duration == 0
}

// shift moves t by k periods. Every step is taken from t itself, so a
// clamped month-end never drifts onto later occurrences.
func (p Period) shift(t time.Time, k int) time.Time {
	t = addMonths(t, k*(12*p.Years+p.Months))
	return t.AddDate(0, 0, k*p.Days).Add(time.Duration(k) * p.Duration)
}

// addMonths adds months, clamping the day to the end of the target month.
func addMonths(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// estimate guesses how many whole periods fit in d. It may be off by one or
// two for calendar periods; callers correct by stepping.
func (p Period) estimate(d time.Duration) int {
	approx := time.Duration(p.Years)*time.Duration(365.2425*24*float64(time.Hour)) +
		time.Duration(p.Months)*time.Duration(30.436875*24*float64(time.Hour)) +
		time.Duration(p.Days)*24*time.Hour +
		p.Duration
	if approx <= 0 || d <= 0 {
		return 0
	}
	return int(d / approx)
}
