package reminder

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var naturalParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// Absolute layouts tried before natural language. All are read as UTC.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// compactSeparators may join the tokens of a compact duration.
var compactSeparators = strings.NewReplacer(",", " ", " and ", " ")

// compactPart matches one "<n><unit>" token of shorthand like "1d 2h 30m".
var compactPart = regexp.MustCompile(`(\d+)\s*(seconds|second|secs|sec|s|minutes|minute|mins|min|m|hours|hour|hrs|hr|h|days|day|d|weeks|week|wks|wk|w)`)

// parseCompact converts "1d 2h 30m" or "1 hour and 30 minutes" into a
// duration. Every token must be a known unit.
func parseCompact(text string) (time.Duration, bool) {
	text = compactSeparators.Replace(" " + strings.ToLower(text) + " ")
	matches := compactPart.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 || strings.Join(strings.Fields(compactPart.ReplaceAllString(text, "")), "") != "" {
		return 0, false
	}

	var total time.Duration
	for _, match := range matches {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, false
		}
		switch match[2] {
		case "s", "sec", "secs", "second", "seconds":
			total += time.Second * time.Duration(value)
		case "m", "min", "mins", "minute", "minutes":
			total += time.Minute * time.Duration(value)
		case "h", "hr", "hrs", "hour", "hours":
			total += time.Hour * time.Duration(value)
		case "d", "day", "days":
			total += 24 * time.Hour * time.Duration(value)
		case "w", "wk", "wks", "week", "weeks":
			total += 7 * 24 * time.Hour * time.Duration(value)
		}
	}
	return total, total > 0
}

// ParseTime turns free text such as "in 5 minutes", "tomorrow at 9am", "2h30m"
// or "2026-12-24 18:00" into a UTC instant after now. Text that reads as a
// past time is retried with a leading "in", which recovers "5 minutes". It
// reports false when neither attempt yields a future time.
func ParseTime(text string, now time.Time) (time.Time, bool) {
	now = now.UTC()
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	if t, ok := parseOnce(text, now); ok && t.After(now) {
		return t, true
	}
	if t, ok := parseOnce("in "+text, now); ok && t.After(now) {
		return t, true
	}
	return time.Time{}, false
}

func parseOnce(text string, now time.Time) (time.Time, bool) {
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	if d, ok := parseCompact(strings.TrimPrefix(text, "in ")); ok {
		return now.Add(d), true
	}

	result, err := naturalParser.Parse(text, now)
	if err != nil || result == nil || !coversAll(text, result.Index, len(result.Text)) {
		return time.Time{}, false
	}
	return result.Time.UTC(), true
}

// naturalFiller may surround a natural-language match without changing it.
var naturalFiller = map[string]bool{"at": true, "on": true, "in": true}

// coversAll reports whether the match text[index:index+length] accounts for
// the whole input, ignoring punctuation and filler words around it.
func coversAll(text string, index, length int) bool {
	if index < 0 || length <= 0 || index+length > len(text) {
		return false
	}
	rest := text[:index] + " " + text[index+length:]
	for _, word := range strings.FieldsFunc(strings.ToLower(rest), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) {
		if !naturalFiller[word] {
			return false
		}
	}
	return true
}
