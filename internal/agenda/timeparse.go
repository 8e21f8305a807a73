// Package agenda derives calendar events from the widget snapshot: free-text
// time parsing, recurrence expansion and horizon scanning.
package agenda

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimeRange is the result of parsing a free-text schedule entry.
type TimeRange struct {
	Start       *time.Time
	End         *time.Time
	Description string
}

var (
	timeExprRe  = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	separatorRe = regexp.MustCompile(`(?i)\s*(?:-|\bto\b)\s*`)
)

// ParseTimeRange scans text for up to two clock-time expressions
// ("9am", "14:30", "2-3pm") and attaches them to base's calendar day.
// The first match becomes the start, the second the end; the matched
// substrings and a trailing range separator are stripped from the text to
// form the description. Text without any time expression is an all-day
// entry and is returned unchanged. Pure and idempotent.
func ParseTimeRange(text string, base time.Time) TimeRange {
	matches := timeExprRe.FindAllStringSubmatch(text, 2)
	if len(matches) == 0 {
		return TimeRange{Description: text}
	}

	first := matches[0]
	desc := removeFirst(text, first[0])

	var second []string
	if len(matches) > 1 {
		second = matches[1]
		desc = removeFirst(desc, second[0])
		// Only the first separator goes: a hyphen inside the remaining
		// description text must survive.
		if loc := separatorRe.FindStringIndex(desc); loc != nil {
			desc = desc[:loc[0]] + " " + desc[loc[1]:]
		}
	}
	desc = strings.TrimSpace(desc)
	if desc == "" {
		desc = text
	}

	// A bare start hour inherits the end's meridiem, so "2-3pm" reads as
	// 14:00-15:00 rather than 02:00-15:00.
	firstMarker := first[3]
	if firstMarker == "" && second != nil {
		firstMarker = second[3]
	}

	start := atClock(base, first[1], first[2], firstMarker)
	tr := TimeRange{Start: &start, Description: desc}
	if second != nil {
		end := atClock(base, second[1], second[2], second[3])
		tr.End = &end
	}
	return tr
}

// atClock builds an instant on base's day from matched hour/minute/meridiem
// strings. A missing meridiem leaves the hour as literally written.
func atClock(base time.Time, hourStr, minuteStr, marker string) time.Time {
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minuteStr != "" {
		minute, _ = strconv.Atoi(minuteStr)
	}

	switch strings.ToLower(marker) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
}

// removeFirst strips the first occurrence of sub from s.
func removeFirst(s, sub string) string {
	if sub == "" {
		return s
	}
	if i := strings.Index(s, sub); i >= 0 {
		return strings.TrimSpace(s[:i] + s[i+len(sub):])
	}
	return s
}
