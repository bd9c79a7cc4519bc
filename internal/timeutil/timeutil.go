// Package timeutil normalizes the time representations found in
// vehicle-tracker spreadsheet exports: numeric day-fraction serials,
// loosely formatted clock strings, and wall-clock times that must be
// shifted between the tracker's zone and the fleet's local zone.
package timeutil

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// ParseClockCell converts a raw spreadsheet cell into a normalized
// HH:MM:SS clock string. Accepts a numeric time serial (fraction of a
// day, the integer date part is ignored) or an H:MM[:SS] string.
// Returns false for anything else; callers drop such rows.
func ParseClockCell(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial < 0 {
			return "", false
		}
		frac := serial - math.Floor(serial)
		secs := int(math.Round(frac * 86400))
		secs %= 86400
		return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60), true
	}

	m := clockPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second), true
}

// ConvertZone reinterprets a wall-clock time on the given calendar date
// (YYYY-MM-DD) from one zone to another and returns the resulting
// wall-clock HH:MM:SS string.
func ConvertZone(clock, date string, from, to *time.Location) (string, error) {
	if from == nil || to == nil {
		return "", fmt.Errorf("zone not loaded")
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", date+" "+clock, from)
	if err != nil {
		return "", fmt.Errorf("parse %q %q: %w", date, clock, err)
	}
	return t.In(to).Format("15:04:05"), nil
}

// ConvertZoneOrKeep is the fail-soft variant used while mapping rows: a
// single malformed timestamp must not abort the whole file, so failures
// return the input unchanged.
func ConvertZoneOrKeep(clock, date string, from, to *time.Location) string {
	converted, err := ConvertZone(clock, date, from, to)
	if err != nil {
		return clock
	}
	return converted
}

// FormatMinutes renders a minute count for humans: "2 h 5 min",
// "45 min", or "0 min" for anything under a minute.
func FormatMinutes(minutes float64) string {
	if minutes < 1 {
		return "0 min"
	}
	total := int(math.Round(minutes))
	if total < 60 {
		return fmt.Sprintf("%d min", total)
	}
	return fmt.Sprintf("%d h %d min", total/60, total%60)
}

// MinutesOf returns the minutes-since-midnight value of an HH:MM[:SS]
// clock string, or -1 when it does not parse.
func MinutesOf(clock string) int {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(clock))
	if m == nil {
		return -1
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return hour*60 + minute
}

// AddMinutes shifts an HH:MM:SS clock by a signed number of minutes,
// wrapping modulo 24 hours. Seconds are preserved.
func AddMinutes(clock string, delta int) string {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(clock))
	if m == nil {
		return clock
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}

	total := (hour*60 + minute + delta) % minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/60, total%60, second)
}
