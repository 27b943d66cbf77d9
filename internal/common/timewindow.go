package common

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the number of minutes in a calendar day
const MinutesPerDay = 24 * 60

// ClockMinutes parses a wall-clock string in HH:MM form and returns the
// minutes elapsed since midnight. Hours above 23 and minutes above 59 are
// rejected.
func ClockMinutes(clock string) (int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, ValidationError{Field: "time", Message: fmt.Sprintf("expected HH:MM, got '%s'", clock)}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ValidationError{Field: "time", Message: fmt.Sprintf("invalid hour in '%s'", clock)}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ValidationError{Field: "time", Message: fmt.Sprintf("invalid minute in '%s'", clock)}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, ValidationError{Field: "time", Message: fmt.Sprintf("'%s' is out of range", clock)}
	}
	return hour*60 + minute, nil
}

// WithinTolerance reports whether two clock times, given as minutes since
// midnight, are at most toleranceMinutes apart. Distance is measured around
// the clock face, so 23:50 and 00:10 are 20 minutes apart, not 1420. The
// boundary is inclusive.
func WithinTolerance(currentMinutes, targetMinutes, toleranceMinutes int) bool {
	diff := currentMinutes - targetMinutes
	if diff < 0 {
		diff = -diff
	}
	if wrapped := MinutesPerDay - diff; wrapped < diff {
		diff = wrapped
	}
	return diff <= toleranceMinutes
}

// InSilentWindow reports whether the given local time falls inside the user's
// configured quiet window. Start and end are HH:MM strings; a window whose
// start is not before its end spans midnight (23:00-07:00 covers 23:00
// through 06:59). Malformed bounds disable the window rather than silencing
// the user, so a bad setting never blocks notifications.
func InSilentWindow(hour, minute int, start, end string) bool {
	startMins, err := ClockMinutes(start)
	if err != nil {
		return false
	}
	endMins, err := ClockMinutes(end)
	if err != nil {
		return false
	}
	nowMins := hour*60 + minute
	if startMins < endMins {
		return nowMins >= startMins && nowMins < endMins
	}
	return nowMins >= startMins || nowMins < endMins
}

// ParseFlexibleClock accepts the clock formats people actually type and
// normalizes them to HH:MM. Supported inputs: "8:30", "08.30", "8" (minutes
// default to zero), "0830", and free text where the first digit run is the
// hour and the second, if present, the minute ("8 30", "saat 9"). An
// out-of-range hour or minute, or input with no digits at all, returns an
// error.
func ParseFlexibleClock(input string) (string, error) {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, ".", ":")

	var hour, minute int
	switch {
	case isClock(s):
		mins, err := ClockMinutes(s)
		if err != nil {
			return "", err
		}
		hour, minute = mins/60, mins%60
	case isDigits(s) && len(s) <= 4:
		n, _ := strconv.Atoi(s)
		if len(s) <= 2 {
			hour, minute = n, 0
		} else {
			hour, minute = n/100, n%100
		}
	default:
		runs := digitRuns(s)
		if len(runs) == 0 {
			return "", ValidationError{Field: "time", Message: fmt.Sprintf("cannot interpret '%s' as a clock time", input)}
		}
		hour, _ = strconv.Atoi(runs[0])
		if len(runs) > 1 {
			minute, _ = strconv.Atoi(runs[1])
		}
	}
	if hour > 23 || minute > 59 {
		return "", ValidationError{Field: "time", Message: fmt.Sprintf("'%s' is out of range", input)}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// isClock reports whether s is exactly two digit runs joined by a colon.
// Anything looser, like "saat 9:30", takes the digit-run path instead.
func isClock(s string) bool {
	parts := strings.Split(s, ":")
	return len(parts) == 2 && isDigits(parts[0]) && isDigits(parts[1])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// digitRuns returns the maximal runs of consecutive ASCII digits in s,
// in order. At most the first two runs matter to the caller.
func digitRuns(s string) []string {
	var runs []string
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s[start:])
	}
	return runs
}
