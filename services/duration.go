package services

import (
	"strconv"
	"strings"
)

// ParseDurationMinutes converts a free-text workout duration ("30 minutes",
// "2 hours", "45 min") into minutes. The leading token must be an integer;
// a unit token containing "hour" multiplies by 60. Anything unparseable is
// worth 0 minutes — a malformed historical row must never fail an aggregate.
func ParseDurationMinutes(duration string) int {
	fields := strings.Fields(strings.TrimSpace(duration))
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	if len(fields) > 1 && strings.Contains(strings.ToLower(fields[1]), "hour") {
		n *= 60
	}
	return n
}

// LeadingNumber returns the leading integer token of a free-text value,
// ignoring the unit entirely. Used where the number is a rep count rather
// than a duration.
func LeadingNumber(s string) (int, bool) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return n, true
}
