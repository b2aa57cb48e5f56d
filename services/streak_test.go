package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLongestStreakGapSensitive(t *testing.T) {
	dates := []string{"2024-01-05", "2024-01-03", "2024-01-02", "2024-01-01"}
	assert.Equal(t, 3, LongestStreak(dates))
}

func TestLongestStreakEmptyAndSingle(t *testing.T) {
	assert.Equal(t, 0, LongestStreak(nil))
	assert.Equal(t, 1, LongestStreak([]string{"2024-06-01"}))
}

func TestLongestStreakRunAtTail(t *testing.T) {
	// the longest run is the oldest one
	dates := []string{"2024-02-10", "2024-02-05", "2024-02-04", "2024-02-03", "2024-02-02"}
	assert.Equal(t, 4, LongestStreak(dates))
}

func TestLongestStreakAllConsecutive(t *testing.T) {
	dates := []string{"2024-03-04", "2024-03-03", "2024-03-02", "2024-03-01"}
	assert.Equal(t, 4, LongestStreak(dates))
}

func TestCurrentStreakAnchoredToday(t *testing.T) {
	now := time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)
	dates := []string{"2024-01-05", "2024-01-04", "2024-01-03", "2024-01-01"}
	assert.Equal(t, 3, CurrentStreak(dates, now))
}

func TestCurrentStreakAnchoredYesterday(t *testing.T) {
	now := time.Date(2024, 1, 6, 8, 0, 0, 0, time.UTC)
	dates := []string{"2024-01-05", "2024-01-04"}
	assert.Equal(t, 2, CurrentStreak(dates, now))
}

func TestCurrentStreakStaleIsZero(t *testing.T) {
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	dates := []string{"2024-01-05", "2024-01-04"}
	assert.Equal(t, 0, CurrentStreak(dates, now))
}

func TestCurrentStreakNoDates(t *testing.T) {
	assert.Equal(t, 0, CurrentStreak(nil, time.Now()))
}
