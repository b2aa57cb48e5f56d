package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDurationMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"45 minutes", 45},
		{"2 hours", 120},
		{"1 hour", 60},
		{"30 min", 30},
		{"90", 90},
		{"  15 minutes ", 15},
		{"garbage", 0},
		{"", 0},
		{"half an hour", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseDurationMinutes(c.in), "input %q", c.in)
	}
}

func TestLeadingNumber(t *testing.T) {
	n, ok := LeadingNumber("12 reps")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = LeadingNumber("reps 12")
	assert.False(t, ok)

	_, ok = LeadingNumber("")
	assert.False(t, ok)
}
