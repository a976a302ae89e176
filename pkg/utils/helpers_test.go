package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 30*time.Second, ParseDuration("30s"))
	assert.Equal(t, 2*time.Hour, ParseDuration("2h"))
	assert.Equal(t, 5*time.Minute, ParseDuration(""))
	assert.Equal(t, 5*time.Minute, ParseDuration("not-a-duration"))
}

func TestParsePrice(t *testing.T) {
	v, ok := ParsePrice("376")
	assert.True(t, ok)
	assert.Equal(t, 376.0, v)

	v, ok = ParsePrice(" 443.50 ")
	assert.True(t, ok)
	assert.Equal(t, 443.5, v)

	// Zero is a real price, not a missing value.
	v, ok = ParsePrice("0")
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	for _, bad := range []string{"", "  ", "abc", "12abc", "nil", "NULL", "N/A", "-"} {
		_, ok := ParsePrice(bad)
		assert.False(t, ok, "input %q", bad)
	}
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder("nil"))
	assert.True(t, IsPlaceholder("NULL"))
	assert.True(t, IsPlaceholder(" n/a "))
	assert.True(t, IsPlaceholder("None"))
	assert.True(t, IsPlaceholder("-"))
	assert.False(t, IsPlaceholder("Kurta"))
	assert.False(t, IsPlaceholder("0"))
}

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "Kurta", CleanLabel(" Kurta ", "Nill"))
	assert.Equal(t, "Nill", CleanLabel("", "Nill"))
	assert.Equal(t, "Nill", CleanLabel("   ", "Nill"))
	assert.Equal(t, "Nill", CleanLabel("n/a", "Nill"))
	assert.Equal(t, "Nill", CleanLabel("None", "Nill"))
}
