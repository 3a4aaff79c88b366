package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Food", Capitalize("food"))
	assert.Equal(t, "Transport", Capitalize("TRANSPORT"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 20))
	assert.Equal(t, "abcde", Truncate("abcdefgh", 5))

	// Multi-byte runes must not be split mid-character
	assert.Equal(t, "Cartão", Truncate("Cartão de crédito", 6))
	assert.Equal(t, "", Truncate("", 10))
}
