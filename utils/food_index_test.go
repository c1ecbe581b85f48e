package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFoodIndex(t *testing.T) {
	entries := ParseFoodIndex("100101: Apples, fresh\nFRUITS\n\n100102 : Apples: canned\n")

	require.Len(t, entries, 3)
	assert.Equal(t, "100101", entries[0].Code)
	assert.Equal(t, "Apples, fresh", entries[0].Description)
	assert.Equal(t, "FRUITS", entries[1].Text)
	assert.Equal(t, "100102", entries[2].Code)
	assert.Equal(t, "Apples: canned", entries[2].Description)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "fish fillet\n12.5", CleanText("ﬁsh ﬁllet\r\n12.5\x00"))
	assert.Equal(t, "a b", CollapseSpaces("  a \t b "))
}
