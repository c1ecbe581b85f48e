package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	v, ok := ParseNumber("$1,234.50")
	assert.True(t, ok)
	assert.Equal(t, 1234.5, v)

	_, ok = ParseNumber("")
	assert.False(t, ok)

	_, ok = ParseNumber("N/A")
	assert.False(t, ok)

	_, ok = ParseNumber("NaN")
	assert.False(t, ok)
}

func TestParseInteger(t *testing.T) {
	v, ok := ParseInteger("6")
	assert.True(t, ok)
	assert.Equal(t, 6, v)

	v, ok = ParseInteger("2.0")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = ParseInteger("2.5")
	assert.False(t, ok)

	_, ok = ParseInteger("1e30")
	assert.False(t, ok)

	_, ok = ParseInteger("six")
	assert.False(t, ok)
}

func TestRoundOneDecimal(t *testing.T) {
	price := 2.555
	assert.Equal(t, 7.7, RoundOneDecimal(price*3))
	assert.Equal(t, -7.7, RoundOneDecimal(-price*3))
	assert.Equal(t, 0.3, RoundOneDecimal(0.25))
	assert.Equal(t, "7.7", FormatOneDecimal(7.665))
	assert.Equal(t, "0.0", FormatOneDecimal(-0.01))
	assert.Equal(t, "12.0", FormatOneDecimal(12))
}

func TestStripCurrency(t *testing.T) {
	assert.Equal(t, "12.50", StripCurrency(` "$12.50" `))
}
