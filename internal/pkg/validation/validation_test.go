package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol(" aapl "))
	assert.Equal(t, "BRK.B", NormalizeSymbol("brk.b"))
	assert.Equal(t, "", NormalizeSymbol("   "))
}

func TestIsValidSymbol(t *testing.T) {
	valid := []string{"A", "AAPL", "BRK.B", "BF-B", "GOOG1"}
	for _, s := range valid {
		assert.True(t, IsValidSymbol(s), s)
	}
	invalid := []string{"", "aapl", ".AAPL", "TOOLONGSYMBOL", "AA PL"}
	for _, s := range invalid {
		assert.False(t, IsValidSymbol(s), s)
	}
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("alice"))
	assert.False(t, IsValidUsername("   "))
	assert.False(t, IsValidUsername(""))
}
