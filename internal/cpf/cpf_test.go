package cpf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid_KnownGoodCPFs(t *testing.T) {
	valid := []string{
		"12345678909",
		"52998224725",
		"11144477735",
		"123.456.789-09", // formatted input is normalized
	}
	for _, c := range valid {
		assert.True(t, IsValid(c), "expected %s to be valid", c)
	}
}

func TestIsValid_RejectsBadInput(t *testing.T) {
	invalid := []string{
		"",
		"1234567890",    // 10 digits
		"123456789012",  // 12 digits
		"12345678900",   // wrong check digits
		"abcdefghijk",   // no digits at all
		"5299822472x5",  // normalizes to 10 digits
	}
	for _, c := range invalid {
		assert.False(t, IsValid(c), "expected %s to be invalid", c)
	}
}

func TestIsValid_RejectsRepeatedDigits(t *testing.T) {
	// All-identical CPFs pass the arithmetic but are explicitly rejected.
	for d := '0'; d <= '9'; d++ {
		c := strings.Repeat(string(d), 11)
		assert.False(t, IsValid(c), "expected %s to be invalid", c)
	}
}

func TestIsValid_SingleDigitMutationsInvalidate(t *testing.T) {
	base := "52998224725"
	mutations := 0
	rejected := 0
	for pos := 0; pos < len(base); pos++ {
		for d := byte('0'); d <= '9'; d++ {
			if base[pos] == d {
				continue
			}
			mutated := base[:pos] + string(d) + base[pos+1:]
			mutations++
			if !IsValid(mutated) {
				rejected++
			}
		}
	}
	// The checksum is not a perfect code; a rare mutation may survive.
	// Nearly all must be caught.
	assert.Equal(t, 99, mutations)
	assert.GreaterOrEqual(t, rejected, 90)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "12345678909", Normalize("123.456.789-09"))
	assert.Equal(t, "", Normalize("abc"))
	assert.Equal(t, "001", Normalize(" 0-0.1 "))
}
