// Package cpf validates Brazilian CPF numbers (11-digit individual taxpayer
// ids with two check digits).
package cpf

import "strings"

// Normalize strips every non-digit character, so formatted input like
// "123.456.789-09" compares equal to "12345678909".
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValid reports whether raw is a valid CPF after normalization.
// CPFs made of 11 identical digits (e.g. 00000000000) are rejected even
// though the check-digit arithmetic accepts them.
func IsValid(raw string) bool {
	digits := Normalize(raw)
	if len(digits) != 11 {
		return false
	}

	allEqual := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	return checkDigit(digits, 9) == int(digits[9]-'0') &&
		checkDigit(digits, 10) == int(digits[10]-'0')
}

// checkDigit computes the verification digit over the first n digits,
// with weights n+1 down to 2.
func checkDigit(digits string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}
	d := 11 - (sum % 11)
	if d >= 10 {
		return 0
	}
	return d
}
