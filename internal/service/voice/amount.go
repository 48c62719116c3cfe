package voice

import (
	"errors"
	"strings"
)

// maxFractionDigits caps transfer amount precision. Longer fractions are
// rounded half-up, never silently truncated.
const maxFractionDigits = 6

var (
	ErrAmountNotNumeric   = errors.New("amount is not a number")
	ErrAmountNotPositive  = errors.New("amount must be greater than zero")
	ErrAmountBelowMinimum = errors.New("amount is below the minimum")
	ErrAmountAboveMaximum = errors.New("amount is above the maximum")
)

// AmountLimits bound a single transfer. Min and Max are canonical decimal
// strings so comparisons never touch floating point.
type AmountLimits struct {
	Min string
	Max string
}

func DefaultAmountLimits() AmountLimits {
	return AmountLimits{Min: "0.000001", Max: "1000"}
}

// ValidateAmount canonicalizes a spoken amount. Everything except digits
// and the decimal point is stripped first, so "0.5 eth please" and "0.5"
// validate the same. The canonical form has no leading or trailing zeros
// and at most six fraction digits. All arithmetic is integer string math;
// identical input always yields the identical canonical string.
func ValidateAmount(text string, limits AmountLimits) (string, error) {
	stripped := stripToDecimal(text)
	if stripped == "" || stripped == "." {
		return "", ErrAmountNotNumeric
	}
	if strings.Count(stripped, ".") > 1 {
		return "", ErrAmountNotNumeric
	}

	if isZeroDecimal(stripped) {
		return "", ErrAmountNotPositive
	}

	intPart, fracPart := splitDecimal(stripped)
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}

	if len(fracPart) > maxFractionDigits {
		roundUp := fracPart[maxFractionDigits] >= '5'
		fracPart = fracPart[:maxFractionDigits]
		if roundUp {
			var carry bool
			fracPart, carry = incDigits(fracPart)
			if carry {
				intPart, carry = incDigits(intPart)
				if carry {
					intPart = "1" + intPart
				}
			}
		}
	}
	fracPart = strings.TrimRight(fracPart, "0")

	canonical := intPart
	if fracPart != "" {
		canonical = intPart + "." + fracPart
	}

	// A positive amount that rounds to zero fell under the precision
	// floor, which is a minimum problem, not a sign problem.
	if isZeroDecimal(canonical) {
		return "", ErrAmountBelowMinimum
	}
	if limits.Min != "" && compareDecimal(canonical, limits.Min) < 0 {
		return "", ErrAmountBelowMinimum
	}
	if limits.Max != "" && compareDecimal(canonical, limits.Max) > 0 {
		return "", ErrAmountAboveMaximum
	}

	return canonical, nil
}

// stripToDecimal keeps digits and dots only.
func stripToDecimal(text string) string {
	var b strings.Builder
	for _, c := range text {
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func splitDecimal(s string) (intPart, fracPart string) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

func isZeroDecimal(s string) bool {
	for _, c := range s {
		if c >= '1' && c <= '9' {
			return false
		}
	}
	return true
}

// incDigits adds one to a digit string of fixed width. The carry flag is
// set when the increment overflows the width ("999" -> "000", carry).
func incDigits(s string) (string, bool) {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < '9' {
			b[i]++
			return string(b), false
		}
		b[i] = '0'
	}
	return string(b), true
}

// compareDecimal orders two canonical decimal strings without parsing
// them into floats. Returns -1, 0 or 1.
func compareDecimal(a, b string) int {
	ai, af := splitDecimal(a)
	bi, bf := splitDecimal(b)

	ai = strings.TrimLeft(ai, "0")
	bi = strings.TrimLeft(bi, "0")
	if len(ai) != len(bi) {
		if len(ai) < len(bi) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(ai, bi); c != 0 {
		return c
	}

	for len(af) < len(bf) {
		af += "0"
	}
	for len(bf) < len(af) {
		bf += "0"
	}
	return strings.Compare(af, bf)
}
