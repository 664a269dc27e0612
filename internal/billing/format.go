package billing

import (
	"fmt"
	"strings"
	"unicode"
)

// FormatCardNumber groups the digits of s in blocks of four.
func FormatCardNumber(s string) string {
	digits := onlyDigits(s)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry turns typed digits into MM/YY.
func FormatExpiry(s string) string {
	digits := onlyDigits(s)
	if len(digits) > 2 {
		digits = digits[:2] + "/" + digits[2:]
	}
	if len(digits) > 5 {
		digits = digits[:5]
	}
	return digits
}

// MaskCardNumber hides all but the last four digits.
func MaskCardNumber(s string) string {
	digits := onlyDigits(s)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

// FormatPrice renders an amount the way the plan page shows it.
func FormatPrice(v float64) string {
	if v == 0 {
		return "Grátis"
	}
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
