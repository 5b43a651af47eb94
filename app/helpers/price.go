package helpers

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParsePrice extracts the numeric value from a scraped price string such as
// "1 500 ₽" or "990,50 руб.". Only the leading number is used; ok is false
// when no digits are found.
func ParsePrice(raw string) (decimal.Decimal, bool) {
	var cleaned strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			cleaned.WriteRune(r)
		}
	}
	s := strings.Replace(cleaned.String(), ",", ".", 1)

	end := 0
	seenDigit := false
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			seenDigit = true
		} else if c == '.' && !seenDot {
			seenDot = true
		} else {
			break
		}
		end++
	}
	if !seenDigit {
		return decimal.Zero, false
	}

	value, err := decimal.NewFromString(strings.TrimSuffix(s[:end], "."))
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}
