package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// GroupIndian formats amount with two decimals and Indian digit grouping:
// the last three integer digits form one group, the rest go in pairs.
// 1234567.5 becomes "12,34,567.50".
func GroupIndian(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	if len(intPart) > 3 {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		intPart = strings.Join(append(groups, tail), ",")
	}

	out := intPart + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// FormatRupees is the PDF cell format: "Rs. " plus the grouped amount.
// The rupee glyph is outside the core PDF font encoding.
func FormatRupees(amount decimal.Decimal) string {
	return "Rs. " + GroupIndian(amount)
}

// FormatRupeeSymbol is the message format used in share text.
func FormatRupeeSymbol(amount decimal.Decimal) string {
	return "₹" + GroupIndian(amount)
}
