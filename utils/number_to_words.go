package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// NumberToWords spells a non-negative integer using the crore/lakh/thousand/hundred
// grouping. Zero yields an empty string; callers decide how to present it.
func NumberToWords(num int64) string {
	switch {
	case num <= 0:
		return ""
	case num < 20:
		return ones[num]
	case num < 100:
		return strings.TrimSpace(tens[num/10] + " " + ones[num%10])
	case num < 1000:
		return join(ones[num/100]+" Hundred", NumberToWords(num%100))
	case num < 100000:
		return join(NumberToWords(num/1000)+" Thousand", NumberToWords(num%1000))
	case num < 10000000:
		return join(NumberToWords(num/100000)+" Lakh", NumberToWords(num%100000))
	default:
		return join(NumberToWords(num/10000000)+" Crore", NumberToWords(num%10000000))
	}
}

func join(head, rest string) string {
	if rest == "" {
		return head
	}
	return head + " " + rest
}

// splitPaise rounds amount to two places and splits it into rupees and paise.
func splitPaise(amount decimal.Decimal) (int64, int64) {
	amount = amount.Abs().Round(2)
	rupees := amount.Truncate(0)
	paise := amount.Sub(rupees).Shift(2)
	return rupees.IntPart(), paise.IntPart()
}

// ToWords converts an amount to words, e.g. 1180.50 becomes
// "One Thousand One Hundred Eighty and Fifty Paise".
func ToWords(amount decimal.Decimal) string {
	rupees, paise := splitPaise(amount)
	words := NumberToWords(rupees)
	if words == "" {
		words = "Zero"
	}
	if paise > 0 {
		words += " and " + NumberToWords(paise) + " Paise"
	}
	return words
}

// NumberToCurrencyWords is the sentence printed in the amount-in-words box.
func NumberToCurrencyWords(amount decimal.Decimal) string {
	rupees, paise := splitPaise(amount)
	words := NumberToWords(rupees)
	if words == "" {
		words = "Zero"
	}
	if paise > 0 {
		return words + " Rupees and " + NumberToWords(paise) + " Paise Only."
	}
	return words + " Rupees Only."
}
