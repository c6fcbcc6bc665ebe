package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGroupIndian(t *testing.T) {
	tests := map[string]string{
		"0":         "0.00",
		"5.5":       "5.50",
		"999":       "999.00",
		"1000":      "1,000.00",
		"100000":    "1,00,000.00",
		"1234567.5": "12,34,567.50",
		"123456789": "12,34,56,789.00",
		"-2500":     "-2,500.00",
		"1180.005":  "1,180.01",
	}
	for in, want := range tests {
		assert.Equal(t, want, GroupIndian(decimal.RequireFromString(in)), in)
	}
}

func TestFormatRupees(t *testing.T) {
	assert.Equal(t, "Rs. 1,180.00", FormatRupees(decimal.NewFromInt(1180)))
	assert.Equal(t, "₹1,00,000.00", FormatRupeeSymbol(decimal.NewFromInt(100000)))
}
