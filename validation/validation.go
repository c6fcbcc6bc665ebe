package validation

import (
	"fmt"
	"strings"

	"invoicepro/models"
)

const (
	MsgCustomerName  = "Please provide a valid customer name."
	MsgCustomerPhone = "Please provide a customer phone number."
	MsgIndianPhone   = "For India (+91), the phone number must be exactly 10 digits long."
	MsgGenericPhone  = "Please provide a valid customer phone number (including country code)."
	MsgNoItems       = "Please add at least one item to generate a document."
)

// minGenericPhoneDigits is the length floor applied to numbers outside +91.
const minGenericPhoneDigits = 7

// Validate checks s against the placeholder defaults of its kind and returns
// every problem found, in form order. An empty result means s may be rendered.
func Validate(s models.Snapshot, defaults models.Defaults) []string {
	problems := Customer(s.Customer, defaults.Customer)
	return append(problems, Items(s.Items)...)
}

func Customer(c, placeholder models.Customer) []string {
	var problems []string

	name := strings.TrimSpace(c.Name)
	if name == "" || name == placeholder.Name {
		problems = append(problems, MsgCustomerName)
	}

	number := strings.TrimSpace(c.Number)
	switch {
	case number == "" || number == placeholder.Number:
		problems = append(problems, MsgCustomerPhone)
	case strings.HasPrefix(number, "91"):
		if !isDigits(number[2:], 10) {
			problems = append(problems, MsgIndianPhone)
		}
	default:
		if len(models.Digits(number)) < minGenericPhoneDigits {
			problems = append(problems, MsgGenericPhone)
		}
	}
	return problems
}

// Items requires at least one item, each with a description, rate and quantity.
func Items(items []models.LineItem) []string {
	if len(items) == 0 {
		return []string{MsgNoItems}
	}
	var problems []string
	for i, item := range items {
		n := i + 1
		if strings.TrimSpace(item.Description) == "" {
			problems = append(problems, fmt.Sprintf("Please provide a description for item #%d.", n))
		}
		if !item.Rate.IsPositive() {
			problems = append(problems, fmt.Sprintf("Item #%d must have a positive rate.", n))
		}
		if !item.Qty.IsPositive() {
			problems = append(problems, fmt.Sprintf("Item #%d must have a positive quantity.", n))
		}
	}
	return problems
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
