package validation

import (
	"testing"

	"invoicepro/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validSnapshot() models.Snapshot {
	return models.Snapshot{
		Kind:     models.Invoice,
		Customer: models.Customer{Name: "Acme Traders", Number: "919876543210"},
		Items: []models.LineItem{
			{Description: "Consulting", Rate: decimal.NewFromInt(1000), Qty: decimal.NewFromInt(1)},
		},
	}
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	d := models.DefaultsFor(models.Invoice)
	assert.Empty(t, Validate(validSnapshot(), d))

	s := validSnapshot()
	s.Customer.Number = "447700900123"
	assert.Empty(t, Validate(s, d))
}

func TestValidateCustomer(t *testing.T) {
	placeholder := models.DefaultsFor(models.Invoice).Customer
	tests := []struct {
		name   string
		cust   models.Customer
		expect []string
	}{
		{"placeholder name and phone", placeholder, []string{MsgCustomerName, MsgCustomerPhone}},
		{"blank name", models.Customer{Name: "  ", Number: "919876543210"}, []string{MsgCustomerName}},
		{"empty phone", models.Customer{Name: "A", Number: ""}, []string{MsgCustomerPhone}},
		{"indian too short", models.Customer{Name: "A", Number: "91987654321"}, []string{MsgIndianPhone}},
		{"indian too long", models.Customer{Name: "A", Number: "9198765432101"}, []string{MsgIndianPhone}},
		{"generic too short", models.Customer{Name: "A", Number: "44123"}, []string{MsgGenericPhone}},
		{"generic seven digits", models.Customer{Name: "A", Number: "4412345"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Customer(tt.cust, placeholder))
		})
	}
}

func TestValidateItemsCollectsAll(t *testing.T) {
	assert.Equal(t, []string{MsgNoItems}, Items(nil))

	items := []models.LineItem{
		{Description: "ok", Rate: decimal.NewFromInt(1), Qty: decimal.NewFromInt(1)},
		{Description: " ", Rate: decimal.Zero, Qty: decimal.NewFromInt(-1)},
	}
	assert.Equal(t, []string{
		"Please provide a description for item #2.",
		"Item #2 must have a positive rate.",
		"Item #2 must have a positive quantity.",
	}, Items(items))
}

func TestValidateNotFailFast(t *testing.T) {
	d := models.DefaultsFor(models.Quotation)
	s := models.Snapshot{Kind: models.Quotation, Customer: d.Customer}
	assert.Equal(t, []string{MsgCustomerName, MsgCustomerPhone, MsgNoItems}, Validate(s, d))
}
