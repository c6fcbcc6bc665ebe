package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalsTaxSubtotalOnly(t *testing.T) {
	s := Snapshot{
		Kind: Invoice,
		Items: []LineItem{
			{Description: "a", Rate: decimal.NewFromInt(1000), Qty: decimal.NewFromInt(1)},
		},
	}
	tot := s.Totals()
	assert.True(t, tot.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, tot.CGST.Equal(decimal.NewFromInt(90)))
	assert.True(t, tot.SGST.Equal(decimal.NewFromInt(90)))
	assert.True(t, tot.Total.Equal(decimal.NewFromInt(1180)))

	s.Transport.Cost = decimal.NewFromInt(500)
	tot = s.Totals()
	assert.True(t, tot.CGST.Equal(decimal.NewFromInt(90)), "transport must not be taxed")
	assert.True(t, tot.Total.Equal(decimal.NewFromInt(1680)))
}

func TestTotalsMultipleItems(t *testing.T) {
	s := Snapshot{Items: []LineItem{
		{Rate: decimal.RequireFromString("12.50"), Qty: decimal.NewFromInt(4)},
		{Rate: decimal.NewFromInt(100), Qty: decimal.RequireFromString("1.5")},
	}}
	tot := s.Totals()
	assert.Equal(t, "200", tot.Subtotal.String())
	assert.Equal(t, "236", tot.Total.String())
}

func TestDocumentNumber(t *testing.T) {
	d := time.Date(2025, time.July, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-202507-001", DocumentNumber(Invoice, d, 1))
	assert.Equal(t, "QUO-202507-042", DocumentNumber(Quotation, d, 42))
	assert.Equal(t, "INV-202507-1234", DocumentNumber(Invoice, d, 1234))
}

func TestSequenceFromNumber(t *testing.T) {
	cases := map[string]int{
		"INV-202507-007": 7,
		"QUO-202501-120": 120,
		"garbage":        1,
		"INV-202507-x":   1,
		"":               1,
	}
	for in, want := range cases {
		assert.Equal(t, want, SequenceFromNumber(in), in)
	}
}

func TestFinancialYearNumber(t *testing.T) {
	feb := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	apr := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV_007/2024-25", FinancialYearNumber("INV-202502-007", feb))
	assert.Equal(t, "INV_012/2025-26", FinancialYearNumber("INV-202504-012", apr))
	assert.Equal(t, "INV_001/2099-00", FinancialYearNumber("", time.Date(2099, time.May, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFileNameRoundTrip(t *testing.T) {
	d := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	name := FileName(Invoice, d, 5, "+91 98765-43210")
	assert.Equal(t, "INV_20250701_000005_919876543210.pdf", name)

	info, err := ParseFileName(name)
	require.NoError(t, err)
	assert.Equal(t, Invoice, info.Kind)
	assert.True(t, info.Date.Equal(d))
	assert.Equal(t, 5, info.Sequence)
	assert.Equal(t, "919876543210", info.Phone)

	_, err = ParseFileName("notes.txt")
	assert.Error(t, err)
}

func TestSnapshotFileName(t *testing.T) {
	s := Snapshot{
		Kind:     Quotation,
		Number:   "QUO-202507-003",
		Date:     time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC),
		Customer: Customer{Number: "971501234567"},
	}
	assert.Equal(t, "QUO_20250702_000003_971501234567.pdf", s.FileName())
}

func TestKindHelpers(t *testing.T) {
	k, err := ParseKind(" Quotation ")
	require.NoError(t, err)
	assert.Equal(t, Quotation, k)
	assert.Equal(t, "quotes", k.Folder())
	assert.Equal(t, Invoice, k.Other())
	assert.Equal(t, "INVOICE", Invoice.Title())

	_, err = ParseKind("receipt")
	assert.Error(t, err)
}

func TestDefaultsFor(t *testing.T) {
	q := DefaultsFor(Quotation)
	assert.Equal(t, "15 Days", q.ValidThrough)
	assert.Equal(t, DefaultTerms(Quotation), q.Terms)
	require.Len(t, q.Items, 1)

	i := DefaultsFor(Invoice)
	assert.Empty(t, i.ValidThrough)
	assert.NotEqual(t, q.Terms, i.Terms)
	assert.Equal(t, PlaceholderCustomerName, i.Customer.Name)
}
