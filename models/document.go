package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	Invoice   Kind = "invoice"
	Quotation Kind = "quotation"
)

// Kinds lists every document kind in a stable order.
var Kinds = []Kind{Invoice, Quotation}

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Invoice:
		return Invoice, nil
	case Quotation:
		return Quotation, nil
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

// Prefix is the class prefix used in document numbers and export file names.
func (k Kind) Prefix() string {
	if k == Quotation {
		return "QUO"
	}
	return "INV"
}

// Folder is the remote drive folder holding exported documents of this kind.
func (k Kind) Folder() string {
	if k == Quotation {
		return "quotes"
	}
	return "invoices"
}

func (k Kind) Label() string {
	if k == Quotation {
		return "Quotation"
	}
	return "Invoice"
}

func (k Kind) Title() string {
	return strings.ToUpper(k.Label())
}

// Other returns the opposite kind.
func (k Kind) Other() Kind {
	if k == Quotation {
		return Invoice
	}
	return Quotation
}

type LineItem struct {
	ID          string          `json:"id" bson:"id"`
	HSN         string          `json:"hsn" bson:"hsn"`
	Description string          `json:"description" bson:"description"`
	Rate        decimal.Decimal `json:"rate" bson:"rate"`
	Qty         decimal.Decimal `json:"qty" bson:"qty"`
}

// Value is rate × quantity.
func (i LineItem) Value() decimal.Decimal {
	return i.Rate.Mul(i.Qty)
}

type Company struct {
	Name          string `json:"name"`
	GSTIN         string `json:"gstin"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
}

type Customer struct {
	Name string `json:"name"`
	// Number is a single digit string starting with the country calling code.
	Number       string `json:"number"`
	State        string `json:"state"`
	ConsigneeGST string `json:"consignee_gst"`
}

type Transport struct {
	Mode            string          `json:"mode"`
	PlaceOfSupply   string          `json:"place_of_supply"`
	DeliveryAddress string          `json:"delivery_address"`
	VehicleNo       string          `json:"vehicle_no"`
	Cost            decimal.Decimal `json:"cost"`
}

type Bank struct {
	Name          string `json:"name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	Branch        string `json:"branch"`
}

// Snapshot is the immutable, fully resolved description of one document.
// Render and validation never modify it.
type Snapshot struct {
	Kind         Kind       `json:"kind"`
	Number       string     `json:"number"` // e.g. INV-202507-001
	Date         time.Time  `json:"date"`
	ValidThrough string     `json:"valid_through,omitempty"`
	Company      Company    `json:"company"`
	Customer     Customer   `json:"customer"`
	Transport    Transport  `json:"transport"`
	Bank         Bank       `json:"bank"`
	Items        []LineItem `json:"items"`
	Terms        string     `json:"terms_and_conditions"`
}

const TaxRatePercent = 9

var taxRate = decimal.NewFromInt(TaxRatePercent).Div(decimal.NewFromInt(100))

type Totals struct {
	Subtotal  decimal.Decimal
	CGST      decimal.Decimal
	SGST      decimal.Decimal
	Transport decimal.Decimal
	Total     decimal.Decimal
}

// Totals derives subtotal, the two tax components and the grand total.
// Tax applies to the subtotal only; transport is added untaxed.
func (s Snapshot) Totals() Totals {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.Value())
	}
	cgst := subtotal.Mul(taxRate)
	sgst := subtotal.Mul(taxRate)
	return Totals{
		Subtotal:  subtotal,
		CGST:      cgst,
		SGST:      sgst,
		Transport: s.Transport.Cost,
		Total:     subtotal.Add(cgst).Add(sgst).Add(s.Transport.Cost),
	}
}

// FileName is the export file name for this snapshot.
func (s Snapshot) FileName() string {
	return FileName(s.Kind, s.Date, SequenceFromNumber(s.Number), s.Customer.Number)
}
