package models

import "github.com/shopspring/decimal"

// Placeholder values shown in an empty form. Validation treats them as unfilled.
const (
	PlaceholderCustomerName    = "##Customer Name"
	PlaceholderCustomerNumber  = "##91"
	PlaceholderDeliveryAddress = "##Customer Full Address"
)

const DefaultValidThrough = "15 Days"

const invoiceTerms = "1. Payment due within 30 days.\n" +
	"2. Please make payments to the account specified.\n" +
	"3. For any queries regarding this document, please contact us.\n" +
	"4. All disputes subject to local jurisdiction."

const quotationTerms = "1. This quotation is valid for 15 days.\n" +
	"2. Prices are exclusive of applicable taxes.\n" +
	"3. Payment Terms: 50% advance, 50% on completion.\n" +
	"4. Project timeline will be shared upon confirmation."

// DefaultTerms returns the stock terms and conditions for kind.
func DefaultTerms(kind Kind) string {
	if kind == Quotation {
		return quotationTerms
	}
	return invoiceTerms
}

// Defaults is the complete placeholder form for one document kind.
type Defaults struct {
	Kind         Kind       `json:"kind"`
	ValidThrough string     `json:"valid_through,omitempty"`
	Company      Company    `json:"company"`
	Customer     Customer   `json:"customer"`
	Transport    Transport  `json:"transport"`
	Bank         Bank       `json:"bank"`
	Items        []LineItem `json:"items"`
	Terms        string     `json:"terms_and_conditions"`
}

func DefaultsFor(kind Kind) Defaults {
	d := Defaults{
		Kind: kind,
		Company: Company{
			Name:          "Your Company Name",
			GSTIN:         "YOUR_GSTIN_HERE",
			Address:       "123 Business Rd, Business City, 12345",
			ContactPerson: "Your Name",
			Phone:         "+91 9876543210",
		},
		Customer: Customer{
			Name:         PlaceholderCustomerName,
			Number:       PlaceholderCustomerNumber,
			State:        "State Name",
			ConsigneeGST: "-",
		},
		Transport: Transport{
			Mode:            "Direct Delivery",
			PlaceOfSupply:   "State Name",
			DeliveryAddress: PlaceholderDeliveryAddress,
			VehicleNo:       "-",
			Cost:            decimal.Zero,
		},
		Bank: Bank{
			Name:          "Your Bank Name",
			AccountName:   "Your Account Name",
			AccountNumber: "12345678901234",
			IFSC:          "YOURIFSC001",
			Branch:        "Your Branch",
		},
		Items: []LineItem{{
			ID:          "1",
			HSN:         "998314",
			Description: "Item Description (e.g., Web Development Services, Product Supply). You can customize this default text.",
			Rate:        decimal.NewFromInt(1000),
			Qty:         decimal.NewFromInt(1),
		}},
		Terms: DefaultTerms(kind),
	}
	if kind == Quotation {
		d.ValidThrough = DefaultValidThrough
	}
	return d
}
