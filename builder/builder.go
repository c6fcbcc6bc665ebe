package builder

import (
	"strings"
	"time"

	"invoicepro/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CountryCode is a calling code offered by the customer phone selector.
type CountryCode struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CountryCodes is ordered by display name; SplitPhone takes the first prefix match.
var CountryCodes = []CountryCode{
	{Code: "971", Name: "AE (+971)"},
	{Code: "61", Name: "AU (+61)"},
	{Code: "91", Name: "IN (+91)"},
	{Code: "974", Name: "QA (+974)"},
	{Code: "966", Name: "SA (+966)"},
	{Code: "44", Name: "UK (+44)"},
	{Code: "1", Name: "US (+1)"},
}

const DefaultCountryCode = "91"

// Phone is the split representation edited in the form.
type Phone struct {
	CountryCode string `json:"country_code" validate:"omitempty,numeric,max=4"`
	Local       string `json:"local"`
}

// Join recombines the phone into the single stored digit string.
// An empty local part restores the placeholder.
func (p Phone) Join() string {
	local := models.Digits(p.Local)
	if local == "" {
		return models.PlaceholderCustomerNumber
	}
	code := p.CountryCode
	if code == "" {
		code = DefaultCountryCode
	}
	return code + local
}

// SplitPhone detects the calling code of a stored number. The untouched
// placeholder splits into the default code and an empty local part.
func SplitPhone(number string) Phone {
	if number == models.PlaceholderCustomerNumber {
		return Phone{CountryCode: DefaultCountryCode}
	}
	for _, c := range CountryCodes {
		if strings.HasPrefix(number, c.Code) {
			return Phone{CountryCode: c.Code, Local: number[len(c.Code):]}
		}
	}
	return Phone{CountryCode: DefaultCountryCode, Local: number}
}

type Customer struct {
	Name         string `json:"name"`
	Phone        Phone  `json:"phone"`
	State        string `json:"state"`
	ConsigneeGST string `json:"consignee_gst"`
}

// Form is the editable state of one document.
type Form struct {
	Kind models.Kind `json:"kind" validate:"required,oneof=invoice quotation"`
	// Sequence is the counter value embedded in the number; zero means "use the session counter".
	Sequence     int               `json:"sequence" validate:"gte=0"`
	Date         string            `json:"date" validate:"omitempty,datetime=2006-01-02"`
	ValidThrough string            `json:"valid_through"`
	Company      models.Company    `json:"company"`
	Customer     Customer          `json:"customer"`
	Transport    models.Transport  `json:"transport"`
	Bank         models.Bank       `json:"bank"`
	Items        []models.LineItem `json:"items" validate:"dive"`
	Terms        string            `json:"terms_and_conditions"`
}

// NewForm returns the default form for kind, dated today.
func NewForm(kind models.Kind, today time.Time) Form {
	d := models.DefaultsFor(kind)
	return Form{
		Kind:         kind,
		Date:         today.Format(time.DateOnly),
		ValidThrough: d.ValidThrough,
		Company:      d.Company,
		Customer: Customer{
			Name:         d.Customer.Name,
			Phone:        SplitPhone(d.Customer.Number),
			State:        d.Customer.State,
			ConsigneeGST: d.Customer.ConsigneeGST,
		},
		Transport: d.Transport,
		Bank:      d.Bank,
		Items:     d.Items,
		Terms:     d.Terms,
	}
}

// Build assembles the snapshot. seq is used when the form carries no sequence
// of its own. A missing or malformed date falls back to today.
func Build(f Form, seq int, today time.Time) models.Snapshot {
	if f.Sequence > 0 {
		seq = f.Sequence
	}
	if seq < 1 {
		seq = 1
	}
	date, err := time.Parse(time.DateOnly, f.Date)
	if err != nil {
		date = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	}

	items := make([]models.LineItem, len(f.Items))
	for i, item := range f.Items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Rate.IsNegative() {
			item.Rate = decimal.Zero
		}
		if item.Qty.IsNegative() {
			item.Qty = decimal.Zero
		}
		items[i] = item
	}
	transport := f.Transport
	if transport.Cost.IsNegative() {
		transport.Cost = decimal.Zero
	}

	s := models.Snapshot{
		Kind:      f.Kind,
		Number:    models.DocumentNumber(f.Kind, date, seq),
		Date:      date,
		Company:   f.Company,
		Transport: transport,
		Bank:      f.Bank,
		Items:     items,
		Terms:     f.Terms,
		Customer: models.Customer{
			Name:         f.Customer.Name,
			Number:       f.Customer.Phone.Join(),
			State:        f.Customer.State,
			ConsigneeGST: f.Customer.ConsigneeGST,
		},
	}
	if f.Kind == models.Quotation {
		s.ValidThrough = f.ValidThrough
	}
	return s
}

// SwitchKind changes the document kind. Terms are reset to the new kind's
// default only while they still equal the previous kind's default.
func SwitchKind(f Form, to models.Kind) Form {
	if f.Kind == to {
		return f
	}
	if f.Terms == models.DefaultTerms(f.Kind) {
		f.Terms = models.DefaultTerms(to)
	}
	if to == models.Quotation && f.ValidThrough == "" {
		f.ValidThrough = models.DefaultValidThrough
	}
	f.Kind = to
	f.Sequence = 0
	return f
}
