package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"invoicepro/models"
	"invoicepro/utils"
)

var numberedTerm = regexp.MustCompile(`^(\d+[.)]\s*)`)

// measure runs the layout pre-pass. It only selects fonts and queries
// metrics; nothing is drawn.
func measure(m fontMetrics, s models.Snapshot) Layout {
	c := cursor{page: 1, y: headerY}
	l := Layout{}
	l.Header = measureHeader(m, s, &c)
	l.Info = measureInfo(m, s, &c)
	l.Table = measureTable(m, s, &c)
	c.y += summaryGap
	l.Summary = measureSummary(m, s, &c)
	l.Footer = measureFooter(m, s, &c)
	l.Signature = measureSignature(&c)
	l.Pages = c.page
	return l
}

func measureHeader(m fontMetrics, s models.Snapshot, c *cursor) HeaderBlock {
	m.font("", companySize)
	lines := []string{s.Company.Name}
	lines = append(lines, m.split(s.Company.Address, companyWrapW)...)
	lines = append(lines,
		"GSTIN: "+s.Company.GSTIN,
		fmt.Sprintf("Contact: %s (%s)", s.Company.ContactPerson, s.Company.Phone),
	)

	top := c.y - 8
	last := top + float64(len(lines)-1)*companyLineH
	c.y = max(c.y, last) + headerRuleGap
	h := HeaderBlock{
		Title:        s.Kind.Title(),
		CompanyTop:   top,
		CompanyLines: lines,
		RuleY:        c.y,
	}
	c.y += headerRuleGap
	return h
}

type detail struct {
	label string
	value string
	bold  bool
}

func infoDetails(s models.Snapshot) (left, right []detail) {
	date := s.Date.Format(dateLayout)
	if s.Kind == models.Quotation {
		left = []detail{
			{"Quote No.:", s.Number, false},
			{"Date of Quote:", date, false},
		}
	} else {
		left = []detail{
			{"Invoice No.:", models.FinancialYearNumber(s.Number, s.Date), false},
			{"Date of Invoice:", date, false},
		}
	}
	left = append(left,
		detail{"Made For:", s.Customer.Name, true},
		detail{"Delivery Address:", s.Transport.DeliveryAddress, false},
		detail{"State:", s.Customer.State, false},
	)

	right = []detail{
		{"Consignee GST:", s.Customer.ConsigneeGST, false},
		{"Customer No.:", s.Customer.Number, false},
	}
	if s.Kind == models.Quotation {
		right = append(right, detail{"Valid through:", s.ValidThrough, false})
	}
	right = append(right,
		detail{"Mode of Transport:", s.Transport.Mode, false},
		detail{"Place of Supply:", s.Transport.PlaceOfSupply, false},
		detail{"Vehicle No.:", s.Transport.VehicleNo, false},
	)
	return left, right
}

func measureInfoRows(m fontMetrics, details []detail) ([]InfoRow, float64) {
	labelW := infoLabelCol - infoPadding
	valueW := infoBoxW - infoLabelCol - 2*infoPadding

	rows := make([]InfoRow, len(details))
	height := 2 * infoPadding
	for i, d := range details {
		m.font("", infoSize)
		label := m.split(d.label, labelW)
		if d.bold {
			m.font("B", infoSize)
		}
		value := m.split(d.value, valueW)
		h := float64(max(len(label), len(value))) * infoLineH
		rows[i] = InfoRow{Label: label, Value: value, Bold: d.bold, Height: h}
		height += h
	}
	return rows, height
}

func measureInfo(m fontMetrics, s models.Snapshot, c *cursor) InfoBlock {
	left, right := infoDetails(s)
	leftRows, leftH := measureInfoRows(m, left)
	rightRows, rightH := measureInfoRows(m, right)

	b := InfoBlock{
		Y:      c.y,
		Height: max(leftH, rightH, infoMinH),
		Left:   leftRows,
		Right:  rightRows,
	}
	c.y += b.Height + infoGap
	return b
}

func measureTable(m fontMetrics, s models.Snapshot, c *cursor) TableBlock {
	var t TableBlock
	header := func() {
		t.Headers = append(t.Headers, TableHeader{Page: c.page, Y: c.y})
		c.y += tableHeaderH
	}
	header()

	m.font("", tableSize)
	// fresh is set only while a continuation page has a header and no rows.
	fresh := false
	for i, item := range s.Items {
		desc := m.split(item.Description, colWidths[2]-4)
		h := max(rowMinH, float64(len(desc))*rowLineH+rowPadding)
		// A row taller than a whole page is still placed under a fresh header.
		if c.y+h > tableBottom && !fresh {
			c.newPage()
			header()
			fresh = true
		}
		t.Rows = append(t.Rows, TableRow{
			Page:        c.page,
			Y:           c.y,
			Height:      h,
			Serial:      strconv.Itoa(i + 1),
			HSN:         item.HSN,
			Description: desc,
			Rate:        utils.FormatRupees(item.Rate),
			Qty:         item.Qty.String(),
			Value:       utils.FormatRupees(item.Value()),
		})
		c.y += h
		fresh = false
	}
	return t
}

func measureSummary(m fontMetrics, s models.Snapshot, c *cursor) SummaryBlock {
	tot := s.Totals()
	totalsW := contentW * totalsShare
	wordsW := contentW - totalsW - 4

	m.font("B", tableSize)
	labelW := m.width(wordsLabel)
	m.font("", tableSize)
	words := m.split(utils.NumberToCurrencyWords(tot.Total), wordsW-labelW-2*boxPadding)

	b := SummaryBlock{
		Lines: []TotalLine{
			{"Subtotal:", utils.FormatRupees(tot.Subtotal)},
			{fmt.Sprintf("CGST @ %d%%:", models.TaxRatePercent), utils.FormatRupees(tot.CGST)},
			{fmt.Sprintf("SGST @ %d%%:", models.TaxRatePercent), utils.FormatRupees(tot.SGST)},
			{"Transportation:", utils.FormatRupees(tot.Transport)},
		},
		Total:       utils.FormatRupees(tot.Total),
		LabelWidth:  labelW,
		Words:       words,
		WordsHeight: float64(len(words))*wordsLineH + 2*boxPadding,
	}
	b.TotalsHeight = float64(len(b.Lines))*totalsRowH + totalRowH
	// The tax note sits below the words box.
	b.Height = max(b.TotalsHeight, b.WordsHeight+5)

	c.fit(b.Height, sectionBottom)
	b.Page, b.Y = c.page, c.y
	c.y += b.Height + summaryAfter
	return b
}

func footerBoxW() float64 {
	return (contentW - footerGap) / 2
}

func measureTerms(m fontMetrics, terms string) []TermLine {
	width := footerBoxW() - 2*boxPadding
	var out []TermLine
	for _, line := range strings.Split(terms, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			out = append(out, TermLine{})
			continue
		}
		if prefix := numberedTerm.FindString(line); prefix != "" {
			indent := m.width(prefix)
			parts := m.split(line[len(prefix):], width-indent)
			out = append(out, TermLine{Text: prefix + parts[0]})
			for _, p := range parts[1:] {
				out = append(out, TermLine{Text: p, Indent: indent})
			}
			continue
		}
		for _, p := range m.split(line, width) {
			out = append(out, TermLine{Text: p})
		}
	}
	return out
}

func measureFooter(m fontMetrics, s models.Snapshot, c *cursor) FooterBlock {
	m.font("", tableSize)
	b := FooterBlock{
		Bank: []string{
			"Bank Name: " + s.Bank.Name,
			"Account Name: " + s.Bank.AccountName,
			"Account No: " + s.Bank.AccountNumber,
			"IFSC Code: " + s.Bank.IFSC,
			"Branch: " + s.Bank.Branch,
		},
		Terms: measureTerms(m, s.Terms),
	}
	bankH := 8 + float64(len(b.Bank))*bankLineH + 4
	b.Height = max(bankH, termsBoxH(len(b.Terms)))

	switch {
	case c.y+b.Height <= sectionBottom:
	case b.Height <= sectionBottom-margin:
		c.newPage()
	case c.y+max(bankH, termsBoxH(1)) > sectionBottom:
		c.newPage()
	}
	b.Page, b.Y = c.page, c.y

	// Terms that cannot fit below the bank box continue in boxes of their own
	// on the following pages.
	rest := b.Terms
	n := termsCapacity(sectionBottom - c.y)
	if len(rest) > n {
		b.Terms, rest = rest[:n], rest[n:]
		b.Height = max(bankH, sectionBottom-c.y)
		for len(rest) > 0 {
			c.newPage()
			k := min(len(rest), termsCapacity(sectionBottom-c.y))
			part := TermsPart{Page: c.page, Y: c.y, Height: termsBoxH(k), Terms: rest[:k]}
			b.More = append(b.More, part)
			rest = rest[k:]
			c.y += part.Height
		}
		return b
	}
	c.y += b.Height
	return b
}

func termsBoxH(lines int) float64 {
	return 8 + float64(lines)*termsLineH + 4
}

// termsCapacity is how many term lines a box of the given height can hold.
func termsCapacity(h float64) int {
	return max(1, int((h-12)/termsLineH+1e-9))
}

// The signature zone is pinned to the bottom of the last page. It moves to a
// page of its own only when the footer boxes reach into it.
func measureSignature(c *cursor) SignatureBlock {
	if c.y > sectionBottom {
		c.newPage()
	}
	c.y = signatureTop
	return SignatureBlock{Page: c.page, Y: signatureTop}
}
