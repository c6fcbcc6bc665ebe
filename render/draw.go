package render

import (
	"github.com/jung-kurt/gofpdf"
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

type anchor int

const (
	anchorBaseline anchor = iota
	anchorTop
	anchorMiddle
)

// Helvetica cap height as a fraction of the font size.
const capHeight = 0.72

type drawer struct {
	pdf    *gofpdf.Fpdf
	page   int
	assets assets
}

func (d *drawer) toPage(page int) {
	for d.page < page {
		d.pdf.AddPage()
		d.page++
	}
}

func (d *drawer) font(style string, size float64) {
	d.pdf.SetFont(fontFamily, style, size)
}

func (d *drawer) text(x, y float64, s string, a align, v anchor) {
	s = sanitize(s)
	_, size := d.pdf.GetFontSize()
	switch v {
	case anchorTop:
		y += size * capHeight
	case anchorMiddle:
		y += size * capHeight / 2
	}
	switch a {
	case alignCenter:
		x -= d.pdf.GetStringWidth(s) / 2
	case alignRight:
		x -= d.pdf.GetStringWidth(s)
	}
	d.pdf.Text(x, y, s)
}

// linkText draws s centered on x and makes its box clickable.
func (d *drawer) linkText(x, y float64, s, url string) {
	s = sanitize(s)
	_, size := d.pdf.GetFontSize()
	w := d.pdf.GetStringWidth(s)
	d.pdf.Text(x-w/2, y, s)
	d.pdf.LinkString(x-w/2, y-size*capHeight, w, size, url)
}

func (d *drawer) gray(level int) {
	d.pdf.SetDrawColor(level, level, level)
}

func drawLayout(pdf *gofpdf.Fpdf, l Layout, a assets) {
	d := &drawer{pdf: pdf, assets: a}
	d.toPage(1)
	d.pdf.SetTextColor(0, 0, 0)
	d.header(l.Header)
	d.info(l.Info)
	d.table(l.Table)
	d.summary(l.Summary)
	d.footer(l.Footer)
	d.signature(l.Signature)
}

func (d *drawer) header(h HeaderBlock) {
	switch d.assets.logo {
	case assetReady:
		d.pdf.ImageOptions(logoImage, margin, headerY-logoH/2, logoW, logoH, false,
			gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	case assetBroken:
		d.font("", 10)
		d.text(margin, headerY, "[Company Logo]", alignLeft, anchorBaseline)
	default:
		d.font("", 8)
		d.text(margin, headerY, "[Company Logo Not Found]", alignLeft, anchorBaseline)
	}

	d.font("B", titleSize)
	d.text(pageW/2, headerY, h.Title, alignCenter, anchorBaseline)

	d.font("", companySize)
	for i, line := range h.CompanyLines {
		d.text(pageW-margin, h.CompanyTop+float64(i)*companyLineH, line, alignRight, anchorBaseline)
	}

	d.pdf.SetLineWidth(0.5)
	d.pdf.Line(margin, h.RuleY, pageW-margin, h.RuleY)
}

func (d *drawer) info(b InfoBlock) {
	d.gray(200)
	d.pdf.SetLineWidth(0.3)
	d.pdf.SetFillColor(242, 242, 242)
	d.pdf.Rect(margin, b.Y, contentW, b.Height, "F")
	d.pdf.Rect(margin, b.Y, contentW, b.Height, "D")
	d.pdf.Line(margin+infoBoxW, b.Y, margin+infoBoxW, b.Y+b.Height)

	d.infoColumn(margin, b.Y, b.Left)
	d.infoColumn(margin+infoBoxW, b.Y, b.Right)
}

func (d *drawer) infoColumn(x, y float64, rows []InfoRow) {
	labelX := x + infoPadding
	valueX := labelX + infoLabelCol
	textY := y + infoPadding + 2
	for _, row := range rows {
		d.font("", infoSize)
		for i, line := range row.Label {
			d.text(labelX, textY+float64(i)*infoLineH, line, alignLeft, anchorTop)
		}
		if row.Bold {
			d.font("B", infoSize)
		}
		for i, line := range row.Value {
			d.text(valueX, textY+float64(i)*infoLineH, line, alignLeft, anchorTop)
		}
		textY += row.Height
	}
}

func (d *drawer) tableHeader(h TableHeader) {
	d.toPage(h.Page)
	d.pdf.SetFillColor(173, 173, 173)
	d.pdf.Rect(margin, h.Y, contentW, tableHeaderH, "F")
	d.font("B", tableHeaderSize)
	x := margin
	for i, title := range tableHeaders {
		d.text(x+colWidths[i]/2, h.Y+5.5, title, alignCenter, anchorBaseline)
		x += colWidths[i]
	}
}

func (d *drawer) table(t TableBlock) {
	next := 0
	for _, row := range t.Rows {
		for next < len(t.Headers) && t.Headers[next].Page <= row.Page {
			d.tableHeader(t.Headers[next])
			next++
		}
		d.row(row)
	}
	for ; next < len(t.Headers); next++ {
		d.tableHeader(t.Headers[next])
	}
}

func (d *drawer) row(r TableRow) {
	d.toPage(r.Page)
	d.font("", tableSize)
	d.gray(222)
	d.pdf.SetLineWidth(0.3)

	mid := r.Y + r.Height/2
	x := margin
	d.text(x+colWidths[0]/2, mid, r.Serial, alignCenter, anchorMiddle)
	x += colWidths[0]
	d.text(x+colWidths[1]/2, mid, r.HSN, alignCenter, anchorMiddle)
	x += colWidths[1]
	for i, line := range r.Description {
		d.text(x+2, r.Y+rowPadding/2+float64(i)*rowLineH, line, alignLeft, anchorTop)
	}
	x += colWidths[2]
	d.text(x+colWidths[3]-2, mid, r.Rate, alignRight, anchorMiddle)
	x += colWidths[3]
	d.text(x+colWidths[4]/2, mid, r.Qty, alignCenter, anchorMiddle)
	x += colWidths[4]
	d.text(x+colWidths[5]-2, mid, r.Value, alignRight, anchorMiddle)

	x = margin
	d.pdf.Line(x, r.Y, x, r.Y+r.Height)
	for _, w := range colWidths {
		x += w
		d.pdf.Line(x, r.Y, x, r.Y+r.Height)
	}
	d.pdf.Line(margin, r.Y+r.Height, margin+contentW, r.Y+r.Height)
}

func (d *drawer) summary(b SummaryBlock) {
	d.toPage(b.Page)
	totalsW := contentW * totalsShare
	totalsX := pageW - margin - totalsW
	valueX := pageW - margin - 4

	d.gray(200)
	d.pdf.SetLineWidth(0.3)
	d.pdf.Rect(totalsX, b.Y, totalsW, b.TotalsHeight, "D")

	d.font("", tableSize)
	for i, line := range b.Lines {
		lineY := b.Y + float64(i)*totalsRowH
		d.text(totalsX+4, lineY+4.5, line.Label, alignLeft, anchorBaseline)
		d.text(valueX, lineY+4.5, line.Value, alignRight, anchorBaseline)
		if i < len(b.Lines)-1 {
			d.pdf.SetLineWidth(0.2)
			d.pdf.Line(totalsX+1, lineY+totalsRowH, totalsX+totalsW-1, lineY+totalsRowH)
		}
	}

	totalY := b.Y + float64(len(b.Lines))*totalsRowH
	d.pdf.SetLineWidth(0.4)
	d.pdf.Line(totalsX, totalY, totalsX+totalsW, totalY)
	d.pdf.SetFillColor(196, 196, 196)
	d.pdf.Rect(totalsX, totalY, totalsW, totalRowH, "F")
	d.font("B", tableSize)
	d.text(totalsX+4, totalY+5.5, "Total:", alignLeft, anchorBaseline)
	d.text(valueX, totalY+5.5, b.Total, alignRight, anchorBaseline)

	wordsW := contentW - totalsW - 4
	d.pdf.SetLineWidth(0.3)
	d.pdf.Rect(margin, b.Y, wordsW, b.WordsHeight, "D")
	textY := b.Y + boxPadding + 1
	d.text(margin+boxPadding, textY, wordsLabel, alignLeft, anchorTop)
	d.font("", tableSize)
	for i, line := range b.Words {
		d.text(margin+boxPadding+b.LabelWidth, textY+float64(i)*wordsLineH, line, alignLeft, anchorTop)
	}
	d.font("B", tableSize)
	d.text(margin, b.Y+b.WordsHeight+4, taxExtraNote, alignLeft, anchorBaseline)
}

func (d *drawer) footer(b FooterBlock) {
	d.toPage(b.Page)
	boxW := footerBoxW()
	d.gray(200)
	d.pdf.SetLineWidth(0.3)

	d.pdf.Rect(margin, b.Y, boxW, b.Height, "D")
	d.font("B", tableSize)
	d.text(margin+boxPadding, b.Y+6, "Bank Information", alignLeft, anchorBaseline)
	d.font("", tableSize)
	for i, line := range b.Bank {
		d.text(margin+boxPadding, b.Y+13+float64(i)*bankLineH, line, alignLeft, anchorBaseline)
	}

	d.terms(b.Y, b.Height, "Terms & Conditions", b.Terms)
	for _, part := range b.More {
		d.toPage(part.Page)
		d.gray(200)
		d.pdf.SetLineWidth(0.3)
		d.terms(part.Y, part.Height, "Terms & Conditions (contd.)", part.Terms)
	}
}

func (d *drawer) terms(y, height float64, title string, lines []TermLine) {
	boxW := footerBoxW()
	x := margin + boxW + footerGap
	d.pdf.Rect(x, y, boxW, height, "D")
	d.font("B", tableSize)
	d.text(x+boxPadding, y+6, title, alignLeft, anchorBaseline)
	d.font("", tableSize)
	for i, line := range lines {
		if line.Text == "" {
			continue
		}
		d.text(x+boxPadding+line.Indent, y+8+float64(i)*termsLineH, line.Text, alignLeft, anchorTop)
	}
}

func (d *drawer) signature(b SignatureBlock) {
	d.toPage(b.Page)
	d.gray(200)
	d.pdf.SetLineWidth(0.3)
	d.pdf.Line(margin, b.Y, margin+contentW, b.Y)

	qrX := pageW/2 - qrSize/2
	d.font("", tableSize)
	switch d.assets.qr {
	case assetReady:
		d.pdf.ImageOptions(qrImage, qrX, b.Y, qrSize, qrSize, false,
			gofpdf.ImageOptions{ImageType: "PNG"}, 0, d.assets.qrLink)
		d.pdf.SetTextColor(0, 0, 255)
		d.linkText(pageW/2, b.Y+qrSize+4, d.assets.qrCaption, d.assets.qrLink)
		d.pdf.SetTextColor(0, 0, 0)
	case assetBroken:
		d.text(pageW/2, b.Y+qrSize/2, "[QR Code Error]", alignCenter, anchorBaseline)
	default:
		d.text(pageW/2, b.Y+qrSize/2, "[QR Code Not Available]", alignCenter, anchorBaseline)
	}

	sigY := b.Y + 20
	underline := "___________________________"
	d.text(margin, sigY, underline, alignLeft, anchorBaseline)
	d.text(pageW-margin, sigY, underline, alignRight, anchorBaseline)
	d.font("B", tableSize)
	d.text(margin, sigY+5, "Receiver Sign", alignLeft, anchorBaseline)
	d.text(pageW-margin, sigY+5, "Authorized Signature", alignRight, anchorBaseline)
	d.text(pageW/2, sigY+12, "Thank You for Business. We are Looking forward to you!", alignCenter, anchorBaseline)
}
