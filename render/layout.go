package render

// Page geometry in millimetres (A4 portrait).
const (
	pageW    = 210.0
	pageH    = 297.0
	margin   = 12.0
	contentW = pageW - 2*margin

	fontFamily = "Helvetica"
	dateLayout = "2006-01-02"
)

const (
	headerY       = margin + 8
	logoW         = 58.0
	logoH         = 16.0
	titleSize     = 22.0
	companySize   = 8.0
	companyLineH  = 4.0
	companyWrapW  = contentW / 2.8
	headerRuleGap = 6.0

	infoSize     = 8.5
	infoBoxW     = contentW / 2
	infoLabelCol = 32.0
	infoPadding  = 4.0
	infoLineH    = 5.0
	infoMinH     = 30.0
	infoGap      = 6.0

	tableHeaderH    = 8.0
	tableHeaderSize = 9.0
	tableSize       = 8.0
	rowMinH         = 8.0
	rowLineH        = 4.0
	rowPadding      = 4.0
	// Rows may not extend below this line; the rest of the page is kept for the summary.
	tableBottom = pageH - 60

	summaryGap   = 5.0
	totalsRowH   = 6.0
	totalRowH    = 8.0
	totalsShare  = 0.45
	wordsLineH   = 4.0
	boxPadding   = 4.0
	wordsLabel   = "Amount in Words: "
	taxExtraNote = "18% GST EXTRA"
	summaryAfter = 10.0

	footerGap  = 8.0
	bankLineH  = 5.0
	termsLineH = 4.5

	signatureTop = pageH - 40
	// Sections must end above the signature zone, leaving a small gap.
	sectionBottom = signatureTop - 5
	qrSize        = 24.0
)

var (
	tableHeaders = [...]string{"Sl. No.", "HSN", "Description", "Rate", "Qty", "Value"}
	colWidths    = [...]float64{14, 16, contentW - 14 - 16 - 25 - 15 - 32, 25, 15, 32}
)

// Layout is the result of the measuring pass: every wrapped line, height and
// page assignment the drawing pass needs.
type Layout struct {
	Pages     int
	Header    HeaderBlock
	Info      InfoBlock
	Table     TableBlock
	Summary   SummaryBlock
	Footer    FooterBlock
	Signature SignatureBlock
}

type HeaderBlock struct {
	Title        string
	CompanyTop   float64 // baseline of the first company line
	CompanyLines []string
	RuleY        float64
}

type InfoRow struct {
	Label  []string
	Value  []string
	Bold   bool
	Height float64
}

type InfoBlock struct {
	Y      float64
	Height float64
	Left   []InfoRow
	Right  []InfoRow
}

type TableHeader struct {
	Page int
	Y    float64
}

type TableRow struct {
	Page        int
	Y           float64
	Height      float64
	Serial      string
	HSN         string
	Description []string
	Rate        string
	Qty         string
	Value       string
}

type TableBlock struct {
	Headers []TableHeader
	Rows    []TableRow
}

type TotalLine struct {
	Label string
	Value string
}

type SummaryBlock struct {
	Page         int
	Y            float64
	Height       float64
	Lines        []TotalLine
	Total        string
	TotalsHeight float64
	LabelWidth   float64
	Words        []string
	WordsHeight  float64
}

// TermLine is one printed line of terms; an empty Text is a blank spacer line.
type TermLine struct {
	Text   string
	Indent float64
}

type FooterBlock struct {
	Page   int
	Y      float64
	Height float64
	Bank   []string
	Terms  []TermLine
	More   []TermsPart
}

// TermsPart is a continuation of the terms box on a later page.
type TermsPart struct {
	Page   int
	Y      float64
	Height float64
	Terms  []TermLine
}

type SignatureBlock struct {
	Page int
	Y    float64
}

// cursor tracks the current page and vertical position while measuring.
type cursor struct {
	page int
	y    float64
}

func (c *cursor) newPage() {
	c.page++
	c.y = margin
}

// fit starts a new page when a block of height h would cross bottom.
func (c *cursor) fit(h, bottom float64) {
	if c.y+h > bottom {
		c.newPage()
	}
}
