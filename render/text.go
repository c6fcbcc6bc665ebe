package render

import (
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// The core Helvetica font only carries single-byte glyph widths, so every
// string is reduced to printable ASCII before it is measured or drawn.
var replacements = map[rune]string{
	'\u20b9': "Rs.",
	'\u2013': "-",
	'\u2014': "-",
	'\u2010': "-",
	'\u2018': "'",
	'\u2019': "'",
	'\u201c': `"`,
	'\u201d': `"`,
	'\u2026': "...",
	'\u2022': "-",
	'\u00d7': "x",
	'\u00a0': " ",
	'\t':     " ",
}

func sanitize(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 0x7f || (c < 0x20 && c != '\n') {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || (r >= 0x20 && r < 0x7f):
			b.WriteRune(r)
		case r == '\r':
		default:
			if rep, ok := replacements[r]; ok {
				b.WriteString(rep)
			} else {
				b.WriteByte('?')
			}
		}
	}
	return b.String()
}

// fontMetrics answers width and wrapping questions with the same font tables
// that the drawing pass uses.
type fontMetrics struct {
	pdf *gofpdf.Fpdf
}

func (m fontMetrics) font(style string, size float64) {
	m.pdf.SetFont(fontFamily, style, size)
}

func (m fontMetrics) width(s string) float64 {
	return m.pdf.GetStringWidth(sanitize(s))
}

// split wraps s to width w. It always returns at least one line so an empty
// value still occupies a row.
func (m fontMetrics) split(s string, w float64) []string {
	lines := m.pdf.SplitText(sanitize(s), w)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
