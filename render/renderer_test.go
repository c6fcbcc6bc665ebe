package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"invoicepro/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() models.Snapshot {
	d := models.DefaultsFor(models.Invoice)
	return models.Snapshot{
		Kind:      models.Invoice,
		Number:    "INV-202507-001",
		Date:      time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC),
		Company:   d.Company,
		Customer:  models.Customer{Name: "Acme Traders", Number: "919876543210", State: "Kerala", ConsigneeGST: "-"},
		Transport: d.Transport,
		Bank:      d.Bank,
		Items: []models.LineItem{
			{ID: "1", HSN: "998314", Description: "Service", Rate: decimal.NewFromInt(1000), Qty: decimal.NewFromInt(1)},
		},
		Terms: d.Terms,
	}
}

func testRenderer() *Renderer {
	return NewRenderer(nil, Branding{UPIID: "shop@upi", WebsiteURL: "https://example.com"}, nil)
}

func TestRenderIsDeterministic(t *testing.T) {
	r := testRenderer()
	s := sampleSnapshot()

	first, err := r.Render(s)
	require.NoError(t, err)
	second, err := r.Render(s)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(first, []byte("%PDF-")))
	assert.True(t, bytes.Equal(first, second), "identical snapshots must render identical bytes")
}

func TestRenderQuotation(t *testing.T) {
	s := sampleSnapshot()
	s.Kind = models.Quotation
	s.Number = "QUO-202507-004"
	s.ValidThrough = "15 Days"

	out, err := testRenderer().Render(s)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	l := testRenderer().Measure(s)
	require.Len(t, l.Info.Right, 6)
	assert.Equal(t, []string{"Valid through:"}, l.Info.Right[2].Label)
	assert.Equal(t, "QUOTATION", l.Header.Title)
}

func TestMeasureInvoiceDetails(t *testing.T) {
	l := testRenderer().Measure(sampleSnapshot())

	require.Len(t, l.Info.Left, 5)
	assert.Equal(t, []string{"INV_001/2025-26"}, l.Info.Left[0].Value)
	assert.True(t, l.Info.Left[2].Bold)
	assert.GreaterOrEqual(t, l.Info.Height, infoMinH)

	assert.Equal(t, "Rs. 1,180.00", l.Summary.Total)
	assert.Equal(t, "One Thousand One Hundred Eighty Rupees Only.", strings.Join(l.Summary.Words, " "))
	assert.Equal(t, "CGST @ 9%:", l.Summary.Lines[1].Label)
	assert.Equal(t, "Rs. 90.00", l.Summary.Lines[1].Value)
	assert.Equal(t, 1, l.Pages)
	assert.Equal(t, l.Pages, l.Signature.Page)
}

func TestInfoBoxHeightMatchesRows(t *testing.T) {
	s := sampleSnapshot()
	s.Transport.DeliveryAddress = strings.Repeat("Warehouse 7, Industrial Estate Phase II, ", 6)
	l := testRenderer().Measure(s)

	sum := func(rows []InfoRow) float64 {
		h := 2 * infoPadding
		for _, r := range rows {
			assert.Equal(t, float64(max(len(r.Label), len(r.Value)))*infoLineH, r.Height)
			h += r.Height
		}
		return h
	}
	assert.Equal(t, max(sum(l.Info.Left), sum(l.Info.Right), infoMinH), l.Info.Height)
	assert.Greater(t, len(l.Info.Left[3].Value), 1)
}

func TestRowHeightGrowsWithDescriptionLines(t *testing.T) {
	s := sampleSnapshot()
	s.Items = []models.LineItem{
		{Description: "Short", Rate: decimal.NewFromInt(1), Qty: decimal.NewFromInt(1)},
		{Description: strings.Repeat("Long wrapped description text ", 12), Rate: decimal.NewFromInt(1), Qty: decimal.NewFromInt(1)},
		{Description: strings.Repeat("Long wrapped description text ", 24), Rate: decimal.NewFromInt(1), Qty: decimal.NewFromInt(1)},
	}
	rows := testRenderer().Measure(s).Table.Rows
	require.Len(t, rows, 3)

	assert.Equal(t, rowMinH, rows[0].Height)
	for _, r := range rows[1:] {
		n := len(r.Description)
		assert.Greater(t, n, 1)
		assert.Equal(t, float64(n)*rowLineH+rowPadding, r.Height)
	}
	assert.Greater(t, len(rows[2].Description), len(rows[1].Description))
	assert.Greater(t, rows[2].Height, rows[1].Height)
}

func TestLongTableRepeatsHeader(t *testing.T) {
	s := sampleSnapshot()
	s.Items = nil
	for i := 0; i < 60; i++ {
		s.Items = append(s.Items, models.LineItem{
			HSN: "9983", Description: "Line item", Rate: decimal.NewFromInt(10), Qty: decimal.NewFromInt(2),
		})
	}
	l := testRenderer().Measure(s)

	assert.Greater(t, l.Pages, 1)
	lastRowPage := l.Table.Rows[len(l.Table.Rows)-1].Page
	require.Len(t, l.Table.Headers, lastRowPage)
	for i, h := range l.Table.Headers {
		assert.Equal(t, i+1, h.Page)
	}
	for _, h := range l.Table.Headers[1:] {
		assert.Equal(t, margin, h.Y)
	}
	for _, r := range l.Table.Rows {
		assert.LessOrEqual(t, r.Y+r.Height, tableBottom)
	}
	assert.Equal(t, l.Pages, l.Signature.Page)

	_, err := testRenderer().Render(s)
	require.NoError(t, err)
}

func TestSectionsNeverCrossBottom(t *testing.T) {
	s := sampleSnapshot()
	s.Terms = strings.Repeat("1. A fairly long condition that will wrap inside the terms box at least once.\n", 12)
	l := testRenderer().Measure(s)

	assert.LessOrEqual(t, l.Summary.Y+l.Summary.Height, sectionBottom)
	assert.LessOrEqual(t, l.Footer.Y+l.Footer.Height, sectionBottom)
	assert.GreaterOrEqual(t, l.Footer.Page, l.Summary.Page)
	assert.Equal(t, l.Pages, l.Signature.Page)
}

func TestTallFirstRowBreaksBeforeIt(t *testing.T) {
	s := sampleSnapshot()
	s.Items = []models.LineItem{{
		HSN:         "9983",
		Description: strings.TrimSpace(strings.Repeat("Line of a very long description\n", 40)),
		Rate:        decimal.NewFromInt(10),
		Qty:         decimal.NewFromInt(1),
	}}
	l := testRenderer().Measure(s)

	require.Len(t, l.Table.Rows, 1)
	row := l.Table.Rows[0]
	assert.Equal(t, 2, row.Page)
	assert.Equal(t, margin+tableHeaderH, row.Y)
	assert.LessOrEqual(t, row.Y+row.Height, tableBottom)
	require.Len(t, l.Table.Headers, 2)
	assert.Equal(t, 2, l.Table.Headers[1].Page)
}

func TestLongTermsContinueOnNextPage(t *testing.T) {
	s := sampleSnapshot()
	var terms []string
	for i := 1; i <= 70; i++ {
		terms = append(terms, strconv.Itoa(i)+". Goods once sold will not be taken back.")
	}
	s.Terms = strings.Join(terms, "\n")
	l := testRenderer().Measure(s)

	require.NotEmpty(t, l.Footer.More)
	assert.LessOrEqual(t, l.Footer.Y+l.Footer.Height, sectionBottom)
	printed := len(l.Footer.Terms)
	page := l.Footer.Page
	for _, part := range l.Footer.More {
		assert.Equal(t, page+1, part.Page)
		assert.Equal(t, margin, part.Y)
		assert.LessOrEqual(t, part.Y+part.Height, sectionBottom)
		printed += len(part.Terms)
		page = part.Page
	}
	assert.Equal(t, 70, printed)
	last := l.Footer.More[len(l.Footer.More)-1].Terms
	assert.Equal(t, "70. Goods once sold will not be taken back.", last[len(last)-1].Text)
	assert.Equal(t, l.Pages, l.Signature.Page)

	_, err := testRenderer().Render(s)
	require.NoError(t, err)
}

func TestTermsHangingIndent(t *testing.T) {
	s := sampleSnapshot()
	s.Terms = "1. " + strings.Repeat("continuation ", 15) + "\n\nPlain closing note"
	l := testRenderer().Measure(s)

	terms := l.Footer.Terms
	require.Greater(t, len(terms), 3)
	assert.True(t, strings.HasPrefix(terms[0].Text, "1. "))
	assert.Zero(t, terms[0].Indent)
	assert.Greater(t, terms[1].Indent, 0.0)

	blank := -1
	for i, line := range terms {
		if line.Text == "" {
			blank = i
		}
	}
	require.NotEqual(t, -1, blank)
	assert.Equal(t, "Plain closing note", terms[blank+1].Text)
	assert.Zero(t, terms[blank+1].Indent)
	assert.GreaterOrEqual(t, l.Footer.Height, 8+float64(len(terms))*termsLineH+4)
}

func TestQRFailureDegrades(t *testing.T) {
	r := testRenderer()
	r.encodeQR = func(string) ([]byte, error) { return nil, errors.New("boom") }
	out, err := r.Render(sampleSnapshot())
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	a := r.registerAssets(newDocument(sampleSnapshot()), sampleSnapshot())
	assert.Equal(t, assetMissing, a.qr)

	r.encodeQR = func(string) ([]byte, error) { return []byte("not a png"), nil }
	pdf := newDocument(sampleSnapshot())
	a = r.registerAssets(pdf, sampleSnapshot())
	assert.Equal(t, assetBroken, a.qr)
	assert.False(t, pdf.Err())

	_, err = r.Render(sampleSnapshot())
	require.NoError(t, err)
}

func TestQRTargets(t *testing.T) {
	r := testRenderer()
	link, caption := r.qrTarget(sampleSnapshot())
	assert.Equal(t, "upi://pay?pa=shop@upi&pn=Your%20Company%20Name&am=1180.00&tn=INV-202507-001&cu=INR", link)
	assert.Equal(t, "Scan or Click to Pay", caption)

	q := sampleSnapshot()
	q.Kind = models.Quotation
	link, caption = r.qrTarget(q)
	assert.Equal(t, "https://example.com", link)
	assert.Equal(t, DefaultQuotationQRText, caption)

	link, _ = NewRenderer(nil, Branding{}, nil).qrTarget(q)
	assert.Empty(t, link)
}

func TestQRCodeIsEmbeddable(t *testing.T) {
	img, err := QRCode("https://example.com")
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, qrPixels, decoded.Bounds().Dx())

	r := testRenderer()
	pdf := newDocument(sampleSnapshot())
	a := r.registerAssets(pdf, sampleSnapshot())
	assert.Equal(t, assetReady, a.qr)
}

func writePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 12))
	for x := 0; x < 40; x++ {
		img.Set(x, 6, color.NRGBA{R: 200, A: 128})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadLogoFromFileAndURL(t *testing.T) {
	raw := writePNG(t)
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	logo, err := LoadLogo(context.Background(), path, nil)
	require.NoError(t, err)
	r := NewRenderer(logo, Branding{}, nil)
	a := r.registerAssets(newDocument(sampleSnapshot()), sampleSnapshot())
	assert.Equal(t, assetReady, a.logo)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/logo.png" {
			http.NotFound(w, req)
			return
		}
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	logo, err = LoadLogo(context.Background(), srv.URL+"/logo.png", srv.Client())
	require.NoError(t, err)
	assert.NotEmpty(t, logo)

	_, err = LoadLogo(context.Background(), srv.URL+"/missing.png", srv.Client())
	assert.Error(t, err)

	logo, err = LoadLogo(context.Background(), "", nil)
	assert.NoError(t, err)
	assert.Nil(t, logo)
}

func TestBrokenLogoDegrades(t *testing.T) {
	r := NewRenderer([]byte("garbage"), Branding{}, nil)
	pdf := newDocument(sampleSnapshot())
	a := r.registerAssets(pdf, sampleSnapshot())
	assert.Equal(t, assetBroken, a.logo)

	out, err := r.Render(sampleSnapshot())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Rs.500 - net", sanitize("₹500 – net"))
	assert.Equal(t, `"quoted" it's`, sanitize("“quoted” it’s"))
	assert.Equal(t, "caf? ok", sanitize("café ok"))
	assert.Equal(t, "a\nb", sanitize("a\r\nb"))
	assert.Equal(t, "plain", sanitize("plain"))
}

func TestUnicodeContentRenders(t *testing.T) {
	s := sampleSnapshot()
	s.Items[0].Description = "Design – phase ₹ 1 ✓ 日本"
	s.Customer.Name = "Müller & Søn"
	_, err := testRenderer().Render(s)
	assert.NoError(t, err)
}
