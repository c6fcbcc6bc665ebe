package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"strconv"
	"time"

	"invoicepro/models"
	"invoicepro/utils"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

//go:embed templates/print.html
var templateFS embed.FS

var printTemplate = template.Must(template.ParseFS(templateFS, "templates/print.html"))

type printRow struct {
	Label string
	Value string
	Bold  bool
}

type printItem struct {
	Serial      string
	HSN         string
	Description string
	Rate        string
	Qty         string
	Value       string
}

type printData struct {
	Label     string
	Title     string
	Number    string
	Company   models.Company
	Bank      models.Bank
	Left      []printRow
	Right     []printRow
	Rows      []printItem
	Totals    []TotalLine
	Total     string
	Words     string
	TaxNote   string
	Terms     string
	QRLink    string
	QRCaption string
}

// PrintRenderer produces a browser-style print copy of a snapshot by running
// an HTML template through headless Chrome.
type PrintRenderer struct {
	renderer *Renderer
	timeout  time.Duration
	logger   *slog.Logger
	opts     []chromedp.ContextOption
}

func NewPrintRenderer(r *Renderer, timeout time.Duration, logger *slog.Logger) *PrintRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrintRenderer{
		renderer: r,
		timeout:  timeout,
		logger:   logger.With("component", "print"),
	}
}

func (p *PrintRenderer) data(s models.Snapshot) printData {
	tot := s.Totals()
	left, right := infoDetails(s)
	rows := func(ds []detail) []printRow {
		out := make([]printRow, len(ds))
		for i, d := range ds {
			out[i] = printRow{Label: d.label, Value: d.value, Bold: d.bold}
		}
		return out
	}

	items := make([]printItem, len(s.Items))
	for i, it := range s.Items {
		items[i] = printItem{
			Serial:      strconv.Itoa(i + 1),
			HSN:         it.HSN,
			Description: it.Description,
			Rate:        utils.FormatRupeeSymbol(it.Rate),
			Qty:         it.Qty.String(),
			Value:       utils.FormatRupeeSymbol(it.Value()),
		}
	}

	link, caption := p.renderer.qrTarget(s)
	return printData{
		Label:   s.Kind.Label(),
		Title:   s.Kind.Title(),
		Number:  s.Number,
		Company: s.Company,
		Bank:    s.Bank,
		Left:    rows(left),
		Right:   rows(right),
		Rows:    items,
		Totals: []TotalLine{
			{"Subtotal:", utils.FormatRupeeSymbol(tot.Subtotal)},
			{fmt.Sprintf("CGST @ %d%%:", models.TaxRatePercent), utils.FormatRupeeSymbol(tot.CGST)},
			{fmt.Sprintf("SGST @ %d%%:", models.TaxRatePercent), utils.FormatRupeeSymbol(tot.SGST)},
			{"Transportation:", utils.FormatRupeeSymbol(tot.Transport)},
		},
		Total:     utils.FormatRupeeSymbol(tot.Total),
		Words:     utils.NumberToCurrencyWords(tot.Total),
		TaxNote:   taxExtraNote,
		Terms:     s.Terms,
		QRLink:    link,
		QRCaption: caption,
	}
}

// HTML returns the print page for s.
func (p *PrintRenderer) HTML(s models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, p.data(s)); err != nil {
		return nil, fmt.Errorf("execute print template: %w", err)
	}
	return buf.Bytes(), nil
}

// Print renders s to an A4 PDF in headless Chrome. The whole browser session
// is bounded by the configured timeout.
func (p *PrintRenderer) Print(ctx context.Context, s models.Snapshot) ([]byte, error) {
	html, err := p.HTML(s)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "print_*.html")
	if err != nil {
		return nil, fmt.Errorf("create print page: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(html); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write print page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("write print page: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	ctx, cancel := chromedp.NewContext(ctx, p.opts...)
	defer cancel()

	start := time.Now()
	var out []byte
	err = chromedp.Run(ctx,
		chromedp.Navigate("file://"+tmp.Name()),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			out, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.7).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print %s %s: %w", s.Kind, s.Number, err)
	}
	p.logger.Debug("print copy rendered", "kind", s.Kind, "number", s.Number, "elapsed", time.Since(start))
	return out, nil
}
