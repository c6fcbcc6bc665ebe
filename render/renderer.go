package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"invoicepro/metrics"
	"invoicepro/models"

	"github.com/jung-kurt/gofpdf"
)

const DefaultQuotationQRText = "Visit our Website"

// Branding configures the QR code printed in the signature zone.
type Branding struct {
	UPIID           string
	WebsiteURL      string
	QuotationQRText string
}

// Renderer lays out snapshots as A4 PDF documents. It holds no mutable state
// and is safe for concurrent use.
type Renderer struct {
	logo     []byte
	branding Branding
	logger   *slog.Logger
	encodeQR func(string) ([]byte, error)
}

// NewRenderer takes the normalized logo from LoadLogo; nil prints a placeholder.
func NewRenderer(logo []byte, branding Branding, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		logo:     logo,
		branding: branding,
		logger:   logger.With("component", "render"),
		encodeQR: QRCode,
	}
}

func newDocument(s models.Snapshot) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetCatalogSort(true)

	stamp := s.Date
	if stamp.IsZero() {
		stamp = time.Unix(0, 0).UTC()
	}
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetTitle(sanitize(fmt.Sprintf("%s %s", s.Kind.Label(), s.Number)), false)
	pdf.SetCreator("invoicepro", false)
	return pdf
}

// Measure runs only the layout pass.
func (r *Renderer) Measure(s models.Snapshot) Layout {
	return measure(fontMetrics{pdf: newDocument(s)}, s)
}

// Render produces the PDF bytes for s. The output depends on s alone, so
// equal snapshots render to identical bytes. Logo and QR problems are
// logged and replaced by placeholders.
func (r *Renderer) Render(s models.Snapshot) ([]byte, error) {
	start := time.Now()
	pdf := newDocument(s)
	a := r.registerAssets(pdf, s)
	l := measure(fontMetrics{pdf: pdf}, s)
	if len(l.Footer.More) > 0 {
		r.logger.Warn("terms overflow the footer box, continuing on following pages",
			"kind", s.Kind, "number", s.Number, "continuations", len(l.Footer.More))
	}
	drawLayout(pdf, l, a)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render %s %s: %w", s.Kind, s.Number, err)
	}
	metrics.ObserveRender(string(s.Kind), time.Since(start))
	r.logger.Debug("document rendered", "kind", s.Kind, "number", s.Number, "pages", l.Pages, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func (r *Renderer) registerAssets(pdf *gofpdf.Fpdf, s models.Snapshot) assets {
	var a assets

	if len(r.logo) > 0 {
		pdf.RegisterImageOptionsReader(logoImage, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(r.logo))
		if err := pdf.Error(); err != nil {
			r.logger.Warn("company logo unusable, printing placeholder", "error", err)
			metrics.AssetFallback("logo")
			pdf.ClearError()
			a.logo = assetBroken
		} else {
			a.logo = assetReady
		}
	} else {
		r.logger.Debug("company logo not configured, printing placeholder")
	}

	link, caption := r.qrTarget(s)
	if link == "" {
		return a
	}
	img, err := r.encodeQR(link)
	if err != nil {
		r.logger.Warn("qr code generation failed", "kind", s.Kind, "error", err)
		metrics.AssetFallback("qr")
		return a
	}
	pdf.RegisterImageOptionsReader(qrImage, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img))
	if err := pdf.Error(); err != nil {
		r.logger.Warn("qr code image unusable", "kind", s.Kind, "error", err)
		metrics.AssetFallback("qr")
		pdf.ClearError()
		a.qr = assetBroken
		return a
	}
	a.qr, a.qrLink, a.qrCaption = assetReady, link, caption
	return a
}
