package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"invoicepro/models"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const (
	logoImage = "logo"
	qrImage   = "qr"

	qrPixels    = 256
	qrQuietZone = 8

	// maxLogoBytes caps remote logo downloads.
	maxLogoBytes = 4 << 20
)

type assetState int

const (
	assetMissing assetState = iota
	assetReady
	assetBroken
)

type assets struct {
	logo      assetState
	qr        assetState
	qrLink    string
	qrCaption string
}

// LoadLogo reads the company logo from a file path or an http(s) URL and
// normalizes it to an opaque 8-bit PNG. The context bounds remote fetches.
func LoadLogo(ctx context.Context, source string, client *http.Client) ([]byte, error) {
	if source == "" {
		return nil, nil
	}
	raw, err := readSource(ctx, source, client)
	if err != nil {
		return nil, fmt.Errorf("load logo %s: %w", source, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode logo %s: %w", source, err)
	}

	// Flatten onto white: transparency and 16-bit depth are not embeddable as-is.
	b := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, b.Min, draw.Over)

	var out bytes.Buffer
	if err := png.Encode(&out, flat); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}
	return out.Bytes(), nil
}

func readSource(ctx context.Context, source string, client *http.Client) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.ReadFile(source)
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
}

// QRCode encodes content as a square grayscale PNG with a white quiet zone.
func QRCode(content string) ([]byte, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	inner := qrPixels - 2*qrQuietZone
	code, err = barcode.Scale(code, inner, inner)
	if err != nil {
		return nil, fmt.Errorf("scale qr: %w", err)
	}

	canvas := image.NewGray(image.Rect(0, 0, qrPixels, qrPixels))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(qrQuietZone, qrQuietZone, qrQuietZone+inner, qrQuietZone+inner), code, code.Bounds().Min, draw.Src)

	var out bytes.Buffer
	if err := png.Encode(&out, canvas); err != nil {
		return nil, fmt.Errorf("encode qr png: %w", err)
	}
	return out.Bytes(), nil
}

// PaymentLink builds the UPI deep link encoded in an invoice QR code.
func PaymentLink(upiID, payee string, total string, note string) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&tn=%s&cu=INR",
		upiID, componentEscape(payee), total, componentEscape(note))
}

// componentEscape matches URI component encoding, where spaces become %20.
func componentEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// qrTarget returns the QR payload and its caption, or empty strings when the
// document kind has nothing configured to point at.
func (r *Renderer) qrTarget(s models.Snapshot) (link, caption string) {
	if s.Kind == models.Quotation {
		if r.branding.WebsiteURL == "" {
			return "", ""
		}
		caption = r.branding.QuotationQRText
		if caption == "" {
			caption = DefaultQuotationQRText
		}
		return r.branding.WebsiteURL, caption
	}
	if r.branding.UPIID == "" {
		return "", ""
	}
	total := s.Totals().Total.StringFixed(2)
	return PaymentLink(r.branding.UPIID, s.Company.Name, total, s.Number), "Scan or Click to Pay"
}
