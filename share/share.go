// Package share builds what is handed to a messaging app alongside an
// exported document.
package share

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"invoicepro/models"
	"invoicepro/utils"
)

const whatsAppWeb = "https://web.whatsapp.com/send"

// ErrCancelled is returned by a delivery when the operator dismissed the
// share sheet. It is not a failure.
var ErrCancelled = errors.New("share cancelled")

// Payload is everything needed to hand a document to the operator's
// messaging app. Link is the web deep link used when files cannot be
// shared natively.
type Payload struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Phone    string `json:"phone"`
	Link     string `json:"link"`
}

func Message(s models.Snapshot) string {
	return fmt.Sprintf("Hello %s,\n\nPlease find the attached %s (%s).\n\nThe total amount payable is %s.\n\nThank you,\n%s",
		s.Customer.Name, s.Kind, s.Number, utils.FormatRupeeSymbol(s.Totals().Total), s.Company.Name)
}

func Title(s models.Snapshot) string {
	return s.Kind.Label() + " - " + s.Number
}

// WhatsAppLink opens a prefilled chat with phone on WhatsApp Web.
func WhatsAppLink(phone, text string) string {
	return whatsAppWeb + "?phone=" + models.Digits(phone) + "&text=" + encodeURIComponent(text)
}

func NewPayload(s models.Snapshot) Payload {
	text := Message(s)
	return Payload{
		FileName: s.FileName(),
		MimeType: "application/pdf",
		Title:    Title(s),
		Text:     text,
		Phone:    models.Digits(s.Customer.Number),
		Link:     WhatsAppLink(s.Customer.Number, text),
	}
}

var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s like the browser function of that name.
func encodeURIComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}
