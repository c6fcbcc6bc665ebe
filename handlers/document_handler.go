package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"invoicepro/builder"
	"invoicepro/export"
	"invoicepro/models"
	"invoicepro/session"
	"invoicepro/share"
	"invoicepro/validation"

	"github.com/go-chi/chi/v5"
)

// Counters supplies the session's next sequence per kind.
type Counters interface {
	Current(kind models.Kind) int
}

type Printer interface {
	Print(ctx context.Context, s models.Snapshot) ([]byte, error)
}

type DocumentHandler struct {
	Counters     Counters
	Orchestrator *export.Orchestrator
	Printer      Printer
	Logger       *slog.Logger
	Now          func() time.Time
}

type formResponse struct {
	Form         builder.Form          `json:"form"`
	Number       string                `json:"number"`
	CountryCodes []builder.CountryCode `json:"country_codes"`
}

type switchRequest struct {
	Form builder.Form `json:"form" validate:"required"`
	To   models.Kind  `json:"to" validate:"required,oneof=invoice quotation"`
}

type shareRequest struct {
	Form          builder.Form `json:"form" validate:"required"`
	CanShareFiles bool         `json:"can_share_files"`
}

type completeRequest struct {
	Kind     models.Kind `json:"kind" validate:"required,oneof=invoice quotation"`
	FileName string      `json:"file_name" validate:"required"`
	Shared   *bool       `json:"shared" validate:"required"`
}

type shareResponse struct {
	export.Result
	PDF []byte `json:"pdf"`
}

func (h *DocumentHandler) today() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *DocumentHandler) snapshot(f builder.Form) models.Snapshot {
	return builder.Build(f, h.Counters.Current(f.Kind), h.today())
}

func (h *DocumentHandler) respond(w http.ResponseWriter, f builder.Form) {
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data: formResponse{
			Form:         f,
			Number:       h.snapshot(f).Number,
			CountryCodes: builder.CountryCodes,
		},
	})
}

// Defaults answers the default form of a kind, numbered from the session counter.
func (h *DocumentHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.respond(w, builder.NewForm(kind, h.today()))
}

func (h *DocumentHandler) Switch(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w, builder.SwitchKind(req.Form, req.To))
}

func (h *DocumentHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var f builder.Form
	if err := decodeJSON(w, r, &f); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s := h.snapshot(f)
	problems := validation.Validate(s, models.DefaultsFor(s.Kind))
	if problems == nil {
		problems = []string{}
	}
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: len(problems) == 0,
		Data:    map[string]interface{}{"number": s.Number, "errors": problems},
	})
}

func writePDF(w http.ResponseWriter, name string, pdf []byte, disposition string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", disposition+`; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func statusFor(err error) int {
	var ve *export.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, export.ErrRender):
		return http.StatusInternalServerError
	case errors.Is(err, export.ErrNoPendingShare):
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

// PDF renders the form and returns the file as a download. Numbering does
// not move.
func (h *DocumentHandler) PDF(w http.ResponseWriter, r *http.Request) {
	var f builder.Form
	if err := decodeJSON(w, r, &f); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d := &responseDelivery{}
	res, err := h.Orchestrator.Download(r.Context(), h.snapshot(f), d)
	if err != nil {
		writeError(w, statusFor(err), export.UserMessage(err))
		return
	}
	writePDF(w, res.FileName, d.pdf, "attachment")
}

// Print returns the headless-browser print copy of the form.
func (h *DocumentHandler) Print(w http.ResponseWriter, r *http.Request) {
	var f builder.Form
	if err := decodeJSON(w, r, &f); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s := h.snapshot(f)
	if problems := validation.Validate(s, models.DefaultsFor(s.Kind)); len(problems) > 0 {
		err := &export.ValidationError{Action: export.ActionDownload, Problems: problems}
		writeError(w, http.StatusUnprocessableEntity, export.UserMessage(err))
		return
	}
	pdf, err := h.Printer.Print(r.Context(), s)
	if err != nil {
		h.Logger.Error("print copy failed", "kind", s.Kind, "number", s.Number, "error", err)
		writeError(w, http.StatusBadGateway, "Could not prepare the print copy. Please try again.")
		return
	}
	writePDF(w, s.FileName(), pdf, "inline")
}

// Share uploads the document and returns the share payload with the PDF.
// The client performs the native share or the download plus WhatsApp link.
// A native share stays pending until the client reports it through Complete.
func (h *DocumentHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d := &responseDelivery{native: req.CanShareFiles}
	res, err := h.Orchestrator.Share(r.Context(), h.snapshot(req.Form), d)
	if err != nil {
		writeError(w, statusFor(err), export.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Uploaded to Drive",
		Data:    shareResponse{Result: res, PDF: d.pdf},
	})
}

// Complete records how the client's native share sheet ended.
func (h *DocumentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.Orchestrator.Complete(req.Kind, req.FileName, *req.Shared)
	switch {
	case errors.Is(err, share.ErrCancelled):
		writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Share cancelled", Data: res})
	case err != nil:
		writeError(w, statusFor(err), export.UserMessage(err))
	default:
		writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Shared", Data: res})
	}
}

// responseDelivery hands the document to the HTTP client: it keeps the PDF
// for the response body and lets the client act on the payload.
type responseDelivery struct {
	native bool
	pdf    []byte
}

func (d *responseDelivery) CanShareFiles() bool { return d.native }

// ConfirmsLater is always true: the share sheet opens on the client after
// the response is sent.
func (d *responseDelivery) ConfirmsLater() bool { return true }

func (d *responseDelivery) ShareFiles(_ context.Context, _ share.Payload, pdf []byte) error {
	d.pdf = pdf
	return nil
}

func (d *responseDelivery) Download(_ context.Context, _ string, pdf []byte) error {
	d.pdf = pdf
	return nil
}

// OpenLink is a no-op; the link travels back in the result payload.
func (d *responseDelivery) OpenLink(context.Context, string) error { return nil }
