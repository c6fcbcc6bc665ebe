// Package export runs a document from snapshot to the operator: validate,
// render, then download or upload and share.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"invoicepro/metrics"
	"invoicepro/models"
	"invoicepro/numbering"
	"invoicepro/session"
	"invoicepro/share"
	"invoicepro/storage"
	"invoicepro/validation"
)

type Action string

const (
	ActionDownload Action = "download"
	ActionShare    Action = "share"
)

var (
	ErrRender         = errors.New("pdf generation failed")
	ErrNoPendingShare = errors.New("no share awaiting confirmation")
)

// ValidationError carries every problem found in a snapshot.
type ValidationError struct {
	Action   Action
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d validation problem(s): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

type Renderer interface {
	Render(s models.Snapshot) ([]byte, error)
}

type Uploader interface {
	Upload(ctx context.Context, folder, name string, content []byte) (storage.File, error)
}

type Counter interface {
	Advance(kind models.Kind) int
}

// Delivery hands a finished PDF to the operator. ShareFiles returns
// share.ErrCancelled when the operator backs out.
type Delivery interface {
	CanShareFiles() bool
	ShareFiles(ctx context.Context, p share.Payload, pdf []byte) error
	Download(ctx context.Context, name string, pdf []byte) error
	OpenLink(ctx context.Context, url string) error
}

// Confirmer is implemented by deliveries whose native share finishes out of
// band. When ConfirmsLater reports true the counter is left for Complete.
type Confirmer interface {
	ConfirmsLater() bool
}

type Result struct {
	FileName string         `json:"file_name"`
	File     *storage.File  `json:"file,omitempty"`
	Payload  *share.Payload `json:"payload,omitempty"`
	Native   bool           `json:"native"`
	Pending  bool           `json:"pending,omitempty"`
	Next     int            `json:"next,omitempty"`
}

type pendingShare struct {
	fileName string
	token    string
}

type Orchestrator struct {
	renderer Renderer
	uploader Uploader
	counters Counter
	session  *session.Manager
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[models.Kind]pendingShare
}

func New(r Renderer, u Uploader, c Counter, sm *session.Manager, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		renderer: r,
		uploader: u,
		counters: c,
		session:  sm,
		logger:   logger.With("component", "export"),
		pending:  make(map[models.Kind]pendingShare),
	}
}

func validate(s models.Snapshot, action Action) error {
	if problems := validation.Validate(s, models.DefaultsFor(s.Kind)); len(problems) > 0 {
		return &ValidationError{Action: action, Problems: problems}
	}
	return nil
}

func (o *Orchestrator) render(s models.Snapshot) ([]byte, error) {
	pdf, err := o.renderer.Render(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return pdf, nil
}

func (o *Orchestrator) record(s models.Snapshot, action Action, err error) {
	outcome := "success"
	var ve *ValidationError
	switch {
	case err == nil:
	case errors.As(err, &ve):
		outcome = "invalid"
	case errors.Is(err, share.ErrCancelled):
		outcome = "cancelled"
	default:
		outcome = "failed"
		o.logger.Error("export failed", "action", action, "kind", s.Kind, "number", s.Number, "error", err)
	}
	metrics.Export(string(s.Kind), string(action), outcome)
}

// Download validates and renders s and hands it over as a file. Numbering
// is left alone.
func (o *Orchestrator) Download(ctx context.Context, s models.Snapshot, d Delivery) (res Result, err error) {
	defer func() { o.record(s, ActionDownload, err) }()

	if err := validate(s, ActionDownload); err != nil {
		return Result{}, err
	}
	pdf, err := o.render(s)
	if err != nil {
		return Result{}, err
	}
	name := s.FileName()
	if err := d.Download(ctx, name, pdf); err != nil {
		return Result{}, fmt.Errorf("download: %w", err)
	}
	return Result{FileName: name}, nil
}

// Share validates, renders, uploads to the kind's folder and delivers s.
// The kind's counter advances only when every step succeeded.
//
// A native share through a Confirmer is left pending: the counter moves only
// when Complete reports that the operator finished sharing.
func (o *Orchestrator) Share(ctx context.Context, s models.Snapshot, d Delivery) (res Result, err error) {
	defer func() {
		if res.Pending && err == nil {
			metrics.Export(string(s.Kind), string(ActionShare), "pending")
			return
		}
		o.record(s, ActionShare, err)
	}()

	if err := validate(s, ActionShare); err != nil {
		return Result{}, err
	}
	if !o.session.Current().SignedIn {
		return Result{}, session.ErrNotSignedIn
	}
	pdf, err := o.render(s)
	if err != nil {
		return Result{}, err
	}

	name := s.FileName()
	file, err := o.uploader.Upload(ctx, s.Kind.Folder(), name, pdf)
	if err != nil {
		return Result{}, err
	}

	payload := share.NewPayload(s)
	res = Result{FileName: name, File: &file, Payload: &payload}
	if d.CanShareFiles() {
		res.Native = true
		if err := d.ShareFiles(ctx, payload, pdf); err != nil {
			if errors.Is(err, share.ErrCancelled) {
				o.logger.Info("share cancelled", "kind", s.Kind, "number", s.Number)
				return res, err
			}
			return res, fmt.Errorf("could not share file: %w", err)
		}
		if c, ok := d.(Confirmer); ok && c.ConfirmsLater() {
			o.mu.Lock()
			// One outstanding share per kind; a newer one carries the same number.
			o.pending[s.Kind] = pendingShare{fileName: name, token: o.session.Current().Token}
			o.mu.Unlock()
			res.Pending = true
			o.logger.Info("share awaiting confirmation", "kind", s.Kind, "number", s.Number, "file", name)
			return res, nil
		}
	} else {
		if err := d.Download(ctx, name, pdf); err != nil {
			return res, fmt.Errorf("download: %w", err)
		}
		if err := d.OpenLink(ctx, payload.Link); err != nil {
			return res, fmt.Errorf("open whatsapp: %w", err)
		}
	}

	res.Next = o.counters.Advance(s.Kind)
	o.logger.Info("document shared", "kind", s.Kind, "number", s.Number, "file", name, "next", res.Next)
	return res, nil
}

// Complete settles the pending native share of kind named fileName. When the
// operator shared the file the counter advances; a dismissed share sheet
// leaves it alone and returns share.ErrCancelled.
func (o *Orchestrator) Complete(kind models.Kind, fileName string, shared bool) (res Result, err error) {
	st := o.session.Current()
	if !st.SignedIn {
		return Result{}, session.ErrNotSignedIn
	}

	o.mu.Lock()
	p, ok := o.pending[kind]
	if ok && p.fileName == fileName && p.token == st.Token {
		delete(o.pending, kind)
	} else {
		ok = false
	}
	o.mu.Unlock()
	if !ok {
		return Result{}, ErrNoPendingShare
	}

	res = Result{FileName: fileName, Native: true}
	if !shared {
		o.logger.Info("share cancelled", "kind", kind, "file", fileName)
		metrics.Export(string(kind), string(ActionShare), "cancelled")
		return res, share.ErrCancelled
	}
	res.Next = o.counters.Advance(kind)
	metrics.Export(string(kind), string(ActionShare), "success")
	o.logger.Info("document shared", "kind", kind, "file", fileName, "next", res.Next)
	return res, nil
}

// UserMessage turns any export error into the single message shown to the
// operator. Cancellation yields an empty message.
func UserMessage(err error) string {
	var (
		ve       *ValidationError
		ue       *storage.UploadError
		fallback *numbering.FallbackError
	)
	switch {
	case err == nil, errors.Is(err, share.ErrCancelled):
		return ""
	case errors.As(err, &ve):
		verb := "generating the PDF"
		if ve.Action == ActionShare {
			verb = "sharing"
		}
		return fmt.Sprintf("Please fix the following issues before %s:\n\n- %s", verb, strings.Join(ve.Problems, "\n- "))
	case errors.Is(err, ErrRender):
		return "There was an error generating the PDF. Please try again."
	case errors.Is(err, session.ErrNotSignedIn):
		return "Please sign in to upload to Drive."
	case errors.Is(err, ErrNoPendingShare):
		return "There is no shared document waiting for confirmation."
	case errors.Is(err, numbering.ErrInvalidOverride):
		return "Please enter a valid positive number."
	case errors.As(err, &fallback):
		return "Could not fetch the next document number from Drive. Defaulting to 1. Error: " + fallback.Err.Error()
	case errors.As(err, &ue):
		switch ue.Kind {
		case storage.UploadAuth:
			return "Drive rejected the upload. Please sign in again."
		case storage.UploadQuota:
			return "Drive storage quota exceeded. Free up space and try again."
		case storage.UploadNetwork:
			return "Could not reach Drive. Check your connection and try again."
		}
		return "Could not complete sharing process: " + ue.Err.Error()
	}
	return "Could not complete sharing process: " + err.Error()
}
