package handlers

import (
	"net/http"
	"strconv"

	"invoicepro/builder"
	"invoicepro/preview"
)

type PreviewHandler struct {
	Documents *DocumentHandler
	Previews  *preview.Coalescer
}

// Schedule queues a preview render of the posted form.
func (h *PreviewHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var f builder.Form
	if err := decodeJSON(w, r, &f); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	gen := h.Previews.Schedule(h.Documents.snapshot(f))
	writeJSON(w, http.StatusAccepted, ApiResponse{
		Success: true,
		Data:    map[string]uint64{"generation": gen},
	})
}

// Latest serves the newest finished preview. X-Preview-Pending is set when
// a newer request is still waiting to render.
func (h *PreviewHandler) Latest(w http.ResponseWriter, r *http.Request) {
	res, newest, ok := h.Previews.Latest()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("X-Preview-Generation", strconv.FormatUint(res.Generation, 10))
	w.Header().Set("X-Preview-Pending", strconv.FormatBool(res.Generation < newest))
	if res.Err != nil {
		writeError(w, http.StatusInternalServerError, "There was an error generating the PDF. Please try again.")
		return
	}
	w.Header().Set("Last-Modified", res.RenderedAt.UTC().Format(http.TimeFormat))
	w.Header().Set("Cache-Control", "no-store")
	writePDF(w, "preview.pdf", res.PDF, "inline")
}
