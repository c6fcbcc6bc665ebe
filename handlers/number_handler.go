package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"invoicepro/export"
	"invoicepro/models"
	"invoicepro/numbering"

	"github.com/go-chi/chi/v5"
)

type NumberHandler struct {
	Counters *numbering.Counters
	Logger   *slog.Logger
}

type overrideRequest struct {
	Next int `json:"next"`
}

func (h *NumberHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Data: h.Counters.Status()})
}

// Override sets the next sequence for one kind by hand.
func (h *NumberHandler) Override(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var req overrideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Counters.Override(kind, req.Next); err != nil {
		writeError(w, http.StatusBadRequest, export.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Data: h.Counters.Status()})
}

// Refresh re-reads both counters from the drive. A listing failure still
// answers 200 with the fallback warning, since numbering carries on at 1.
func (h *NumberHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	err := h.Counters.Refresh(r.Context())
	var fallback *numbering.FallbackError
	if err != nil && !errors.As(err, &fallback) {
		h.Logger.Error("refresh numbers", "error", err)
		writeError(w, http.StatusInternalServerError, export.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: export.UserMessage(err),
		Data:    h.Counters.Status(),
	})
}
