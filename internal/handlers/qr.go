package handlers

import (
	"fmt"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/essenciabjj/trial/internal/calendar"
	"github.com/essenciabjj/trial/internal/models"
	"github.com/essenciabjj/trial/internal/schedule"
	"github.com/essenciabjj/trial/internal/wizard"
)

// confirmed returns the confirmed record and its chosen date for the
// visitor, or false when there is nothing to export.
func (h *Handler) confirmed(r *http.Request) (*models.Registration, schedule.DateCandidate, bool) {
	wiz, ok := h.sessions.Lookup(r)
	if !ok {
		return nil, schedule.DateCandidate{}, false
	}
	snap := wiz.Snapshot()
	if snap.Step != wizard.StepConfirmation || snap.Record == nil {
		return nil, schedule.DateCandidate{}, false
	}
	date, ok := wiz.ChosenDate()
	return snap.Record, date, ok
}

// GET /confirmation/qr.png
func (h *Handler) QR(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := h.confirmed(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	// shown at the front desk on arrival
	text := fmt.Sprintf("Essência BJJ | %s | %s | %s | %s", rec.ID, rec.FullName, rec.ClassName, rec.SpecificDate)

	png, err := qrcode.Encode(text, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// GET /confirmation/class.ics
func (h *Handler) ICS(w http.ResponseWriter, r *http.Request) {
	rec, date, ok := h.confirmed(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	body, err := calendar.Event(*rec, date, h.now())
	if err != nil {
		h.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="aula-experimental.ics"`)
	_, _ = w.Write([]byte(body))
}
