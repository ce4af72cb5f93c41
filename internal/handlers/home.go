package handlers

import (
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/essenciabjj/trial/internal/schedule"
	"github.com/essenciabjj/trial/internal/wizard"
)

const pageTitle = "Aula Experimental | Essência BJJ"

// Handler serves the three booking screens and their form actions.
type Handler struct {
	tmpl     *template.Template
	pages    fs.FS
	sessions *Sessions
	table    *schedule.Table
	note     template.HTML
	logger   *zap.Logger
	now      func() time.Time
}

// New wires the handler. tmpl holds the shared layouts; pages is searched
// for "pages/<name>.tmpl" on every render.
func New(tmpl *template.Template, pages fs.FS, sessions *Sessions, table *schedule.Table, note template.HTML, logger *zap.Logger) *Handler {
	return &Handler{
		tmpl:     tmpl,
		pages:    pages,
		sessions: sessions,
		table:    table,
		note:     note,
		logger:   logger,
		now:      time.Now,
	}
}

type dayView struct {
	Day   schedule.Weekday
	Slots []schedule.Slot
}

func (h *Handler) week() []dayView {
	out := make([]dayView, 0, len(schedule.Week))
	for _, d := range schedule.Week {
		out = append(out, dayView{Day: d, Slots: h.table.Slots(d)})
	}
	return out
}

// Index renders whichever screen the visitor's wizard is on.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	wiz := h.sessions.Wizard(w, r)
	snap := wiz.Snapshot()

	data := map[string]any{
		"Title":     pageTitle,
		"Snapshot":  snap,
		"Flash":     MakeFlash(r, snap.Error),
		"CSRFField": csrf.TemplateField(r),
	}

	var page string
	switch snap.Step {
	case wizard.StepSchedule:
		page = "schedule.tmpl"
		data["Week"] = h.week()
		data["Classes"] = wiz.ListBookableClasses()
	case wizard.StepDetails:
		page = "details.tmpl"
		data["MinAge"] = wizard.MinAge
		data["MaxAge"] = wizard.MaxAge
	case wizard.StepConfirmation:
		page = "confirmation.tmpl"
		data["Note"] = h.note
	}
	h.render(w, page, data)
}

func (h *Handler) render(w http.ResponseWriter, page string, data map[string]any) {
	view, err := h.tmpl.Clone()
	if err != nil {
		h.internalError(w, err)
		return
	}
	if _, err := view.ParseFS(h.pages, "pages/"+page); err != nil {
		h.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.ExecuteTemplate(w, page, data); err != nil {
		h.logger.Error("Failed to render page", zap.String("page", page), zap.Error(err))
	}
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("internal error", zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
