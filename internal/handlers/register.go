package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/essenciabjj/trial/internal/schedule"
	"github.com/essenciabjj/trial/internal/wizard"
)

// form names for the details step
var detailFields = []struct{ form, field string }{
	{"full_name", wizard.FieldFullName},
	{"phone", wizard.FieldPhone},
	{"age", wizard.FieldAge},
	{"specific_date", wizard.FieldSpecificDate},
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func redirectErr(w http.ResponseWriter, r *http.Request, err error) {
	http.Redirect(w, r, "/?error="+errKey(err), http.StatusSeeOther)
}

// POST /select  day, time
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	wiz := h.sessions.Wizard(w, r)
	opt := schedule.ClassOption{
		Day:       schedule.Weekday(r.PostFormValue("day")),
		TimeRange: r.PostFormValue("time"),
	}
	if err := wiz.SelectClass(opt); err != nil {
		redirectErr(w, r, err)
		return
	}
	redirectHome(w, r)
}

// POST /details  full_name, phone, age, specific_date, action
// Fields present in the form are stored; action=submit then sends the draft.
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	wiz := h.sessions.Wizard(w, r)

	for _, f := range detailFields {
		vals, ok := r.PostForm[f.form]
		if !ok {
			continue
		}
		if err := wiz.UpdateField(f.field, vals[0]); err != nil {
			redirectErr(w, r, err)
			return
		}
	}

	if r.PostFormValue("action") != "submit" {
		redirectHome(w, r)
		return
	}

	err := wiz.Submit(r.Context())
	switch {
	case err == nil, errors.Is(err, wizard.ErrSuperseded):
		redirectHome(w, r)
	case errors.Is(err, wizard.ErrIncomplete),
		errors.Is(err, wizard.ErrSubmitInFlight),
		errors.Is(err, wizard.ErrWrongStep):
		redirectErr(w, r, err)
	default:
		// the wizard keeps the user-facing message; the cause was logged there
		h.logger.Debug("submit failed", zap.Error(err))
		redirectHome(w, r)
	}
}

// POST /back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Wizard(w, r).Back(); err != nil {
		redirectErr(w, r, err)
		return
	}
	redirectHome(w, r)
}

// POST /reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.sessions.Wizard(w, r).Reset()
	http.Redirect(w, r, "/?ok=reset", http.StatusSeeOther)
}
