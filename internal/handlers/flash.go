package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/essenciabjj/trial/internal/wizard"
)

type Flash struct {
	Kind string // "ok" or "error"
	Text string
}

var okText = map[string]string{
	"reset": "Agendamento reiniciado.",
}

var errText = map[string]string{
	"unknown_class": "Essa turma não está disponível.",
	"unknown_date":  "Escolha uma das datas oferecidas.",
	"incomplete":    "Preencha nome, telefone, idade e data.",
	"in_flight":     "Seu agendamento já está sendo enviado.",
	"wrong_step":    "Essa ação não está disponível agora.",
}

// errKey maps a wizard error onto a flash key for the redirect query.
func errKey(err error) string {
	switch {
	case errors.Is(err, wizard.ErrUnknownClass):
		return "unknown_class"
	case errors.Is(err, wizard.ErrUnknownDate):
		return "unknown_date"
	case errors.Is(err, wizard.ErrIncomplete):
		return "incomplete"
	case errors.Is(err, wizard.ErrSubmitInFlight):
		return "in_flight"
	}
	return "wrong_step"
}

// MakeFlash reads ?ok= / ?error= and falls back to the wizard's own message.
// Unknown keys are ignored so the query string cannot inject text.
func MakeFlash(r *http.Request, errStr string) *Flash {
	q := r.URL.Query()

	if key := strings.ToLower(strings.TrimSpace(q.Get("error"))); key != "" {
		if t, ok := errText[key]; ok {
			return &Flash{Kind: "error", Text: t}
		}
	}
	if key := strings.ToLower(strings.TrimSpace(q.Get("ok"))); key != "" {
		if t, ok := okText[key]; ok {
			return &Flash{Kind: "ok", Text: t}
		}
	}
	if errStr != "" {
		return &Flash{Kind: "error", Text: errStr}
	}
	return nil
}
