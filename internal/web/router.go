package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/essenciabjj/trial/internal/handlers"
	"github.com/essenciabjj/trial/internal/schedule"
)

//go:embed templates
var templatesFS embed.FS

//go:embed content/trial_info.md
var trialInfo []byte

// raw HTML in markdown is escaped, WithUnsafe is not set
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkhtml.WithHardWraps(),
	),
)

type Deps struct {
	Sessions *handlers.Sessions
	Table    *schedule.Table
	Logger   *zap.Logger

	// CSRFKey enables gorilla/csrf when set (32 bytes).
	CSRFKey []byte

	// Secure marks cookies Secure and treats requests as HTTPS.
	Secure bool
}

func Router(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	tmpl := mustParseTemplates()
	pages, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	h := handlers.New(tmpl, pages, d.Sessions, d.Table, mustRenderMarkdown(trialInfo), d.Logger)

	r.Get("/healthz", handlers.Health)

	r.Group(func(fr chi.Router) {
		if len(d.CSRFKey) > 0 {
			fr.Use(csrfProtect(d.CSRFKey, d.Secure))
		}

		fr.Get("/", h.Index)
		fr.Post("/select", h.Select)
		fr.Post("/details", h.Details)
		fr.Post("/back", h.Back)
		fr.Post("/reset", h.Reset)

		fr.Get("/confirmation/qr.png", h.QR)
		fr.Get("/confirmation/class.ics", h.ICS)
	})

	return r
}

func csrfProtect(key []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)
	return func(next http.Handler) http.Handler {
		p := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			p.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request with status and latency.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.Int("status", status),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("ip", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Duration("latency", time.Since(start)),
			}
			switch {
			case status >= 500:
				logger.Error("request failed", fields...)
			case status >= 400:
				logger.Warn("client error", fields...)
			default:
				logger.Info("request completed", fields...)
			}
		})
	}
}

func mustParseTemplates() *template.Template {
	funcs := template.FuncMap{
		"year": func() string { return time.Now().Format("2006") },
	}
	p := template.New("").Funcs(funcs)
	return template.Must(p.ParseFS(templatesFS, "templates/layouts/*.tmpl"))
}

func mustRenderMarkdown(src []byte) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert(src, &buf); err != nil {
		panic(err)
	}
	return template.HTML(buf.String())
}
