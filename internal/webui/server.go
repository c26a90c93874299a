// Package webui serves the browser front end: one form page per pipeline
// variant, with the result rendered from markdown.
package webui

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/anatolykoptev/go_scribe/internal/agents"
	"github.com/anatolykoptev/go_scribe/internal/engine"
	"github.com/anatolykoptev/go_scribe/internal/toolutil"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Runner executes one pipeline request.
type Runner interface {
	Run(ctx context.Context, req agents.Request) (*agents.Result, error)
}

// Server renders the variant pages.
type Server struct {
	runner Runner
	reg    *agents.Registry
	tmpl   *template.Template
	md     goldmark.Markdown
}

// New parses the embedded templates.
func New(r Runner, reg *agents.Registry) (*Server, error) {
	if r == nil || reg == nil {
		return nil, errors.New("webui: runner and registry are required")
	}
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		runner: r,
		reg:    reg,
		tmpl:   tmpl,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /v/{name}", s.handleForm)
	mux.HandleFunc("POST /v/{name}", s.handleRun)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return logMiddleware(mux)
}

type indexPage struct {
	Variants []*agents.Variant
}

type errorBox struct {
	Title   string
	Message string
}

type resultBox struct {
	Title      string
	SourceHTML template.HTML
	OutputHTML template.HTML
	Elapsed    string
}

type variantPage struct {
	Variants   []*agents.Variant
	Variant    *agents.Variant
	Subject    string
	Preference string
	Error      *errorBox
	Result     *resultBox
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "index.html", indexPage{Variants: s.reg.All()})
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	v, ok := s.reg.Lookup(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "variant.html", variantPage{Variants: s.reg.All(), Variant: v})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	v, ok := s.reg.Lookup(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	page := variantPage{
		Variants:   s.reg.All(),
		Variant:    v,
		Subject:    r.PostFormValue("subject"),
		Preference: r.PostFormValue("preference"),
	}

	res, err := s.runner.Run(r.Context(), agents.Request{
		Variant:    v.Name,
		Subject:    page.Subject,
		Preference: page.Preference,
	})
	if err != nil {
		page.Error = &errorBox{Title: toolutil.Title(err), Message: toolutil.UserMessage(err)}
		s.render(w, statusFor(err), "variant.html", page)
		return
	}

	box := &resultBox{
		Title:      res.Source.Title,
		OutputHTML: s.markdown(res.Output.Text),
		Elapsed:    res.Elapsed.Round(100 * time.Millisecond).String(),
	}
	if v.ShowSource {
		box.SourceHTML = s.markdown(res.Source.Text)
	}
	page.Result = box
	s.render(w, http.StatusOK, "variant.html", page)
}

// markdown converts model output to HTML. Raw HTML in the input is
// escaped, since goldmark is not configured with WithUnsafe.
func (s *Server) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark output with raw HTML disabled
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("render template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func statusFor(err error) int {
	switch engine.Kind(err) {
	case engine.ErrInput, engine.ErrUnsupported:
		return http.StatusUnprocessableEntity
	case engine.ErrService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if r.URL.Path == "/healthz" {
			return
		}
		slog.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)))
	})
}
