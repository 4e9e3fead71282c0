package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"

	"github.com/mclabs/blueprint/internal/config"
	"github.com/mclabs/blueprint/internal/mirror"
	"github.com/mclabs/blueprint/internal/store"
	"github.com/mclabs/blueprint/internal/wizard"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// Server is the HTTP server for the attendee form and the projector
// dashboard.
type Server struct {
	store  *store.Store
	cfg    *config.Config
	mirror *mirror.Mirror
	pages  map[string]*template.Template
	mux    *http.ServeMux

	mu      sync.Mutex
	wizards map[string]wizard.State
}

// New creates a new Server.
func New(st *store.Store, cfg *config.Config, m *mirror.Mirror) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
	}

	// Parse base template and the shared chart partials first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html", "templates/charts.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"survey.html", "results.html", "register.html", "login.html", "dashboard.html", "error.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{
		store:   st,
		cfg:     cfg,
		mirror:  m,
		pages:   pages,
		mux:     http.NewServeMux(),
		wizards: make(map[string]wizard.State),
	}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Attendee
	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/survey", s.handleSurvey)
	s.mux.HandleFunc("/survey/reset", s.handleSurveyReset)
	s.mux.HandleFunc("/results", s.handleResults)

	// Identity
	s.mux.HandleFunc("/register", s.handleRegister)
	s.mux.HandleFunc("/login", s.handleLogin)
	s.mux.HandleFunc("/logout", s.handleLogout)

	// Projector
	s.mux.HandleFunc("/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/dashboard/generate", s.handleGenerate)
	s.mux.HandleFunc("/dashboard/regenerate", s.handleGenerate)
	s.mux.HandleFunc("/dashboard/resume", s.handleResume)
	s.mux.HandleFunc("/api/summary", s.handleAPISummary)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

// renderError shows a retryable error page. Storage failures land here:
// the render loop must offer a retry, never crash.
func (s *Server) renderError(w http.ResponseWriter, status int, message, backURL string) {
	w.WriteHeader(status)
	s.render(w, "error.html", map[string]any{
		"Title":   s.cfg.Event.Title,
		"Message": message,
		"BackURL": backURL,
	})
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve starts the HTTP server on the given port.
func Serve(st *store.Store, cfg *config.Config, m *mirror.Mirror, port int) error {
	srv, err := New(st, cfg, m)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
