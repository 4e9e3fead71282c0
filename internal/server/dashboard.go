package server

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/mclabs/blueprint/internal/aggregate"
	"github.com/mclabs/blueprint/internal/charts"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	responses, err := s.store.AllResponses()
	if err != nil {
		s.renderError(w, http.StatusInternalServerError,
			"Couldn't read responses from the store.", "/dashboard")
		return
	}

	summary := aggregate.Aggregate(responses, s.cfg.Survey.Categories)

	// The page polls by reloading itself; polling stops while a
	// synthesis is generating or a tactic is on screen.
	refresh := 0
	if s.mirror.RefreshEnabled() {
		refresh = s.cfg.Dashboard.RefreshSeconds
	}

	s.render(w, "dashboard.html", map[string]any{
		"Title":       s.cfg.Event.Title,
		"Refresh":     refresh,
		"Error":       r.URL.Query().Get("error"),
		"Waiting":     summary.TotalResponses == 0,
		"Summary":     summary,
		"Bars":        charts.PriorityBars(summary, s.cfg.Survey.Categories, s.cfg.Survey.TotalCredits),
		"Points":      charts.ThreatScatter(summary),
		"Grid":        charts.ArchetypeGrid(summary, s.cfg.Survey.ArchetypeNames()),
		"MirrorState": s.mirror.State().String(),
		"Tactic":      s.mirror.Tactic(),
	})
}

// handleGenerate serves both the first generation and regeneration: the
// mirror overwrites its tactic either way.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	responses, err := s.store.AllResponses()
	if err != nil {
		http.Redirect(w, r, "/dashboard?error="+url.QueryEscape("Couldn't read responses from the store."), http.StatusFound)
		return
	}

	summary := aggregate.Aggregate(responses, s.cfg.Survey.Categories)
	if _, err := s.mirror.Generate(r.Context(), summary); err != nil {
		// Transient: the controls stay on screen for a retry.
		log.Printf("synthesis failed: %v", err)
		http.Redirect(w, r, "/dashboard?error="+url.QueryEscape("Synthesis failed: "+err.Error()), http.StatusFound)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	s.mirror.Resume()
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// handleAPISummary exposes the aggregate as JSON for chart consumers.
func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	responses, err := s.store.AllResponses()
	if err != nil {
		http.Error(w, "reading responses: "+err.Error(), http.StatusInternalServerError)
		return
	}

	summary := aggregate.Aggregate(responses, s.cfg.Survey.Categories)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		log.Printf("encoding summary: %v", err)
	}
}
