package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/mclabs/blueprint/internal/aggregate"
	"github.com/mclabs/blueprint/internal/charts"
	"github.com/mclabs/blueprint/internal/wizard"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sid := s.sessionID(w, r)
	user := s.currentUser(r)
	st := s.wizardState(sid, user)

	if st.Complete() {
		http.Redirect(w, r, "/results", http.StatusFound)
		return
	}

	scores := make([]int, 10)
	for i := range scores {
		scores[i] = i + 1
	}

	s.render(w, "survey.html", map[string]any{
		"Title":        s.cfg.Event.Title,
		"Error":        r.URL.Query().Get("error"),
		"Step":         int(st.Step),
		"User":         user,
		"Categories":   s.cfg.Survey.Categories,
		"TotalCredits": s.cfg.Survey.TotalCredits,
		"Threats":      s.cfg.Survey.Threats,
		"Archetypes":   s.cfg.Survey.Archetypes,
		"Scores":       scores,
	})
}

func (s *Server) handleSurvey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	sid := s.sessionID(w, r)
	user := s.currentUser(r)
	st := s.wizardState(sid, user)

	step, _ := strconv.Atoi(r.FormValue("step"))
	in := s.parseInput(r, wizard.Step(step))

	next, err := st.Advance(wizard.Step(step), in, s.rules())
	if err != nil {
		http.Redirect(w, r, "/?error="+url.QueryEscape(err.Error()), http.StatusFound)
		return
	}

	if next.Complete() {
		if _, err := s.store.InsertResponse(next.Response); err != nil {
			// Keep the wizard state: the attendee can retry the final
			// submit without re-answering anything.
			s.setWizardState(st)
			s.renderError(w, http.StatusInternalServerError,
				"We couldn't save your response. Please try again.", "/")
			return
		}
	}

	s.setWizardState(next)
	if next.Complete() {
		http.Redirect(w, r, "/results", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// parseInput reads the step's form fields into a wizard.Input. Parse
// slips become zero values here; the wizard's validation decides what
// is acceptable.
func (s *Server) parseInput(r *http.Request, step wizard.Step) wizard.Input {
	var in wizard.Input
	switch step {
	case wizard.StepBudget:
		in.Budgets = make(map[string]int, len(s.cfg.Survey.Categories))
		for _, cat := range s.cfg.Survey.Categories {
			v, _ := strconv.Atoi(r.FormValue("budget_" + cat))
			in.Budgets[cat] = v
		}
		in.OtherDescription = r.FormValue("other_description")
		in.Reasoning = r.FormValue("reasoning")
	case wizard.StepThreat:
		in.ThreatName = r.FormValue("threat")
		if in.ThreatName == "Other" {
			in.ThreatName = r.FormValue("threat_custom")
		}
		in.Likelihood, _ = strconv.Atoi(r.FormValue("likelihood"))
		in.Impact, _ = strconv.Atoi(r.FormValue("impact"))
		in.Trigger = r.FormValue("trigger")
	case wizard.StepArchetype:
		in.Archetype = r.FormValue("archetype")
		in.Followup = r.FormValue("followup")
	}
	return in
}

func (s *Server) handleSurveyReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	sid := s.sessionID(w, r)
	s.clearWizardState(sid)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	responses, err := s.store.AllResponses()
	if err != nil {
		s.renderError(w, http.StatusInternalServerError,
			"We couldn't load the room's responses. Please try again.", "/results")
		return
	}

	questions, err := s.store.SuggestedQuestions()
	if err != nil {
		s.renderError(w, http.StatusInternalServerError,
			"We couldn't load the suggested questions. Please try again.", "/results")
		return
	}

	summary := aggregate.Aggregate(responses, s.cfg.Survey.Categories)

	s.render(w, "results.html", map[string]any{
		"Title":      s.cfg.Event.Title,
		"Summary":    summary,
		"Bars":       charts.PriorityBars(summary, s.cfg.Survey.Categories, s.cfg.Survey.TotalCredits),
		"Points":     charts.ThreatScatter(summary),
		"Grid":       charts.ArchetypeGrid(summary, s.cfg.Survey.ArchetypeNames()),
		"Questions":  questions,
		"HasData":    summary.TotalResponses > 0,
	})
}
