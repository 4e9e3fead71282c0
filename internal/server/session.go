package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mclabs/blueprint/internal/wizard"
)

const (
	sessionCookie = "bp_session"
	userCookie    = "bp_user"
)

// sessionID returns the request's session id, minting one if needed.
// Each browser session gets its own questionnaire state.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

// currentUser returns the logged-in user id, or "" for anonymous.
func (s *Server) currentUser(r *http.Request) string {
	if c, err := r.Cookie(userCookie); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) setCurrentUser(w http.ResponseWriter, userID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     userCookie,
		Value:    userID,
		Path:     "/",
		HttpOnly: true,
	})
}

func (s *Server) clearCurrentUser(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     userCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// wizardState returns the session's questionnaire state, starting a
// fresh one if none exists.
func (s *Server) wizardState(sessionID, userID string) wizard.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.wizards[sessionID]; ok {
		return st
	}
	st := wizard.New(sessionID, userID)
	s.wizards[sessionID] = st
	return st
}

func (s *Server) setWizardState(st wizard.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizards[st.SessionID] = st
}

func (s *Server) clearWizardState(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wizards, sessionID)
}

// rules builds the wizard validation rules from config.
func (s *Server) rules() wizard.Rules {
	return wizard.Rules{
		TotalCredits: s.cfg.Survey.TotalCredits,
		Categories:   s.cfg.Survey.Categories,
		Archetypes:   s.cfg.Survey.ArchetypeNames(),
	}
}
