package server

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/mclabs/blueprint/internal/store"
)

// 4 digits, no leading zero (1000-9999), matching the sign-up prompt.
var credentialPattern = regexp.MustCompile(`^[1-9][0-9]{3}$`)

// Registration profile options. Presentation choices, not validation:
// the profile fields are optional free text as far as the store cares.
var (
	universityTypes = []string{"Public 4-year", "Private 4-year", "Community College", "HBCU", "HSI", "Religious-affiliated", "Other"}
	localeTypes     = []string{"Urban", "Suburban", "Rural"}
	roleOptions     = []string{"Student", "MSA Board Member", "Faculty/Staff Advisor", "Chaplain/Imam", "Administration", "Alumni", "Community Partner", "Other"}
	regionOptions   = []string{"Northeast", "Southeast", "Midwest", "Southwest", "West Coast", "Pacific Northwest", "Other"}
)

func (s *Server) renderRegister(w http.ResponseWriter, errMsg string) {
	s.render(w, "register.html", map[string]any{
		"Title":           s.cfg.Event.Title,
		"Error":           errMsg,
		"UniversityTypes": universityTypes,
		"LocaleTypes":     localeTypes,
		"RoleOptions":     roleOptions,
		"RegionOptions":   regionOptions,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.renderRegister(w, "")
		return
	}

	userID := r.FormValue("user_id")
	passcode := r.FormValue("passcode")

	if !credentialPattern.MatchString(userID) {
		s.renderRegister(w, "ID must be exactly 4 digits (1000–9999).")
		return
	}
	if !credentialPattern.MatchString(passcode) {
		s.renderRegister(w, "Passcode must be exactly 4 digits (1000–9999).")
		return
	}

	available, err := s.store.UserIDAvailable(userID)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError,
			"We couldn't check your ID. Please try again.", "/register")
		return
	}
	if !available {
		s.renderRegister(w, "This ID is already taken. Please choose a different one.")
		return
	}

	g := store.Registration{
		UserID:            userID,
		Passcode:          passcode,
		JobTitle:          r.FormValue("job_title"),
		SchoolName:        r.FormValue("school_name"),
		UniversityType:    r.FormValue("university_type"),
		Locale:            r.FormValue("locale"),
		Role:              r.FormValue("role"),
		Region:            r.FormValue("region"),
		SuggestedQuestion: r.FormValue("suggested_question"),
	}
	if err := s.store.InsertRegistration(g); err != nil {
		// A concurrent registration can win the id between the
		// availability check and this insert.
		if errors.Is(err, store.ErrUserIDTaken) {
			s.renderRegister(w, "This ID is already taken. Please choose a different one.")
			return
		}
		s.renderError(w, http.StatusInternalServerError,
			"We couldn't save your registration. Please try again.", "/register")
		return
	}

	http.Redirect(w, r, "/login?registered=1", http.StatusFound)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.render(w, "login.html", map[string]any{
			"Title":      s.cfg.Event.Title,
			"Registered": r.URL.Query().Get("registered") != "",
		})
		return
	}

	userID := r.FormValue("user_id")
	passcode := r.FormValue("passcode")
	if userID == "" || passcode == "" {
		s.render(w, "login.html", map[string]any{
			"Title": s.cfg.Event.Title,
			"Error": "Please enter both your ID and passcode.",
		})
		return
	}

	ok, err := s.store.Authenticate(userID, passcode)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError,
			"We couldn't check your credentials. Please try again.", "/login")
		return
	}
	if !ok {
		s.render(w, "login.html", map[string]any{
			"Title": s.cfg.Event.Title,
			"Error": "Invalid ID or passcode. Please try again.",
		})
		return
	}

	s.setCurrentUser(w, userID)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.clearCurrentUser(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
