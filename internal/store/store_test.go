package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResponse(session string) Response {
	return Response{
		SessionID:  session,
		UserID:     "1234",
		Timestamp:  "2026-08-24T18:00:00Z",
		Budgets:    map[string]string{"Chaplaincy": "60", "Prayer Space": "40"},
		Reasoning:  "It matters most.",
		ThreatName: "Budget Cuts",
		Likelihood: "7",
		Impact:     "9",
		Trigger:    "State funding review",
		Archetype:  "The Lab",
		Followup:   "Pilot a tutoring assistant",
	}
}

func TestInsertAndReadResponse(t *testing.T) {
	s := openTestStore(t)

	id, err := s.InsertResponse(sampleResponse("sess-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero response ID")
	}

	responses, err := s.AllResponses()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}

	r := responses[0]
	if r.SessionID != "sess-1" {
		t.Errorf("expected session 'sess-1', got %q", r.SessionID)
	}
	if r.Budgets["Chaplaincy"] != "60" || r.Budgets["Prayer Space"] != "40" {
		t.Errorf("unexpected budgets: %v", r.Budgets)
	}
	if r.ThreatName != "Budget Cuts" || r.Likelihood != "7" || r.Impact != "9" {
		t.Errorf("unexpected threat fields: %q %q %q", r.ThreatName, r.Likelihood, r.Impact)
	}
	if r.Archetype != "The Lab" {
		t.Errorf("expected archetype 'The Lab', got %q", r.Archetype)
	}
}

func TestAllResponsesEmpty(t *testing.T) {
	s := openTestStore(t)
	responses, err := s.AllResponses()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if responses == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(responses) != 0 {
		t.Errorf("expected 0 responses, got %d", len(responses))
	}
}

func TestAllResponsesInsertionOrder(t *testing.T) {
	s := openTestStore(t)
	for _, sess := range []string{"a", "b", "c"} {
		r := sampleResponse(sess)
		if _, err := s.InsertResponse(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	responses, _ := s.AllResponses()
	if len(responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(responses))
	}
	for i, want := range []string{"a", "b", "c"} {
		if responses[i].SessionID != want {
			t.Errorf("position %d: expected %q, got %q", i, want, responses[i].SessionID)
		}
	}
}

func TestInsertResponseNonNumericValues(t *testing.T) {
	s := openTestStore(t)
	r := sampleResponse("sess-raw")
	r.Budgets = map[string]string{"Chaplaincy": "lots"}
	r.Likelihood = "often"
	r.Impact = ""
	if _, err := s.InsertResponse(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Raw values come back untouched: coercion is not the store's job.
	responses, _ := s.AllResponses()
	if responses[0].Budgets["Chaplaincy"] != "lots" {
		t.Errorf("expected raw budget value, got %q", responses[0].Budgets["Chaplaincy"])
	}
	if responses[0].Likelihood != "often" {
		t.Errorf("expected raw likelihood, got %q", responses[0].Likelihood)
	}
}

func TestRegistrationLifecycle(t *testing.T) {
	s := openTestStore(t)

	ok, err := s.UserIDAvailable("1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected '1234' to be available")
	}

	g := Registration{
		UserID:            "1234",
		Passcode:          "5678",
		SchoolName:        "State University",
		Role:              "Student",
		SuggestedQuestion: "How do we fund chaplaincy?",
	}
	if err := s.InsertRegistration(g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, _ = s.UserIDAvailable("1234")
	if ok {
		t.Error("expected '1234' to be taken after registration")
	}

	all, _ := s.AllRegistrations()
	if len(all) != 1 || all[0].SchoolName != "State University" {
		t.Errorf("unexpected registrations: %+v", all)
	}
}

func TestInsertRegistrationDuplicate(t *testing.T) {
	s := openTestStore(t)
	g := Registration{UserID: "1234", Passcode: "5678"}
	if err := s.InsertRegistration(g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := s.InsertRegistration(Registration{UserID: "1234", Passcode: "9999"})
	if !errors.Is(err, ErrUserIDTaken) {
		t.Errorf("expected ErrUserIDTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := openTestStore(t)
	s.InsertRegistration(Registration{UserID: "1234", Passcode: "5678"})

	ok, err := s.Authenticate("1234", "5678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected matching credentials to authenticate")
	}

	if ok, _ := s.Authenticate("1234", "0000"); ok {
		t.Error("expected wrong passcode to fail")
	}
	if ok, _ := s.Authenticate("9999", "5678"); ok {
		t.Error("expected unknown id to fail")
	}
}

func TestSuggestedQuestions(t *testing.T) {
	s := openTestStore(t)
	s.InsertRegistration(Registration{UserID: "1111", Passcode: "1111", SuggestedQuestion: "First question?"})
	s.InsertRegistration(Registration{UserID: "2222", Passcode: "2222"})
	s.InsertRegistration(Registration{UserID: "3333", Passcode: "3333", SuggestedQuestion: "Second question?"})

	questions, err := s.SuggestedQuestions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0] != "First question?" || questions[1] != "Second question?" {
		t.Errorf("unexpected questions: %v", questions)
	}
}

func TestGetStats(t *testing.T) {
	s := openTestStore(t)

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Responses != 0 || stats.Registrations != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}

	anon := sampleResponse("sess-anon")
	anon.UserID = ""
	s.InsertResponse(anon)
	s.InsertResponse(sampleResponse("sess-user"))
	s.InsertRegistration(Registration{UserID: "1234", Passcode: "5678", SuggestedQuestion: "Q?"})

	stats, _ = s.GetStats()
	if stats.Responses != 2 {
		t.Errorf("expected 2 responses, got %d", stats.Responses)
	}
	if stats.AnonymousResponses != 1 {
		t.Errorf("expected 1 anonymous response, got %d", stats.AnonymousResponses)
	}
	if stats.Registrations != 1 || stats.SuggestedQuestions != 1 {
		t.Errorf("unexpected registration stats: %+v", stats)
	}
}
