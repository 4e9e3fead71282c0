package store

// Response is one attendee's complete three-question submission.
//
// Budget allocations and the likelihood/impact scores are kept as raw
// strings exactly as submitted: the submission boundary validates them,
// but anything already in the table is passed through untouched and
// coerced defensively at aggregation time.
type Response struct {
	ID               int64
	SessionID        string
	UserID           string // empty for anonymous submissions
	Timestamp        string
	Budgets          map[string]string // category -> raw credit value
	OtherDescription string
	Reasoning        string
	ThreatName       string
	Likelihood       string
	Impact           string
	Trigger          string
	Archetype        string
	Followup         string
	CreatedAt        *string
}

// Registration is one attendee's identity/profile sign-up.
type Registration struct {
	UserID            string // 4-digit numeric string, unique
	Passcode          string // 4-digit numeric string
	JobTitle          string
	SchoolName        string
	UniversityType    string
	Locale            string
	Role              string
	Region            string
	SuggestedQuestion string
	CreatedAt         *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	Responses          int
	AnonymousResponses int
	Registrations      int
	SuggestedQuestions int
}
