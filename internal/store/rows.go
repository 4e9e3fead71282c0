package store

import (
	"fmt"
	"strings"
)

// The flat row format mirrors the event spreadsheet exports. Columns are
// keyed by name through the canonical lists below rather than by bare
// position; the header row doubles as the schema marker, so a file
// written with a different category list fails the count check instead
// of silently misaligning.

// slug normalizes a category name into a column-safe identifier.
func slug(category string) string {
	s := strings.ToLower(category)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

// ResponseColumns returns the canonical response column list for the
// given category configuration.
func ResponseColumns(categories []string) []string {
	cols := []string{"session_id", "user_id", "timestamp"}
	for _, cat := range categories {
		cols = append(cols, "q1_"+slug(cat))
	}
	return append(cols,
		"q1_other_description",
		"q1_reasoning",
		"q2_threat",
		"q2_likelihood",
		"q2_impact",
		"q2_trigger",
		"q3_archetype",
		"q3_followup",
	)
}

// Row flattens a response to strings in ResponseColumns order.
// A category with no recorded allocation flattens to "0".
func (r Response) Row(categories []string) []string {
	row := []string{r.SessionID, r.UserID, r.Timestamp}
	for _, cat := range categories {
		v, ok := r.Budgets[cat]
		if !ok || v == "" {
			v = "0"
		}
		row = append(row, v)
	}
	return append(row,
		r.OtherDescription,
		r.Reasoning,
		r.ThreatName,
		r.Likelihood,
		r.Impact,
		r.Trigger,
		r.Archetype,
		r.Followup,
	)
}

// ParseResponseRow parses a flat row back into a Response. The record
// must match ResponseColumns(categories) in length.
func ParseResponseRow(categories []string, record []string) (Response, error) {
	want := len(ResponseColumns(categories))
	if len(record) != want {
		return Response{}, fmt.Errorf("response row has %d columns, want %d", len(record), want)
	}

	r := Response{
		SessionID: record[0],
		UserID:    record[1],
		Timestamp: record[2],
		Budgets:   make(map[string]string, len(categories)),
	}
	for i, cat := range categories {
		r.Budgets[cat] = record[3+i]
	}

	rest := record[3+len(categories):]
	r.OtherDescription = rest[0]
	r.Reasoning = rest[1]
	r.ThreatName = rest[2]
	r.Likelihood = rest[3]
	r.Impact = rest[4]
	r.Trigger = rest[5]
	r.Archetype = rest[6]
	r.Followup = rest[7]
	return r, nil
}

// RegistrationColumns is the canonical registration column list.
var RegistrationColumns = []string{
	"user_id",
	"passcode",
	"job_title",
	"school_name",
	"university_type",
	"locale",
	"role",
	"region",
	"suggested_question",
}

// Row flattens a registration to strings in RegistrationColumns order.
func (g Registration) Row() []string {
	return []string{
		g.UserID,
		g.Passcode,
		g.JobTitle,
		g.SchoolName,
		g.UniversityType,
		g.Locale,
		g.Role,
		g.Region,
		g.SuggestedQuestion,
	}
}

// ParseRegistrationRow parses a flat row back into a Registration.
func ParseRegistrationRow(record []string) (Registration, error) {
	if len(record) != len(RegistrationColumns) {
		return Registration{}, fmt.Errorf("registration row has %d columns, want %d", len(record), len(RegistrationColumns))
	}
	return Registration{
		UserID:            record[0],
		Passcode:          record[1],
		JobTitle:          record[2],
		SchoolName:        record[3],
		UniversityType:    record[4],
		Locale:            record[5],
		Role:              record[6],
		Region:            record[7],
		SuggestedQuestion: record[8],
	}, nil
}
