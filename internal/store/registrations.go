package store

import (
	"errors"
	"strings"
)

// ErrUserIDTaken is returned when a registration collides with an
// existing user id.
var ErrUserIDTaken = errors.New("user id already taken")

// InsertRegistration appends one registration row. The user_id column is
// unique, so a colliding insert fails with ErrUserIDTaken even if a
// concurrent registration slipped past UserIDAvailable.
func (s *Store) InsertRegistration(g Registration) error {
	_, err := s.conn.Exec(
		`INSERT INTO registrations
		(user_id, passcode, job_title, school_name, university_type, locale,
		 role, region, suggested_question)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Passcode, g.JobTitle, g.SchoolName, g.UniversityType,
		g.Locale, g.Role, g.Region, g.SuggestedQuestion,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrUserIDTaken
	}
	return err
}

// AllRegistrations returns every registration in insertion order.
func (s *Store) AllRegistrations() ([]Registration, error) {
	rows, err := s.conn.Query(
		`SELECT user_id, passcode, job_title, school_name, university_type,
		        locale, role, region, suggested_question, created_at
		 FROM registrations ORDER BY created_at, user_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := []Registration{}
	for rows.Next() {
		var g Registration
		if err := rows.Scan(&g.UserID, &g.Passcode, &g.JobTitle, &g.SchoolName,
			&g.UniversityType, &g.Locale, &g.Role, &g.Region,
			&g.SuggestedQuestion, &g.CreatedAt); err != nil {
			return nil, err
		}
		registrations = append(registrations, g)
	}
	return registrations, rows.Err()
}

// UserIDAvailable reports whether a user id is not already registered.
//
// This is a check-then-act probe: two concurrent registrations can both
// see the id as available before either writes. The unique constraint on
// user_id is the backstop that makes the second InsertRegistration fail.
func (s *Store) UserIDAvailable(userID string) (bool, error) {
	var n int
	err := s.conn.QueryRow(
		"SELECT COUNT(*) FROM registrations WHERE user_id = ?", userID,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Authenticate reports whether the id/passcode pair matches a
// registration record.
func (s *Store) Authenticate(userID, passcode string) (bool, error) {
	var n int
	err := s.conn.QueryRow(
		"SELECT COUNT(*) FROM registrations WHERE user_id = ? AND passcode = ?",
		userID, passcode,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SuggestedQuestions returns the non-empty suggested questions from all
// registrations, in insertion order.
func (s *Store) SuggestedQuestions() ([]string, error) {
	rows, err := s.conn.Query(
		`SELECT suggested_question FROM registrations
		 WHERE suggested_question != '' ORDER BY created_at, user_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetStats returns aggregate database statistics.
func (s *Store) GetStats() (*Stats, error) {
	st := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM responses", &st.Responses},
		{"SELECT COUNT(*) FROM responses WHERE user_id = ''", &st.AnonymousResponses},
		{"SELECT COUNT(*) FROM registrations", &st.Registrations},
		{"SELECT COUNT(*) FROM registrations WHERE suggested_question != ''", &st.SuggestedQuestions},
	}

	for _, q := range queries {
		if err := s.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return st, nil
}
