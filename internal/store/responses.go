package store

import (
	"encoding/json"
	"fmt"
)

// InsertResponse appends one response row. Not idempotent: callers must
// not retry blindly on ambiguous failure, or they may duplicate.
func (s *Store) InsertResponse(r Response) (int64, error) {
	budgets := r.Budgets
	if budgets == nil {
		budgets = map[string]string{}
	}
	budgetsJSON, err := json.Marshal(budgets)
	if err != nil {
		return 0, fmt.Errorf("encoding budgets: %w", err)
	}

	result, err := s.conn.Exec(
		`INSERT INTO responses
		(session_id, user_id, timestamp, budgets, other_description, reasoning,
		 threat_name, likelihood, impact, trigger_event, archetype, followup)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.UserID, r.Timestamp, string(budgetsJSON),
		r.OtherDescription, r.Reasoning,
		r.ThreatName, r.Likelihood, r.Impact, r.Trigger, r.Archetype, r.Followup,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// AllResponses returns every response in insertion order.
// Returns an empty slice (not an error) when no data exists.
func (s *Store) AllResponses() ([]Response, error) {
	rows, err := s.conn.Query(
		`SELECT id, session_id, user_id, timestamp, budgets, other_description,
		        reasoning, threat_name, likelihood, impact, trigger_event,
		        archetype, followup, created_at
		 FROM responses ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []Response{}
	for rows.Next() {
		var r Response
		var budgetsJSON string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.UserID, &r.Timestamp,
			&budgetsJSON, &r.OtherDescription, &r.Reasoning,
			&r.ThreatName, &r.Likelihood, &r.Impact, &r.Trigger,
			&r.Archetype, &r.Followup, &r.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(budgetsJSON), &r.Budgets); err != nil {
			// Malformed budgets never fail the read; the aggregator
			// treats a missing category value as non-coercible anyway.
			r.Budgets = map[string]string{}
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// CountResponses returns the number of response rows.
func (s *Store) CountResponses() (int, error) {
	var n int
	err := s.conn.QueryRow("SELECT COUNT(*) FROM responses").Scan(&n)
	return n, err
}
