// Package wizard models the attendee questionnaire as an explicit step
// state machine: each form submission is a transition
// (current state, step, input) -> new state, validated at the boundary.
package wizard

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mclabs/blueprint/internal/store"
)

// Step identifies a questionnaire step.
type Step int

const (
	StepBudget Step = iota + 1
	StepThreat
	StepArchetype
	StepDone
)

// OtherCategory is the budget category that unlocks the free-text
// description field.
const OtherCategory = "Other"

const (
	minScore = 1
	maxScore = 10
)

// Rules carries the configured survey shape the transitions validate
// against.
type Rules struct {
	TotalCredits int
	Categories   []string
	Archetypes   []string
}

// Input holds one step's parsed form values. Only the fields for the
// step being advanced are read.
type Input struct {
	Budgets          map[string]int
	OtherDescription string
	Reasoning        string

	ThreatName string
	Likelihood int
	Impact     int
	Trigger    string

	Archetype string
	Followup  string
}

// State is one attendee's position in the questionnaire plus the
// response assembled so far.
type State struct {
	SessionID string
	UserID    string
	Step      Step
	Response  store.Response
}

// New starts a questionnaire for a session. userID may be empty for
// anonymous attendees.
func New(sessionID, userID string) State {
	return State{
		SessionID: sessionID,
		UserID:    userID,
		Step:      StepBudget,
		Response: store.Response{
			SessionID: sessionID,
			UserID:    userID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Budgets:   map[string]string{},
		},
	}
}

// Complete reports whether all three questions have been answered.
func (s State) Complete() bool {
	return s.Step == StepDone
}

// Advance applies one step's input and returns the next state.
// Validation failures return the unchanged state with a user-visible
// error; they never panic and never reach the stored table.
func (s State) Advance(step Step, in Input, rules Rules) (State, error) {
	if step != s.Step {
		return s, fmt.Errorf("out-of-order submission: on step %d, got step %d", s.Step, step)
	}

	switch step {
	case StepBudget:
		return s.advanceBudget(in, rules)
	case StepThreat:
		return s.advanceThreat(in)
	case StepArchetype:
		return s.advanceArchetype(in, rules)
	default:
		return s, fmt.Errorf("questionnaire already complete")
	}
}

func (s State) advanceBudget(in Input, rules Rules) (State, error) {
	total := 0
	for _, cat := range rules.Categories {
		v := in.Budgets[cat]
		if v < 0 || v > rules.TotalCredits {
			return s, fmt.Errorf("%s must be between 0 and %d credits", cat, rules.TotalCredits)
		}
		total += v
	}
	if total != rules.TotalCredits {
		return s, fmt.Errorf("allocations must sum to exactly %d credits (got %d)", rules.TotalCredits, total)
	}

	budgets := make(map[string]string, len(rules.Categories))
	for _, cat := range rules.Categories {
		budgets[cat] = strconv.Itoa(in.Budgets[cat])
	}
	s.Response.Budgets = budgets
	if in.Budgets[OtherCategory] > 0 {
		s.Response.OtherDescription = in.OtherDescription
	} else {
		s.Response.OtherDescription = ""
	}
	s.Response.Reasoning = in.Reasoning
	s.Step = StepThreat
	return s, nil
}

func (s State) advanceThreat(in Input) (State, error) {
	if in.ThreatName == "" {
		return s, fmt.Errorf("please select or describe a threat")
	}
	if in.Likelihood < minScore || in.Likelihood > maxScore {
		return s, fmt.Errorf("likelihood must be between %d and %d", minScore, maxScore)
	}
	if in.Impact < minScore || in.Impact > maxScore {
		return s, fmt.Errorf("impact must be between %d and %d", minScore, maxScore)
	}

	s.Response.ThreatName = in.ThreatName
	s.Response.Likelihood = strconv.Itoa(in.Likelihood)
	s.Response.Impact = strconv.Itoa(in.Impact)
	s.Response.Trigger = in.Trigger
	s.Step = StepArchetype
	return s, nil
}

func (s State) advanceArchetype(in Input, rules Rules) (State, error) {
	valid := false
	for _, a := range rules.Archetypes {
		if a == in.Archetype {
			valid = true
			break
		}
	}
	if !valid {
		return s, fmt.Errorf("please pick one of the archetypes")
	}

	s.Response.Archetype = in.Archetype
	s.Response.Followup = in.Followup
	s.Step = StepDone
	return s, nil
}
