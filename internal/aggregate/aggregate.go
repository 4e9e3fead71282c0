// Package aggregate turns the raw response table into the summary
// statistics behind the dashboard charts and the AI Mirror prompt.
package aggregate

import (
	"math"
	"strconv"
	"strings"

	"github.com/mclabs/blueprint/internal/store"
)

// defaultScore substitutes for an absent or non-numeric likelihood or
// impact value so the row still lands on the threat matrix.
const defaultScore = 5

// Threat is one attendee's (name, likelihood, impact, trigger) record.
type Threat struct {
	Name       string  `json:"name"`
	Likelihood float64 `json:"likelihood"`
	Impact     float64 `json:"impact"`
	Trigger    string  `json:"trigger"`
}

// Summary holds the statistics derived from all current responses.
// It is recomputed from scratch on every read and never persisted.
type Summary struct {
	TotalResponses    int                `json:"total_responses"`
	AvgBudgets        map[string]float64 `json:"avg_budgets"`
	TopPriority       string             `json:"top_priority"`
	Threats           []Threat           `json:"threats"`
	TopThreat         string             `json:"top_threat"`
	ArchetypeCounts   map[string]int     `json:"archetype_counts"`
	DominantArchetype string             `json:"dominant_archetype"`
}

// Aggregate computes a Summary from the full response table. It is a
// pure function of its inputs and never fails: empty input yields a
// zero-valued summary, and malformed values are excluded from the
// relevant average rather than dropping the row.
//
// Tie-breaks are explicit: TopPriority ties resolve to the earlier
// category in the configured order; TopThreat and DominantArchetype
// ties resolve to the name that first appears in the response table.
func Aggregate(responses []store.Response, categories []string) Summary {
	s := Summary{
		TotalResponses:  len(responses),
		AvgBudgets:      map[string]float64{},
		Threats:         []Threat{},
		ArchetypeCounts: map[string]int{},
	}

	// Budget averages: only coercible values count, and a category with
	// no coercible values at all is omitted rather than reported as 0.
	topAvg := math.Inf(-1)
	for _, cat := range categories {
		var sum float64
		var n int
		for _, r := range responses {
			v, ok := coerce(r.Budgets[cat])
			if !ok {
				continue
			}
			sum += v
			n++
		}
		if n == 0 {
			continue
		}
		avg := sum / float64(n)
		s.AvgBudgets[cat] = avg
		if avg > topAvg {
			topAvg = avg
			s.TopPriority = cat
		}
	}

	// Threat tuples, one per response in table order.
	scores := map[string][]float64{}
	var threatOrder []string
	for _, r := range responses {
		lk := coerceOr(r.Likelihood, defaultScore)
		im := coerceOr(r.Impact, defaultScore)
		s.Threats = append(s.Threats, Threat{
			Name:       r.ThreatName,
			Likelihood: lk,
			Impact:     im,
			Trigger:    r.Trigger,
		})
		if _, seen := scores[r.ThreatName]; !seen {
			threatOrder = append(threatOrder, r.ThreatName)
		}
		scores[r.ThreatName] = append(scores[r.ThreatName], lk+im)
	}

	// Top threat: highest mean(likelihood+impact) per name.
	topScore := math.Inf(-1)
	for _, name := range threatOrder {
		var sum float64
		for _, v := range scores[name] {
			sum += v
		}
		if mean := sum / float64(len(scores[name])); mean > topScore {
			topScore = mean
			s.TopThreat = name
		}
	}

	// Archetype frequency. An empty-string archetype is its own bucket:
	// the count is a raw pass-through, not a validated business rule.
	var archetypeOrder []string
	for _, r := range responses {
		if _, seen := s.ArchetypeCounts[r.Archetype]; !seen {
			archetypeOrder = append(archetypeOrder, r.Archetype)
		}
		s.ArchetypeCounts[r.Archetype]++
	}

	topCount := 0
	for _, name := range archetypeOrder {
		if c := s.ArchetypeCounts[name]; c > topCount {
			topCount = c
			s.DominantArchetype = name
		}
	}

	return s
}

// coerce parses a raw cell into a finite float64.
func coerce(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// coerceOr parses a raw cell, substituting fallback when it is absent
// or non-numeric.
func coerceOr(raw string, fallback float64) float64 {
	if v, ok := coerce(raw); ok {
		return v
	}
	return fallback
}
