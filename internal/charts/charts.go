// Package charts turns an aggregate.Summary into render-ready data for
// the dashboard and results templates. Builders are pure functions; the
// templates do the actual drawing.
package charts

import (
	"sort"

	"github.com/mclabs/blueprint/internal/aggregate"
)

// Bar is one category in the priority budget chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	// Percent is the bar width relative to the configured credit total.
	Percent float64 `json:"percent"`
	Top     bool    `json:"top"`
}

// PriorityBars returns categories sorted by average allocation,
// descending. Ties keep the configured category order (AvgBudgets
// iteration is randomized, so sort from the summary's category view).
func PriorityBars(s aggregate.Summary, categories []string, totalCredits int) []Bar {
	bars := []Bar{}
	for _, cat := range categories {
		avg, ok := s.AvgBudgets[cat]
		if !ok {
			continue
		}
		bars = append(bars, Bar{
			Label:   cat,
			Value:   avg,
			Percent: avg / float64(totalCredits) * 100,
			Top:     cat == s.TopPriority,
		})
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Value > bars[j].Value })
	return bars
}

// Point is one threat tuple positioned on the 1-10 x 1-10 risk matrix.
type Point struct {
	Name       string  `json:"name"`
	Likelihood float64 `json:"likelihood"`
	Impact     float64 `json:"impact"`
	Trigger    string  `json:"trigger"`
	// Left/Bottom are percent offsets into the plot box.
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
}

// ThreatScatter positions every threat tuple in the quadrant box. The
// axes span 0.5..10.5 so a score of 5.5 sits on the quadrant boundary.
func ThreatScatter(s aggregate.Summary) []Point {
	points := []Point{}
	for _, t := range s.Threats {
		points = append(points, Point{
			Name:       t.Name,
			Likelihood: t.Likelihood,
			Impact:     t.Impact,
			Trigger:    t.Trigger,
			Left:       axisPercent(t.Likelihood),
			Bottom:     axisPercent(t.Impact),
		})
	}
	return points
}

func axisPercent(v float64) float64 {
	p := (v - 0.5) / 10 * 100
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p
}

// Cell is one archetype in the selection grid.
type Cell struct {
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Dominant bool   `json:"dominant"`
}

// ArchetypeGrid lays the configured archetypes out in rows of two, with
// each cell carrying its selection count. Unconfigured buckets in the
// count map (including the empty-string bucket) are not displayed.
func ArchetypeGrid(s aggregate.Summary, archetypes []string) [][]Cell {
	var grid [][]Cell
	var row []Cell
	for _, name := range archetypes {
		row = append(row, Cell{
			Name:     name,
			Count:    s.ArchetypeCounts[name],
			Dominant: name != "" && name == s.DominantArchetype,
		})
		if len(row) == 2 {
			grid = append(grid, row)
			row = nil
		}
	}
	if len(row) > 0 {
		grid = append(grid, row)
	}
	return grid
}
