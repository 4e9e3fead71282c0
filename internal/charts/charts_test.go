package charts

import (
	"testing"

	"github.com/mclabs/blueprint/internal/aggregate"
)

var categories = []string{"A", "B", "C"}

func TestPriorityBarsSortedDescending(t *testing.T) {
	s := aggregate.Summary{
		AvgBudgets:  map[string]float64{"A": 20, "B": 55, "C": 25},
		TopPriority: "B",
	}

	bars := PriorityBars(s, categories, 100)
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	if bars[0].Label != "B" || bars[1].Label != "C" || bars[2].Label != "A" {
		t.Errorf("unexpected order: %v", bars)
	}
	if !bars[0].Top {
		t.Error("expected top priority flagged")
	}
	if bars[0].Percent != 55 {
		t.Errorf("expected percent 55, got %v", bars[0].Percent)
	}
}

func TestPriorityBarsSkipsMissingCategories(t *testing.T) {
	s := aggregate.Summary{AvgBudgets: map[string]float64{"A": 50}}
	bars := PriorityBars(s, categories, 100)
	if len(bars) != 1 {
		t.Errorf("expected 1 bar, got %d", len(bars))
	}
}

func TestPriorityBarsEmpty(t *testing.T) {
	bars := PriorityBars(aggregate.Summary{AvgBudgets: map[string]float64{}}, categories, 100)
	if len(bars) != 0 {
		t.Errorf("expected no bars, got %d", len(bars))
	}
}

func TestThreatScatterCoordinates(t *testing.T) {
	s := aggregate.Summary{Threats: []aggregate.Threat{
		{Name: "X", Likelihood: 5.5, Impact: 10, Trigger: "t"},
	}}

	points := ThreatScatter(s)
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	// 5.5 is the quadrant boundary -> exactly 50%
	if points[0].Left != 50 {
		t.Errorf("expected left 50, got %v", points[0].Left)
	}
	if points[0].Bottom != 95 {
		t.Errorf("expected bottom 95, got %v", points[0].Bottom)
	}
}

func TestThreatScatterClampsOutliers(t *testing.T) {
	s := aggregate.Summary{Threats: []aggregate.Threat{
		{Name: "X", Likelihood: -3, Impact: 40},
	}}

	points := ThreatScatter(s)
	if points[0].Left != 0 || points[0].Bottom != 100 {
		t.Errorf("expected clamped coordinates, got %v/%v", points[0].Left, points[0].Bottom)
	}
}

func TestArchetypeGrid(t *testing.T) {
	s := aggregate.Summary{
		ArchetypeCounts:   map[string]int{"The Fortress": 3, "The Lab": 5, "": 2},
		DominantArchetype: "The Lab",
	}
	archetypes := []string{"The Fortress", "The Ostrich", "The Lab", "The Watchtower"}

	grid := ArchetypeGrid(s, archetypes)
	if len(grid) != 2 || len(grid[0]) != 2 || len(grid[1]) != 2 {
		t.Fatalf("expected 2x2 grid, got %v", grid)
	}
	if grid[0][0].Count != 3 {
		t.Errorf("expected Fortress count 3, got %d", grid[0][0].Count)
	}
	if grid[0][1].Count != 0 {
		t.Errorf("expected Ostrich count 0, got %d", grid[0][1].Count)
	}
	if !grid[1][0].Dominant {
		t.Error("expected The Lab flagged dominant")
	}
}

func TestArchetypeGridOddCount(t *testing.T) {
	grid := ArchetypeGrid(aggregate.Summary{ArchetypeCounts: map[string]int{}}, []string{"A", "B", "C"})
	if len(grid) != 2 || len(grid[1]) != 1 {
		t.Errorf("expected trailing single-cell row, got %v", grid)
	}
}
