// Package mirror drives the "AI Mirror" panel: it builds the synthesis
// prompt from the aggregated summary and gates generation behind an
// explicit state machine so the projector's periodic refresh cannot
// interrupt an in-flight LLM call.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mclabs/blueprint/internal/aggregate"
	"github.com/mclabs/blueprint/internal/llm"
)

// State is the mirror's position in the Idle -> Generating ->
// Displaying -> Idle cycle.
type State int

const (
	Idle State = iota
	Generating
	Displaying
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Displaying:
		return "displaying"
	}
	return "unknown"
}

// ErrBusy is returned when a generation is requested while one is
// already in flight.
var ErrBusy = errors.New("synthesis already in progress")

// ErrNoProvider is returned when no LLM provider is configured.
var ErrNoProvider = errors.New("no LLM provider configured")

const systemPrompt = "You are a concise strategic advisor. Respond in exactly 3 sentences."

// BuildPrompt constructs the synthesis prompt from the aggregate's top
// priority, top threat, and dominant archetype.
func BuildPrompt(s aggregate.Summary, audience string) string {
	return fmt.Sprintf(
		"You are a strategic advisor for %s. "+
			"The data shows attendees prioritize **%s** "+
			"but face **%s** as their top threat. "+
			"Their institutions have a **%s** policy regarding AI.\n\n"+
			"**Task:** Write a specific, 3-sentence 'Guerilla Tactic' for how "+
			"they can use AI tools to achieve %s despite %s, "+
			"taking advantage of the %s policy environment.",
		audience,
		s.TopPriority, s.TopThreat, s.DominantArchetype,
		s.TopPriority, s.TopThreat, s.DominantArchetype,
	)
}

// Mirror holds the synthesis state machine and its generated tactic.
type Mirror struct {
	provider  llm.Provider
	audience  string
	maxTokens int

	mu     sync.Mutex
	state  State
	tactic string
}

// New creates a Mirror in the Idle state. provider may be nil, in which
// case Generate fails with ErrNoProvider.
func New(provider llm.Provider, audience string, maxTokens int) *Mirror {
	return &Mirror{provider: provider, audience: audience, maxTokens: maxTokens}
}

// State returns the current state.
func (m *Mirror) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Tactic returns the last generated tactic, or "".
func (m *Mirror) Tactic() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tactic
}

// RefreshEnabled reports whether the dashboard's periodic refresh may
// run. Refresh only happens while idle: generating must not be
// interrupted, and a displayed tactic must not be wiped by a reload.
func (m *Mirror) RefreshEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Idle
}

// Generate runs one synthesis from the given summary. On success the
// mirror transitions to Displaying and returns the tactic. On provider
// failure or empty output it returns to its prior state and reports the
// error; it never substitutes placeholder text.
func (m *Mirror) Generate(ctx context.Context, s aggregate.Summary) (string, error) {
	m.mu.Lock()
	if m.state == Generating {
		m.mu.Unlock()
		return "", ErrBusy
	}
	prev := m.state
	m.state = Generating
	provider := m.provider
	m.mu.Unlock()

	restore := func() {
		m.mu.Lock()
		m.state = prev
		m.mu.Unlock()
	}

	if provider == nil {
		restore()
		return "", ErrNoProvider
	}

	text, err := provider.Generate(ctx, systemPrompt, BuildPrompt(s, m.audience), m.maxTokens)
	if err != nil {
		restore()
		return "", fmt.Errorf("generating synthesis: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		restore()
		return "", errors.New("synthesis returned empty text")
	}

	m.mu.Lock()
	m.tactic = text
	m.state = Displaying
	m.mu.Unlock()
	return text, nil
}

// Resume clears the displayed tactic and re-enables live updates.
func (m *Mirror) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Generating {
		return
	}
	m.tactic = ""
	m.state = Idle
}
