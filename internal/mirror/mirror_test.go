package mirror

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mclabs/blueprint/internal/aggregate"
)

// fakeProvider returns canned text or an error.
type fakeProvider struct {
	text string
	err  error
	// captured
	system string
	prompt string
}

func (f *fakeProvider) Generate(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	f.system = system
	f.prompt = prompt
	return f.text, f.err
}

func (f *fakeProvider) IsConfigured() bool { return true }

func sampleSummary() aggregate.Summary {
	return aggregate.Summary{
		TopPriority:       "Chaplaincy",
		TopThreat:         "Budget Cuts",
		DominantArchetype: "The Lab",
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(sampleSummary(), "Muslim Campus Life")

	for _, want := range []string{"Muslim Campus Life", "Chaplaincy", "Budget Cuts", "The Lab", "Guerilla Tactic"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestGenerateSuccess(t *testing.T) {
	p := &fakeProvider{text: "  A bold tactic.  "}
	m := New(p, "Test Audience", 300)

	if m.State() != Idle {
		t.Errorf("expected Idle, got %v", m.State())
	}
	if !m.RefreshEnabled() {
		t.Error("expected refresh enabled while idle")
	}

	tactic, err := m.Generate(context.Background(), sampleSummary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tactic != "A bold tactic." {
		t.Errorf("expected trimmed tactic, got %q", tactic)
	}
	if m.State() != Displaying {
		t.Errorf("expected Displaying, got %v", m.State())
	}
	if m.RefreshEnabled() {
		t.Error("expected refresh disabled while displaying")
	}
	if !strings.Contains(p.prompt, "Test Audience") {
		t.Error("expected audience in prompt")
	}
}

func TestGenerateProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("network down")}
	m := New(p, "Test", 300)

	_, err := m.Generate(context.Background(), sampleSummary())
	if err == nil {
		t.Fatal("expected error")
	}
	if m.State() != Idle {
		t.Errorf("expected return to Idle after failure, got %v", m.State())
	}
	if m.Tactic() != "" {
		t.Errorf("expected no placeholder tactic, got %q", m.Tactic())
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	p := &fakeProvider{text: "   "}
	m := New(p, "Test", 300)

	_, err := m.Generate(context.Background(), sampleSummary())
	if err == nil {
		t.Fatal("expected error for empty synthesis")
	}
	if m.Tactic() != "" {
		t.Error("expected no tactic stored")
	}
}

func TestGenerateNoProvider(t *testing.T) {
	m := New(nil, "Test", 300)
	_, err := m.Generate(context.Background(), sampleSummary())
	if !errors.Is(err, ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}
	if m.State() != Idle {
		t.Errorf("expected Idle, got %v", m.State())
	}
}

func TestGenerateBusy(t *testing.T) {
	m := New(&fakeProvider{text: "x"}, "Test", 300)
	m.mu.Lock()
	m.state = Generating
	m.mu.Unlock()

	_, err := m.Generate(context.Background(), sampleSummary())
	if !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if m.RefreshEnabled() {
		t.Error("expected refresh disabled while generating")
	}
}

func TestResume(t *testing.T) {
	m := New(&fakeProvider{text: "tactic"}, "Test", 300)
	m.Generate(context.Background(), sampleSummary())

	m.Resume()
	if m.State() != Idle {
		t.Errorf("expected Idle after resume, got %v", m.State())
	}
	if m.Tactic() != "" {
		t.Error("expected tactic cleared after resume")
	}
	if !m.RefreshEnabled() {
		t.Error("expected refresh re-enabled")
	}
}

func TestRegenerateOverwritesTactic(t *testing.T) {
	p := &fakeProvider{text: "first"}
	m := New(p, "Test", 300)
	m.Generate(context.Background(), sampleSummary())

	p.text = "second"
	tactic, err := m.Generate(context.Background(), sampleSummary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tactic != "second" || m.Tactic() != "second" {
		t.Errorf("expected regenerated tactic, got %q", m.Tactic())
	}
}
