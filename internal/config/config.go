package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Event     Event     `yaml:"event"`
	Survey    Survey    `yaml:"survey"`
	Synthesis Synthesis `yaml:"synthesis"`
	Dashboard Dashboard `yaml:"dashboard"`
	Output    Output    `yaml:"output"`
	Server    Server    `yaml:"server"`
	Logging   Logging   `yaml:"logging"`
}

type Event struct {
	Title    string `yaml:"title"`
	Audience string `yaml:"audience"`
}

type Survey struct {
	TotalCredits int         `yaml:"total_credits"`
	Categories   []string    `yaml:"categories"`
	Threats      []string    `yaml:"threats"`
	Archetypes   []Archetype `yaml:"archetypes"`
}

// Archetype is one institutional AI-policy stance attendees can pick,
// with its conditional follow-up question.
type Archetype struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Followup    string `yaml:"followup"`
}

type Synthesis struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	OllamaURL   string `yaml:"ollama_url"`
	OpenAIModel string `yaml:"openai_model"`
	APIKeyEnv   string `yaml:"api_key_env"`
	MaxTokens   int    `yaml:"max_tokens"`
}

type Dashboard struct {
	RefreshSeconds int `yaml:"refresh_seconds"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for blueprint.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "blueprint")
}

// DataDir returns the XDG data directory for blueprint.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "blueprint")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/blueprint/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'blueprint init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Event: Event{
			Title:    "MCL 2026 — Collaborative Blueprint",
			Audience: "Muslim Campus Life",
		},
		Survey: Survey{
			TotalCredits: 100,
			Categories: []string{
				"Chaplaincy",
				"Prayer Space",
				"Halal Food",
				"Mental Health",
				"Admin Access",
				"Security/Safety",
				"Legal Defense",
				"Other",
			},
			Threats: []string{
				"Budget Cuts",
				"Doxxing",
				"Protest Bans",
				"Surveillance",
				"Apathy",
			},
			Archetypes: []Archetype{
				{Name: "The Fortress", Description: "Bans, Detection Software", Followup: "How does the ban hurt advocacy?"},
				{Name: "The Ostrich", Description: "No Policy, Confusion", Followup: "What risk does this vacuum create?"},
				{Name: "The Lab", Description: "Experimentation, Training", Followup: "What experiment would you run first?"},
				{Name: "The Watchtower", Description: "Surveillance, Monitoring", Followup: "What specific data do they track?"},
			},
		},
		Synthesis: Synthesis{
			Provider:    "openai",
			Model:       "qwen2.5:7b",
			OllamaURL:   "http://localhost:11434",
			OpenAIModel: "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			MaxTokens:   300,
		},
		Dashboard: Dashboard{RefreshSeconds: 7},
		Server:    Server{Port: 8000},
		Logging:   Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Survey.TotalCredits <= 0 {
		return nil, fmt.Errorf("survey.total_credits must be positive, got %d", cfg.Survey.TotalCredits)
	}
	if len(cfg.Survey.Categories) == 0 {
		return nil, fmt.Errorf("survey.categories must not be empty")
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// ArchetypeNames returns the configured archetype names in order.
func (s Survey) ArchetypeNames() []string {
	names := make([]string, len(s.Archetypes))
	for i, a := range s.Archetypes {
		names[i] = a.Name
	}
	return names
}

// FollowupFor returns the follow-up question for an archetype, or "".
func (s Survey) FollowupFor(name string) string {
	for _, a := range s.Archetypes {
		if a.Name == name {
			return a.Followup
		}
	}
	return ""
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
