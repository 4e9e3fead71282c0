package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mclabs/blueprint/internal/aggregate"
	"github.com/mclabs/blueprint/internal/config"
	"github.com/mclabs/blueprint/internal/llm"
	"github.com/mclabs/blueprint/internal/mirror"
	"github.com/mclabs/blueprint/internal/server"
	"github.com/mclabs/blueprint/internal/store"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "blueprint",
	Short:   "Live collaborative questionnaire for events",
	Long:    "Blueprint runs a three-question event survey, aggregates the room's answers in near real time, and synthesizes them into a strategic summary on a projector dashboard.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("blueprint", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/blueprint/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to set the event title, survey categories, and LLM provider.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Event: %s\n\n", cfg.Event.Title)
		fmt.Println("Responses:")
		fmt.Printf("  Total: %d\n", stats.Responses)
		fmt.Printf("  Anonymous: %d\n", stats.AnonymousResponses)
		fmt.Println("\nRegistrations:")
		fmt.Printf("  Total: %d\n", stats.Registrations)
		fmt.Printf("  Suggested questions: %d\n", stats.SuggestedQuestions)
		fmt.Printf("\nDatabase: %s\n", st.Path())
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the survey and dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		provider := llm.CreateProvider(
			cfg.Synthesis.Provider, cfg.Synthesis.Model, cfg.Synthesis.OllamaURL,
			cfg.Synthesis.OpenAIModel, cfg.Synthesis.APIKeyEnv)
		m := mirror.New(provider, cfg.Event.Audience, cfg.Synthesis.MaxTokens)

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Printf("Projector dashboard at http://localhost:%d/dashboard\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(st, cfg, m, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

// --- summary command ---

var synthesize bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the aggregated results",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		responses, err := st.AllResponses()
		if err != nil {
			return fmt.Errorf("reading responses: %w", err)
		}

		s := aggregate.Aggregate(responses, cfg.Survey.Categories)
		if s.TotalResponses == 0 {
			fmt.Println("No responses yet.")
			return nil
		}

		fmt.Printf("Responses: %d\n\n", s.TotalResponses)

		fmt.Println("Average budget allocation:")
		for _, cat := range cfg.Survey.Categories {
			avg, ok := s.AvgBudgets[cat]
			if !ok {
				continue
			}
			marker := " "
			if cat == s.TopPriority {
				marker = "*"
			}
			fmt.Printf("  %s %-40s %6.1f\n", marker, cat, avg)
		}

		fmt.Println("\nThreats (likelihood x impact):")
		for _, th := range s.Threats {
			marker := " "
			if th.Name == s.TopThreat {
				marker = "*"
			}
			fmt.Printf("  %s %-40s %.1f x %.1f\n", marker, th.Name, th.Likelihood, th.Impact)
		}

		fmt.Println("\nAI-policy archetypes:")
		for _, name := range cfg.Survey.ArchetypeNames() {
			count, ok := s.ArchetypeCounts[name]
			if !ok {
				continue
			}
			marker := " "
			if name == s.DominantArchetype {
				marker = "*"
			}
			fmt.Printf("  %s %-40s %d\n", marker, name, count)
		}

		if synthesize {
			provider := llm.CreateProvider(
				cfg.Synthesis.Provider, cfg.Synthesis.Model, cfg.Synthesis.OllamaURL,
				cfg.Synthesis.OpenAIModel, cfg.Synthesis.APIKeyEnv)
			m := mirror.New(provider, cfg.Event.Audience, cfg.Synthesis.MaxTokens)

			fmt.Println("\nSynthesizing strategic summary...")
			tactic, err := m.Generate(context.Background(), s)
			if err != nil {
				return fmt.Errorf("synthesizing: %w", err)
			}
			fmt.Printf("\n%s\n", tactic)
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&synthesize, "synthesize", false, "Also generate the LLM strategic summary")
}

// --- export command ---

var exportRegistrations bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export responses (or registrations) as CSV to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		w := csv.NewWriter(os.Stdout)

		if exportRegistrations {
			regs, err := st.AllRegistrations()
			if err != nil {
				return fmt.Errorf("reading registrations: %w", err)
			}
			if err := w.Write(store.RegistrationColumns); err != nil {
				return err
			}
			for _, g := range regs {
				if err := w.Write(g.Row()); err != nil {
					return err
				}
			}
		} else {
			responses, err := st.AllResponses()
			if err != nil {
				return fmt.Errorf("reading responses: %w", err)
			}
			if err := w.Write(store.ResponseColumns(cfg.Survey.Categories)); err != nil {
				return err
			}
			for _, r := range responses {
				if err := w.Write(r.Row(cfg.Survey.Categories)); err != nil {
					return err
				}
			}
		}

		w.Flush()
		return w.Error()
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportRegistrations, "registrations", false, "Export registrations instead of responses")
}

func openStore() (*store.Store, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return store.Open(filepath.Join(dataDir, "blueprint.db"))
}
