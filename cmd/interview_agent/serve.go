package main

import (
	"fmt"

	"github.com/jonathan/interview-agent/internal/config"
	"github.com/jonathan/interview-agent/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveConfigPath   string
	servePort         int
	serveMaxAttempts  int
	serveMaxQuestions int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running case interviews and skill relevance scoring.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().IntVar(&serveMaxAttempts, "max-attempts", 0, "Per-step attempt budget (default 5)")
	serveCmd.Flags().IntVar(&serveMaxQuestions, "max-questions", 0, "Per-interview question budget (default 10)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	var cfg config.Config
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// CLI flags override the config file; env fills whatever is left.
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveMaxAttempts != 0 {
		cfg.MaxAttempts = serveMaxAttempts
	}
	if serveMaxQuestions != 0 {
		cfg.MaxQuestions = serveMaxQuestions
	}
	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Config{Port: 8080})

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	srv, err := server.New(server.Config{
		Port:         cfg.Port,
		DatabaseURL:  cfg.DatabaseURL,
		APIKey:       cfg.APIKey,
		MaxAttempts:  cfg.MaxAttempts,
		MaxQuestions: cfg.MaxQuestions,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
