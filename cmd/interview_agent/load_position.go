package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/interview-agent/internal/db"
	"github.com/jonathan/interview-agent/internal/types"
	"github.com/spf13/cobra"
)

var loadPositionPath string

var loadPositionCmd = &cobra.Command{
	Use:   "load-position",
	Short: "Store a position definition in the database",
	Long:  `Load a position definition JSON file (cases, criteria and evaluation rubric) into the database, replacing any previous definition with the same ID.`,
	RunE:  runLoadPosition,
}

func init() {
	loadPositionCmd.Flags().StringVar(&loadPositionPath, "file", "", "Path to a position definition JSON file (required)")
	_ = loadPositionCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(loadPositionCmd)
}

func runLoadPosition(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	data, err := os.ReadFile(loadPositionPath)
	if err != nil {
		return fmt.Errorf("failed to read position file: %w", err)
	}
	var position types.Position
	if err := json.Unmarshal(data, &position); err != nil {
		return fmt.Errorf("failed to parse position file: %w", err)
	}
	if position.ID == "" {
		return fmt.Errorf("position file must set an id")
	}
	if len(position.AllCases.Cases) == 0 {
		return fmt.Errorf("position %s has no cases", position.ID)
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.UpsertPosition(ctx, &position); err != nil {
		return err
	}

	fmt.Printf("Stored position %s (%d cases, %d rubric requirements)\n",
		position.ID, len(position.AllCases.Cases), len(position.EvaluationCriteria.EvaluationSchema))
	return nil
}
