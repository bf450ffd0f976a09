package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/interview-agent/internal/db"
	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/observability"
	"github.com/jonathan/interview-agent/internal/scoring"
	"github.com/jonathan/interview-agent/internal/types"
	"github.com/spf13/cobra"
)

var scoreSessionID string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Recompute skill relevance scores for a session",
	Long: `Recompute the CV and interview skill relevance scores for a finished session and print the result.

Rescoring is idempotent: the previous result for the session is overwritten.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreSessionID, "session-id", "", "Session to score (required)")
	_ = scoreCmd.MarkFlagRequired("session-id")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	scorer := scoring.NewScorer(client, database, database)
	if err := scorer.ComputeAndSave(ctx, scoreSessionID); err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	raw, err := database.GetStageOutput(ctx, scoreSessionID, types.StageSkillRelevance)
	if err != nil {
		return err
	}
	var collection types.SkillScoreCollection
	if err := json.Unmarshal(raw, &collection); err != nil {
		return fmt.Errorf("failed to decode stored scores: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintSkillScores(&collection)
	for _, score := range collection.Scores {
		if score.NotesCV != "" {
			fmt.Printf("  %s cv: %s\n", score.SkillName, score.NotesCV)
		}
		if score.NotesInterview != "" {
			fmt.Printf("  %s interview: %s\n", score.SkillName, score.NotesInterview)
		}
	}
	return nil
}
