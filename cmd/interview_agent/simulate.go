package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/interview-agent/internal/interview"
	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/observability"
	"github.com/jonathan/interview-agent/internal/types"
	"github.com/spf13/cobra"
)

var (
	simulatePositionPath string
	simulateCaseID       string
	simulateVerbose      bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive a case interview from the terminal",
	Long: `Run an interview against a position definition file without a database.

The position file is the same JSON document served by POST /positions. Type
answers at the prompt; the interview ends when every reasoning step is
completed or its budgets run out.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simulatePositionPath, "position", "", "Path to a position definition JSON file (required)")
	simulateCmd.Flags().StringVar(&simulateCaseID, "case-id", "", "Case to run (defaults to the position's first case)")
	simulateCmd.Flags().BoolVarP(&simulateVerbose, "verbose", "v", false, "Print the case map and final transcript")
	_ = simulateCmd.MarkFlagRequired("position")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	data, err := os.ReadFile(simulatePositionPath)
	if err != nil {
		return fmt.Errorf("failed to read position file: %w", err)
	}
	var position types.Position
	if err := json.Unmarshal(data, &position); err != nil {
		return fmt.Errorf("failed to parse position file: %w", err)
	}
	if len(position.AllCases.Cases) == 0 {
		return fmt.Errorf("position %s has no cases", position.ID)
	}

	selectedCase := &position.AllCases.Cases[0]
	if simulateCaseID != "" {
		if selectedCase = position.CaseByID(simulateCaseID); selectedCase == nil {
			return fmt.Errorf("case %s not found in position %s", simulateCaseID, position.ID)
		}
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	iv := interview.New(client, selectedCase, position.CriteriaSetFor(selectedCase.ID))
	opening, err := iv.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start interview: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	if simulateVerbose {
		printer.PrintCase(selectedCase)
	}

	fmt.Printf("--- %s ---\n\n", selectedCase.Title)
	fmt.Printf("Interviewer: %s\n\n", opening)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for !iv.Finished() {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		if input == "" {
			continue
		}

		reply := iv.ProcessResponse(ctx, input)
		fmt.Printf("\nInterviewer: %s\n\n", reply)
	}

	state := iv.State()
	if simulateVerbose {
		printer.PrintTranscript(state.Conversation)
	}
	fmt.Printf("--- Interview over: %d turns, %d clarifying questions remaining ---\n",
		state.HistoryLen, state.RemainingQuestions)
	return scanner.Err()
}
