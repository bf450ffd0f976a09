package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/prompts"
)

// evaluationWindow bounds how many transcript turns the step-completion
// judgment sees. Older turns are dropped from the judgment only, never from
// the persisted history.
const evaluationWindow = 8

type inputClassification struct {
	IsQuestion bool `json:"is_question"`
}

type stepEvaluation struct {
	Accomplished bool `json:"accomplished"`
}

type stepChoice struct {
	NextStepID int `json:"next_step_id"`
}

// classifyInput decides whether the candidate's message is a clarifying
// question about the case or a substantive attempt. Malformed model output
// defaults to "substantive attempt"; only transport failures surface as
// errors.
func (iv *Interviewer) classifyInput(ctx context.Context, input string) (bool, error) {
	prompt := prompts.Format(prompts.MustGet("interview.json", "classify-input"), map[string]string{
		"UserInput": input,
	})
	raw, err := iv.client.GenerateJSON(ctx, llm.Request{
		Prompt:      prompt,
		System:      prompts.MustGet("interview.json", "classifier-system"),
		Tier:        llm.TierLite,
		Temperature: llm.Temp(0),
		MaxTokens:   llm.Tokens(64),
	})
	if err != nil {
		return false, err
	}

	var c inputClassification
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &c); err != nil {
		return false, nil
	}
	return c.IsQuestion, nil
}

// evaluateStep judges whether the current step's accomplishment criteria
// have been satisfied, looking at the recent transcript window. Malformed
// model output defaults to "not accomplished".
func (iv *Interviewer) evaluateStep(ctx context.Context) (bool, error) {
	step := iv.steps[iv.currentStepID]
	stepContext := fmt.Sprintf("Title: %s\nDescription: %s", step.Title, step.Description)

	prompt := prompts.Format(prompts.MustGet("interview.json", "evaluate-step"), map[string]string{
		"StepContext": stepContext,
		"Criteria":    stepCriteria(step),
		"Skills":      stepSkills(step),
		"History":     formatHistory(iv.recentHistory(evaluationWindow)),
	})
	raw, err := iv.client.GenerateJSON(ctx, llm.Request{
		Prompt:      prompt,
		System:      systemPrompt(),
		Tier:        llm.TierLite,
		Temperature: llm.Temp(0.2),
		MaxTokens:   llm.Tokens(64),
	})
	if err != nil {
		return false, err
	}

	var e stepEvaluation
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &e); err != nil {
		return false, nil
	}
	return e.Accomplished, nil
}

// selectNextStep asks the model for the most natural next step among those
// not yet completed. Any misbehavior - transport failure, malformed JSON,
// an ID outside the available set - falls back to the first available step,
// so progress is never blocked. The second return value is false only when
// no steps remain.
func (iv *Interviewer) selectNextStep(ctx context.Context) (int, bool) {
	available := iv.availableSteps()
	if len(available) == 0 {
		return 0, false
	}

	var options []string
	for _, id := range available {
		step := iv.steps[id]
		options = append(options, fmt.Sprintf("ID: %d, Title: %s, Skills: %s", id, step.Title, stepSkills(step)))
	}

	prompt := prompts.Format(prompts.MustGet("interview.json", "select-next-step"), map[string]string{
		"Options": strings.Join(options, "\n"),
		"History": formatHistory(iv.history),
	})
	raw, err := iv.client.GenerateJSON(ctx, llm.Request{
		Prompt:      prompt,
		System:      prompts.MustGet("interview.json", "selector-system"),
		Tier:        llm.TierLite,
		Temperature: llm.Temp(0.1),
		MaxTokens:   llm.Tokens(32),
	})
	if err != nil {
		return available[0], true
	}

	chosen, ok := parseStepChoice(raw)
	if !ok {
		return available[0], true
	}
	for _, id := range available {
		if id == chosen {
			return chosen, true
		}
	}
	return available[0], true
}

// parseStepChoice extracts a step ID from the chooser response: the JSON
// shape first, then bare digits as a lenient fallback.
func parseStepChoice(raw string) (int, bool) {
	cleaned := llm.CleanJSONBlock(raw)

	var choice stepChoice
	if err := json.Unmarshal([]byte(cleaned), &choice); err == nil {
		return choice.NextStepID, true
	}

	var digits strings.Builder
	for _, r := range cleaned {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	var id int
	if _, err := fmt.Sscanf(digits.String(), "%d", &id); err != nil {
		return 0, false
	}
	return id, true
}
