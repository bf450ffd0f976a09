package interview

import (
	"context"

	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/prompts"
	"github.com/jonathan/interview-agent/internal/types"
)

// systemPrompt is the interviewer persona shared by all voice calls.
func systemPrompt() string {
	return prompts.MustGet("interview.json", "system")
}

// openingPrompt assembles the interview opening grounded in the case
// narrative and the framing step.
func (iv *Interviewer) openingPrompt(framing types.ReasoningStep) string {
	return prompts.Format(prompts.MustGet("interview.json", "opening"), map[string]string{
		"CaseTitle":       iv.caseTitle,
		"CaseText":        iv.caseText,
		"StepDescription": framing.Description,
		"Skills":          stepSkills(framing),
	})
}

// answerQuestion answers a clarifying question grounded in the case text,
// the current step description and the full transcript.
func (iv *Interviewer) answerQuestion(ctx context.Context, question string) (string, error) {
	step := iv.steps[iv.currentStepID]
	prompt := prompts.Format(prompts.MustGet("interview.json", "answer-question"), map[string]string{
		"CaseText":        iv.caseText,
		"StepDescription": step.Description,
		"Question":        question,
		"History":         formatHistory(iv.history),
	})
	return iv.client.GenerateContent(ctx, llm.Request{
		Prompt: prompt,
		System: systemPrompt(),
		Tier:   llm.TierFull,
	})
}

// guidance nudges the candidate toward the missing aspects of the current
// step without revealing the criteria. Falls back to fixed wording when the
// voice call fails; the evaluated attempt still counts.
func (iv *Interviewer) guidance(ctx context.Context) string {
	step := iv.steps[iv.currentStepID]
	prompt := prompts.Format(prompts.MustGet("interview.json", "guidance"), map[string]string{
		"StepTitle": step.Title,
		"Criteria":  stepCriteria(step),
		"Skills":    stepSkills(step),
		"History":   formatHistory(iv.history),
	})
	reply, err := iv.client.GenerateContent(ctx, llm.Request{
		Prompt:      prompt,
		System:      systemPrompt(),
		Tier:        llm.TierFull,
		Temperature: llm.Temp(0.7),
	})
	if err != nil {
		return guidanceFallback
	}
	return reply
}

// transitionMessage produces the success or consolation framing for a step
// transition that has already been applied.
func (iv *Interviewer) transitionMessage(ctx context.Context, current, next types.ReasoningStep, success bool) (string, error) {
	var prompt string
	if success {
		prompt = prompts.Format(prompts.MustGet("interview.json", "transition-success"), map[string]string{
			"CurrentStepTitle":    current.Title,
			"NextStepTitle":       next.Title,
			"NextStepDescription": next.Description,
			"History":             formatHistory(iv.history),
		})
	} else {
		prompt = prompts.Format(prompts.MustGet("interview.json", "transition-failed"), map[string]string{
			"CurrentStepTitle":    current.Title,
			"Criteria":            stepCriteria(current),
			"Skills":              stepSkills(current),
			"NextStepTitle":       next.Title,
			"NextStepDescription": next.Description,
			"History":             formatHistory(iv.history),
		})
	}
	return iv.client.GenerateContent(ctx, llm.Request{
		Prompt: prompt,
		System: systemPrompt(),
		Tier:   llm.TierFull,
	})
}
