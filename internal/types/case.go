// Package types provides type definitions for structured data used throughout the interview-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SkillToTest names a skill targeted by a reasoning step and how it is probed.
type SkillToTest struct {
	SkillName     string `json:"skill_name"`
	TestingMethod string `json:"testing_method,omitempty"`
}

// ReasoningStep is a sub-goal within a case. Step 0 is the reasoning-framing
// step; steps 1..N decompose the solution. Criteria is joined in from the
// case's criteria set at load time and may be empty when the join has no
// entry for the step.
type ReasoningStep struct {
	ID           int           `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Criteria     string        `json:"criteria,omitempty"`
	SkillsToTest []SkillToTest `json:"skills_to_test"`
}

// Case is an immutable case-study template authored during position data
// preparation. ReasoningSteps are ordered by step ID.
type Case struct {
	ID             string          `json:"question_id"`
	Title          string          `json:"question_title"`
	Text           string          `json:"question_text"`
	ReasoningSteps []ReasoningStep `json:"reasoning_steps"`
}

// StepCriteria is one accomplishment criterion keyed by step ID.
type StepCriteria struct {
	StepID   int    `json:"step_id"`
	Criteria string `json:"criteria"`
}

// CriteriaSet holds the accomplishment criteria for one case, keyed by the
// case's question ID.
type CriteriaSet struct {
	QuestionID             string         `json:"question_id"`
	AccomplishmentCriteria []StepCriteria `json:"accomplishment_criteria"`
}

// JoinSteps assembles the step map for an interview by joining the case's
// reasoning steps with their accomplishment criteria. The result is a fresh
// map; neither input is mutated. Criteria entries referencing step IDs that
// do not exist in the case are dropped, and steps without a criteria entry
// keep an empty Criteria (evaluation falls back to a default string).
func JoinSteps(c *Case, criteria *CriteriaSet) map[int]ReasoningStep {
	steps := make(map[int]ReasoningStep, len(c.ReasoningSteps))
	for _, step := range c.ReasoningSteps {
		steps[step.ID] = step
	}
	if criteria == nil {
		return steps
	}
	for _, sc := range criteria.AccomplishmentCriteria {
		step, ok := steps[sc.StepID]
		if !ok {
			continue
		}
		step.Criteria = sc.Criteria
		steps[sc.StepID] = step
	}
	return steps
}
