// Package interview implements the conversation state machine that drives a
// bounded, step-structured case interview: it classifies candidate input,
// judges step completion, selects the next reasoning step and produces the
// interviewer's utterances through the LLM gateway.
package interview

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/types"
)

// Default budgets for one interview.
const (
	DefaultMaxAttempts  = 5
	DefaultMaxQuestions = 10
)

// framingStepID is the preamble step consumed at start and never evaluated.
const framingStepID = 0

// Interviewer owns the mutable state of one interview session. It is not
// safe for concurrent use: a session must be driven by one caller at a time.
type Interviewer struct {
	client llm.Client

	steps     map[int]types.ReasoningStep
	caseID    string
	caseTitle string
	caseText  string

	maxAttempts  int
	maxQuestions int

	started        bool
	finished       bool
	currentStepID  int
	completed      map[int]bool
	attempts       int
	questionsAsked int
	history        types.Conversation
}

// Option configures an Interviewer.
type Option func(*Interviewer)

// WithMaxAttempts sets the per-step attempt budget.
func WithMaxAttempts(n int) Option {
	return func(iv *Interviewer) {
		if n > 0 {
			iv.maxAttempts = n
		}
	}
}

// WithMaxQuestions sets the interview-wide clarifying-question budget.
func WithMaxQuestions(n int) Option {
	return func(iv *Interviewer) {
		if n >= 0 {
			iv.maxQuestions = n
		}
	}
}

// New builds an Interviewer for the given case. Step criteria are joined in
// once here; the step map is immutable afterwards.
func New(client llm.Client, c *types.Case, criteria *types.CriteriaSet, opts ...Option) *Interviewer {
	iv := &Interviewer{
		client:        client,
		steps:         types.JoinSteps(c, criteria),
		caseID:        c.ID,
		caseTitle:     c.Title,
		caseText:      c.Text,
		maxAttempts:   DefaultMaxAttempts,
		maxQuestions:  DefaultMaxQuestions,
		currentStepID: framingStepID,
		completed:     make(map[int]bool),
	}
	for _, opt := range opts {
		opt(iv)
	}
	return iv
}

// CaseID returns the ID of the case bound to this interview.
func (iv *Interviewer) CaseID() string { return iv.caseID }

// Finished reports whether the interview has terminated.
func (iv *Interviewer) Finished() bool { return iv.finished }

// History returns a copy of the transcript.
func (iv *Interviewer) History() types.Conversation { return iv.history.Clone() }

// State is a read-only snapshot of the interview.
type State struct {
	Finished           bool
	RemainingQuestions int
	HistoryLen         int
	Conversation       types.Conversation
}

// State returns a snapshot of the interview. No side effects.
func (iv *Interviewer) State() State {
	return State{
		Finished:           iv.finished,
		RemainingQuestions: iv.maxQuestions - iv.questionsAsked,
		HistoryLen:         len(iv.history),
		Conversation:       iv.history.Clone(),
	}
}

// Start opens the interview: it produces the opening message grounded in
// the case narrative and the framing step, then hands control to the first
// LLM-selected reasoning step. Callers guard against duplicate starts.
func (iv *Interviewer) Start(ctx context.Context) (string, error) {
	framing, ok := iv.steps[framingStepID]
	if !ok {
		return "", fmt.Errorf("case %s has no framing step", iv.caseID)
	}

	iv.currentStepID = framingStepID
	opening, err := iv.client.GenerateContent(ctx, llm.Request{
		Prompt:      iv.openingPrompt(framing),
		System:      systemPrompt(),
		Tier:        llm.TierFull,
		Temperature: llm.Temp(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate opening message: %w", err)
	}

	iv.history = append(iv.history, types.Turn{Role: types.RoleAssistant, Content: opening})
	iv.started = true

	// The framing step is consumed by the opening itself; evaluation starts
	// from the first selected solution step.
	iv.completed[framingStepID] = true
	next, ok := iv.selectNextStep(ctx)
	if !ok {
		iv.finished = true
		return opening, nil
	}
	iv.currentStepID = next
	iv.attempts = 0
	return opening, nil
}

// ProcessResponse is the core transition function for one candidate turn.
// It never returns an error: judgment-call failures degrade to documented
// deterministic defaults, and voice-call failures degrade to fixed fallback
// text without consuming question or attempt budget.
func (iv *Interviewer) ProcessResponse(ctx context.Context, input string) string {
	if iv.finished {
		// No state mutation and no LLM call past completion.
		return TerminationMessage
	}

	iv.history = append(iv.history, types.Turn{Role: types.RoleUser, Content: input})

	var reply string
	isQuestion, err := iv.classifyInput(ctx, input)
	switch {
	case err != nil:
		reply = UnavailableMessage
	case isQuestion:
		reply = iv.handleQuestion(ctx, input)
	default:
		reply = iv.handleAttempt(ctx)
	}

	iv.history = append(iv.history, types.Turn{Role: types.RoleAssistant, Content: reply})
	return reply
}

// handleQuestion answers a clarifying question within the global budget.
func (iv *Interviewer) handleQuestion(ctx context.Context, question string) string {
	if iv.questionsAsked >= iv.maxQuestions {
		return QuestionBudgetMessage
	}

	answer, err := iv.answerQuestion(ctx, question)
	if err != nil {
		// The question did not consume budget.
		return UnavailableMessage
	}
	iv.questionsAsked++
	remaining := iv.maxQuestions - iv.questionsAsked
	return fmt.Sprintf("%s\n\n*(You have %d questions remaining.)*", answer, remaining)
}

// handleAttempt evaluates a substantive attempt against the current step.
func (iv *Interviewer) handleAttempt(ctx context.Context) string {
	iv.attempts++
	accomplished, err := iv.evaluateStep(ctx)
	if err != nil {
		// Transport failure must not corrupt the attempt budget.
		iv.attempts--
		return UnavailableMessage
	}

	switch {
	case accomplished:
		iv.completed[iv.currentStepID] = true
		return iv.transition(ctx, true)
	case iv.attempts >= iv.maxAttempts:
		// Escape valve: a stuck candidate never loops forever on one step.
		iv.completed[iv.currentStepID] = true
		return iv.transition(ctx, false)
	default:
		return iv.guidance(ctx)
	}
}

// transition moves to the next available step, or terminates the interview
// when none remain. The success flag only changes the framing of the reply.
func (iv *Interviewer) transition(ctx context.Context, success bool) string {
	next, ok := iv.selectNextStep(ctx)
	if !ok {
		iv.finished = true
		if success {
			return SuccessfulFinishMessage
		}
		return ForcedFinishMessage
	}

	current := iv.steps[iv.currentStepID]
	nextStep := iv.steps[next]
	iv.currentStepID = next
	iv.attempts = 0

	reply, err := iv.transitionMessage(ctx, current, nextStep, success)
	if err != nil {
		// The transition already happened; fall back to plain wording.
		return fmt.Sprintf("Thank you. Let's move on to the next part of the case: %s. %s",
			nextStep.Title, nextStep.Description)
	}
	return reply
}

// availableSteps returns the not-yet-completed step IDs in ascending order.
func (iv *Interviewer) availableSteps() []int {
	ids := make([]int, 0, len(iv.steps))
	for id := range iv.steps {
		if !iv.completed[id] {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// stepSkills renders the comma-separated skill names of a step.
func stepSkills(step types.ReasoningStep) string {
	names := make([]string, 0, len(step.SkillsToTest))
	for _, s := range step.SkillsToTest {
		if s.SkillName != "" {
			names = append(names, s.SkillName)
		}
	}
	if len(names) == 0 {
		return "N/A"
	}
	return strings.Join(names, ", ")
}

// stepCriteria returns the step's criteria or the documented default when
// the criteria join was unresolved.
func stepCriteria(step types.ReasoningStep) string {
	if step.Criteria == "" {
		return defaultCriteria
	}
	return step.Criteria
}

// formatHistory renders transcript turns as "role: content" lines.
func formatHistory(turns types.Conversation) string {
	lines := make([]string, len(turns))
	for i, turn := range turns {
		lines[i] = fmt.Sprintf("%s: %s", turn.Role, turn.Content)
	}
	return strings.Join(lines, "\n")
}

// recentHistory returns the last n turns of the transcript. Only judgment
// calls use the bounded window; the persisted history is never truncated.
func (iv *Interviewer) recentHistory(n int) types.Conversation {
	if len(iv.history) <= n {
		return iv.history
	}
	return iv.history[len(iv.history)-n:]
}
