// Package scoring produces the per-session skill relevance report: two
// independent, schema-validated LLM scoring passes (CV evidence and
// interview evidence) merged deterministically over the canonical skill
// list.
package scoring

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/prompts"
	"github.com/jonathan/interview-agent/internal/schemas"
	"github.com/jonathan/interview-agent/internal/skills"
	"github.com/jonathan/interview-agent/internal/types"
)

//go:embed cv_scores.schema.json
var cvScoresSchema []byte

//go:embed interview_scores.schema.json
var interviewScoresSchema []byte

// SessionStore is the slice of the session store the scorer consumes.
type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (*types.SessionRecord, error)
	SaveStageOutput(ctx context.Context, sessionID, stage string, value any) error
}

// PositionStore reads position documents.
type PositionStore interface {
	GetPosition(ctx context.Context, positionID string) (*types.Position, error)
}

// Scorer computes and persists skill relevance for completed sessions.
type Scorer struct {
	client    llm.Client
	sessions  SessionStore
	positions PositionStore
}

// NewScorer creates a Scorer.
func NewScorer(client llm.Client, sessions SessionStore, positions PositionStore) *Scorer {
	return &Scorer{client: client, sessions: sessions, positions: positions}
}

// passResult is one side's judgment for a single skill.
type passResult struct {
	Score int
	Notes string
}

// ComputeAndSave derives the canonical skill list for the session, runs the
// CV and interview scoring passes, merges them in canonical order and
// persists the result under the skill_relevance stage. Recomputation
// overwrites, so the operation is idempotent. It fails closed when the
// session, the position or a non-empty skill list cannot be resolved; a
// failure of either scoring pass only zeroes that side.
func (s *Scorer) ComputeAndSave(ctx context.Context, sessionID string) error {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	position, err := s.positions.GetPosition(ctx, session.PositionID)
	if err != nil {
		return fmt.Errorf("failed to load position %s: %w", session.PositionID, err)
	}

	selectedCase := position.CaseByID(session.CaseID())
	canonical := skills.CanonicalSkills(selectedCase, position)
	if len(canonical) == 0 {
		return fmt.Errorf("position %s has no canonical skills to score", position.ID)
	}

	skillList, err := skillListJSON(canonical)
	if err != nil {
		return err
	}

	cvText := session.CVText()
	conversation := session.ConversationTurns()
	caseMap := BuildCaseMap(selectedCase)

	// The two passes are independent failure domains; run them
	// concurrently and let each degrade to an empty map on its own.
	var cvScores, interviewScores map[string]passResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cvScores = s.scoreCVRelevance(gctx, skillList, cvText)
		return nil
	})
	g.Go(func() error {
		interviewScores = s.scoreInterviewRelevance(gctx, skillList, conversation, caseMap)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	merged := mergeScores(canonical, cvScores, interviewScores)
	collection := types.SkillScoreCollection{PositionID: position.ID, Scores: merged}
	if err := s.sessions.SaveStageOutput(ctx, sessionID, types.StageSkillRelevance, collection); err != nil {
		return fmt.Errorf("failed to persist skill relevance for session %s: %w", sessionID, err)
	}
	return nil
}

// mergeScores assembles exactly one SkillScore per canonical skill, in
// canonical order. A skill missing from either pass defaults to score 0
// and empty notes rather than being omitted.
func mergeScores(canonical []types.CanonicalSkill, cv, interview map[string]passResult) []types.SkillScore {
	merged := make([]types.SkillScore, 0, len(canonical))
	for _, skill := range canonical {
		cvSide := cv[skill.SkillID]
		intSide := interview[skill.SkillID]
		merged = append(merged, types.SkillScore{
			SkillID:                 skill.SkillID,
			SkillName:               skill.SkillName,
			CVRelevanceScore:        types.ClampRelevance(cvSide.Score),
			InterviewRelevanceScore: types.ClampRelevance(intSide.Score),
			NotesCV:                 cvSide.Notes,
			NotesInterview:          intSide.Notes,
		})
	}
	return merged
}

type cvScoreItem struct {
	SkillID          string `json:"skill_id"`
	SkillName        string `json:"skill_name"`
	CVRelevanceScore int    `json:"cv_relevance_score"`
	NotesCV          string `json:"notes_cv,omitempty"`
}

type cvScoreCollection struct {
	Scores []cvScoreItem `json:"scores"`
}

// scoreCVRelevance runs the CV scoring pass. Any transport, schema or
// parse failure degrades to an empty map for this pass only.
func (s *Scorer) scoreCVRelevance(ctx context.Context, skillList, cvText string) map[string]passResult {
	if cvText == "" {
		return map[string]passResult{}
	}

	prompt := prompts.Format(prompts.MustGet("scoring.json", "score-cv"), map[string]string{
		"SkillList": skillList,
		"CVText":    cvText,
	})
	payload, err := s.client.GenerateJSON(ctx, llm.Request{
		Prompt:      prompt,
		System:      prompts.MustGet("scoring.json", "cv-system"),
		Tier:        llm.TierLite,
		Temperature: llm.Temp(0),
		MaxTokens:   llm.Tokens(1800),
	})
	if err != nil {
		log.Printf("skill scorer: cv pass failed: %v", err)
		return map[string]passResult{}
	}

	if err := schemas.ValidateBytes(cvScoresSchema, []byte(payload)); err != nil {
		log.Printf("skill scorer: cv payload rejected: %v", err)
		return map[string]passResult{}
	}

	var collection cvScoreCollection
	if err := json.Unmarshal([]byte(payload), &collection); err != nil {
		log.Printf("skill scorer: cv payload unparseable: %v", err)
		return map[string]passResult{}
	}

	out := make(map[string]passResult, len(collection.Scores))
	for _, item := range collection.Scores {
		out[item.SkillID] = passResult{Score: item.CVRelevanceScore, Notes: item.NotesCV}
	}
	return out
}

type interviewScoreItem struct {
	SkillID                 string `json:"skill_id"`
	SkillName               string `json:"skill_name"`
	InterviewRelevanceScore int    `json:"interview_relevance_score"`
	NotesInterview          string `json:"notes_interview,omitempty"`
}

type interviewScoreCollection struct {
	Scores []interviewScoreItem `json:"scores"`
}

// scoreInterviewRelevance runs the interview scoring pass against the full
// transcript, with the case map steering emphasis toward the steps that
// targeted each skill. Failures degrade to an empty map for this pass.
func (s *Scorer) scoreInterviewRelevance(ctx context.Context, skillList string, conversation types.Conversation, caseMap string) map[string]passResult {
	if len(conversation) == 0 {
		return map[string]passResult{}
	}

	prompt := prompts.Format(prompts.MustGet("scoring.json", "score-interview"), map[string]string{
		"SkillList":    skillList,
		"CaseMap":      caseMap,
		"Conversation": FormatConversation(conversation),
	})
	payload, err := s.client.GenerateJSON(ctx, llm.Request{
		Prompt:      prompt,
		System:      prompts.MustGet("scoring.json", "interview-system"),
		Tier:        llm.TierLite,
		Temperature: llm.Temp(0),
		MaxTokens:   llm.Tokens(2200),
	})
	if err != nil {
		log.Printf("skill scorer: interview pass failed: %v", err)
		return map[string]passResult{}
	}

	if err := schemas.ValidateBytes(interviewScoresSchema, []byte(payload)); err != nil {
		log.Printf("skill scorer: interview payload rejected: %v", err)
		return map[string]passResult{}
	}

	var collection interviewScoreCollection
	if err := json.Unmarshal([]byte(payload), &collection); err != nil {
		log.Printf("skill scorer: interview payload unparseable: %v", err)
		return map[string]passResult{}
	}

	out := make(map[string]passResult, len(collection.Scores))
	for _, item := range collection.Scores {
		out[item.SkillID] = passResult{Score: item.InterviewRelevanceScore, Notes: item.NotesInterview}
	}
	return out
}
