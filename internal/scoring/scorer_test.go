package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	cvResponse        string
	cvErr             error
	interviewResponse string
	interviewErr      error

	cvPrompt        string
	interviewPrompt string
}

func (f *fakeLLM) GenerateJSON(_ context.Context, req llm.Request) (string, error) {
	switch {
	case strings.Contains(req.Prompt, "[CV TEXT]"):
		f.cvPrompt = req.Prompt
		return f.cvResponse, f.cvErr
	case strings.Contains(req.Prompt, "[FULL CONVERSATION]"):
		f.interviewPrompt = req.Prompt
		return f.interviewResponse, f.interviewErr
	}
	return "", fmt.Errorf("unexpected prompt")
}

func (f *fakeLLM) GenerateContent(_ context.Context, _ llm.Request) (string, error) {
	return "", fmt.Errorf("not used")
}

func (f *fakeLLM) Close() error { return nil }

type fakeSessionStore struct {
	session *types.SessionRecord
	getErr  error
	saved   map[string]any
}

func (f *fakeSessionStore) GetSession(_ context.Context, _ string) (*types.SessionRecord, error) {
	return f.session, f.getErr
}

func (f *fakeSessionStore) SaveStageOutput(_ context.Context, _ string, stage string, value any) error {
	if f.saved == nil {
		f.saved = make(map[string]any)
	}
	f.saved[stage] = value
	return nil
}

type fakePositionStore struct {
	position *types.Position
	getErr   error
}

func (f *fakePositionStore) GetPosition(_ context.Context, _ string) (*types.Position, error) {
	return f.position, f.getErr
}

func scoringPosition() *types.Position {
	return &types.Position{
		ID: "pos-9",
		AllCases: types.CaseBank{Cases: []types.Case{{
			ID:    "case-9",
			Title: "Pricing study",
			ReasoningSteps: []types.ReasoningStep{
				{ID: 1, Title: "Explore", SkillsToTest: []types.SkillToTest{{SkillName: "Data Analysis"}}},
				{ID: 2, Title: "Recommend", SkillsToTest: []types.SkillToTest{{SkillName: "Communication"}}},
			},
		}}},
		EvaluationCriteria: types.EvaluationCriteria{
			EvaluationSchema: []types.EvaluationItem{
				{Requirement: "Data analysis", Criteria: types.RequirementCriteria{EvaluationCriteria1: "Works with raw data.", EvaluationCriteria2: "Draws valid conclusions."}},
				{Requirement: "Communication", Criteria: types.RequirementCriteria{EvaluationCriteria1: "Explains clearly.", EvaluationCriteria2: "Adapts to the audience."}},
			},
		},
	}
}

func scoringSession(t *testing.T) *types.SessionRecord {
	t.Helper()
	conversation, err := json.Marshal(types.Conversation{
		{Role: types.RoleAssistant, Content: "Welcome."},
		{Role: types.RoleUser, Content: "I'd start with the data."},
	})
	require.NoError(t, err)
	return &types.SessionRecord{
		ID:         "sess-1",
		PositionID: "pos-9",
		Stages: map[string]json.RawMessage{
			types.StageUploadedCV:   json.RawMessage(`"Five years of analytics work."`),
			types.StageCaseID:       json.RawMessage(`"case-9"`),
			types.StageConversation: conversation,
		},
	}
}

func cvPayload(scores ...string) string {
	return fmt.Sprintf(`{"scores": [%s]}`, strings.Join(scores, ","))
}

func TestComputeAndSave_MergesInCanonicalOrder(t *testing.T) {
	client := &fakeLLM{
		cvResponse: cvPayload(
			`{"skill_id": "data-analysis", "skill_name": "Data Analysis", "cv_relevance_score": 3, "notes_cv": "strong"}`,
			`{"skill_id": "communication", "skill_name": "Communication", "cv_relevance_score": 2}`,
		),
		interviewResponse: cvPayloadInterview(
			`{"skill_id": "data-analysis", "skill_name": "Data Analysis", "interview_relevance_score": 4, "notes_interview": "excellent"}`,
			`{"skill_id": "communication", "skill_name": "Communication", "interview_relevance_score": 1}`,
		),
	}
	sessions := &fakeSessionStore{session: scoringSession(t)}
	scorer := NewScorer(client, sessions, &fakePositionStore{position: scoringPosition()})

	require.NoError(t, scorer.ComputeAndSave(context.Background(), "sess-1"))

	saved, ok := sessions.saved[types.StageSkillRelevance].(types.SkillScoreCollection)
	require.True(t, ok)
	assert.Equal(t, "pos-9", saved.PositionID)
	require.Len(t, saved.Scores, 2)

	assert.Equal(t, "data-analysis", saved.Scores[0].SkillID)
	assert.Equal(t, 3, saved.Scores[0].CVRelevanceScore)
	assert.Equal(t, 4, saved.Scores[0].InterviewRelevanceScore)
	assert.Equal(t, "strong", saved.Scores[0].NotesCV)
	assert.Equal(t, "excellent", saved.Scores[0].NotesInterview)

	assert.Equal(t, "communication", saved.Scores[1].SkillID)
	assert.Equal(t, 2, saved.Scores[1].CVRelevanceScore)
	assert.Equal(t, 1, saved.Scores[1].InterviewRelevanceScore)
}

func cvPayloadInterview(scores ...string) string {
	return fmt.Sprintf(`{"scores": [%s]}`, strings.Join(scores, ","))
}

func TestComputeAndSave_MissingSkillDefaultsToZero(t *testing.T) {
	client := &fakeLLM{
		cvResponse: cvPayload(
			`{"skill_id": "data-analysis", "skill_name": "Data Analysis", "cv_relevance_score": 3}`,
		),
		interviewResponse: cvPayloadInterview(
			`{"skill_id": "communication", "skill_name": "Communication", "interview_relevance_score": 2}`,
		),
	}
	sessions := &fakeSessionStore{session: scoringSession(t)}
	scorer := NewScorer(client, sessions, &fakePositionStore{position: scoringPosition()})

	require.NoError(t, scorer.ComputeAndSave(context.Background(), "sess-1"))

	saved := sessions.saved[types.StageSkillRelevance].(types.SkillScoreCollection)
	require.Len(t, saved.Scores, 2, "every canonical skill present exactly once")
	assert.Equal(t, 0, saved.Scores[1].CVRelevanceScore, "missing from cv pass")
	assert.Empty(t, saved.Scores[1].NotesCV)
	assert.Equal(t, 0, saved.Scores[0].InterviewRelevanceScore, "missing from interview pass")
}

func TestComputeAndSave_SchemaRejectionZeroesOnlyThatPass(t *testing.T) {
	client := &fakeLLM{
		// 9 is out of the 0-4 range, so the whole cv pass is rejected.
		cvResponse: cvPayload(
			`{"skill_id": "data-analysis", "skill_name": "Data Analysis", "cv_relevance_score": 9}`,
		),
		interviewResponse: cvPayloadInterview(
			`{"skill_id": "data-analysis", "skill_name": "Data Analysis", "interview_relevance_score": 3}`,
			`{"skill_id": "communication", "skill_name": "Communication", "interview_relevance_score": 2}`,
		),
	}
	sessions := &fakeSessionStore{session: scoringSession(t)}
	scorer := NewScorer(client, sessions, &fakePositionStore{position: scoringPosition()})

	require.NoError(t, scorer.ComputeAndSave(context.Background(), "sess-1"))

	saved := sessions.saved[types.StageSkillRelevance].(types.SkillScoreCollection)
	assert.Equal(t, 0, saved.Scores[0].CVRelevanceScore)
	assert.Equal(t, 3, saved.Scores[0].InterviewRelevanceScore)
	assert.Equal(t, 2, saved.Scores[1].InterviewRelevanceScore)
}

func TestComputeAndSave_TransportFailureIsIsolated(t *testing.T) {
	client := &fakeLLM{
		cvResponse: cvPayload(
			`{"skill_id": "data-analysis", "skill_name": "Data Analysis", "cv_relevance_score": 4}`,
			`{"skill_id": "communication", "skill_name": "Communication", "cv_relevance_score": 1}`,
		),
		interviewErr: errors.New("unreachable"),
	}
	sessions := &fakeSessionStore{session: scoringSession(t)}
	scorer := NewScorer(client, sessions, &fakePositionStore{position: scoringPosition()})

	require.NoError(t, scorer.ComputeAndSave(context.Background(), "sess-1"))

	saved := sessions.saved[types.StageSkillRelevance].(types.SkillScoreCollection)
	assert.Equal(t, 4, saved.Scores[0].CVRelevanceScore)
	assert.Equal(t, 0, saved.Scores[0].InterviewRelevanceScore)
}

func TestComputeAndSave_FailsClosedOnMissingSession(t *testing.T) {
	scorer := NewScorer(&fakeLLM{}, &fakeSessionStore{getErr: errors.New("not found")}, &fakePositionStore{position: scoringPosition()})
	assert.Error(t, scorer.ComputeAndSave(context.Background(), "missing"))
}

func TestComputeAndSave_FailsClosedOnMissingPosition(t *testing.T) {
	sessions := &fakeSessionStore{session: scoringSession(t)}
	scorer := NewScorer(&fakeLLM{}, sessions, &fakePositionStore{getErr: errors.New("not found")})
	assert.Error(t, scorer.ComputeAndSave(context.Background(), "sess-1"))
	assert.Empty(t, sessions.saved, "no partial state persisted")
}

func TestComputeAndSave_FailsClosedOnEmptySkillList(t *testing.T) {
	position := &types.Position{ID: "pos-empty"}
	session := scoringSession(t)
	session.PositionID = "pos-empty"
	scorer := NewScorer(&fakeLLM{}, &fakeSessionStore{session: session}, &fakePositionStore{position: position})
	assert.Error(t, scorer.ComputeAndSave(context.Background(), "sess-1"))
}

func TestComputeAndSave_CaseMapReachesInterviewPrompt(t *testing.T) {
	client := &fakeLLM{
		cvResponse:        `{"scores": []}`,
		interviewResponse: `{"scores": []}`,
	}
	sessions := &fakeSessionStore{session: scoringSession(t)}
	scorer := NewScorer(client, sessions, &fakePositionStore{position: scoringPosition()})

	require.NoError(t, scorer.ComputeAndSave(context.Background(), "sess-1"))
	assert.Contains(t, client.interviewPrompt, "[EVALUATION MAP OF THE COMPLETED CASE]")
	assert.Contains(t, client.interviewPrompt, "Step 1 (Explore)")
}

func TestComputeAndSave_Idempotent(t *testing.T) {
	client := &fakeLLM{
		cvResponse:        `{"scores": []}`,
		interviewResponse: `{"scores": []}`,
	}
	sessions := &fakeSessionStore{session: scoringSession(t)}
	scorer := NewScorer(client, sessions, &fakePositionStore{position: scoringPosition()})

	require.NoError(t, scorer.ComputeAndSave(context.Background(), "sess-1"))
	require.NoError(t, scorer.ComputeAndSave(context.Background(), "sess-1"))
	assert.Len(t, sessions.saved, 1, "recomputation overwrites the same stage")
}

func TestFormatConversation_RoleLabels(t *testing.T) {
	out := FormatConversation(types.Conversation{
		{Role: types.RoleAssistant, Content: "Hello."},
		{Role: types.RoleUser, Content: "Hi."},
	})
	assert.Contains(t, out, "[Interviewer]: Hello.")
	assert.Contains(t, out, "[Candidate]: Hi.")
}

func TestBuildCaseMap_NilCase(t *testing.T) {
	assert.Empty(t, BuildCaseMap(nil))
}

func TestBuildCaseMap_StepWithoutSkills(t *testing.T) {
	out := BuildCaseMap(&types.Case{ReasoningSteps: []types.ReasoningStep{{ID: 0, Title: "Framing"}}})
	assert.Contains(t, out, "designed to test 'N/A'")
}
