package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/jonathan/interview-agent/internal/interview"
	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/types"
)

// ErrNoActiveInterview is returned when a turn arrives for a session whose
// interview has not been started or has already been evicted.
var ErrNoActiveInterview = errors.New("no active interview for session")

// SessionStore provides the per-session stage document.
type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (*types.SessionRecord, error)
	SaveStageOutput(ctx context.Context, sessionID, stage string, value any) error
}

// PositionStore resolves position definitions.
type PositionStore interface {
	GetPosition(ctx context.Context, positionID string) (*types.Position, error)
}

// Service sequences a session through its interview: case selection, live
// turns with transcript persistence, and enqueueing background scoring once
// the case ends.
type Service struct {
	client    llm.Client
	sessions  SessionStore
	positions PositionStore
	registry  *Registry
	queue     *EvalQueue

	maxAttempts  int
	maxQuestions int

	// pickCase selects an index in [0, n); replaceable in tests.
	pickCase func(n int) int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithAttemptBudget overrides the per-step attempt budget for new interviews.
func WithAttemptBudget(n int) ServiceOption {
	return func(s *Service) { s.maxAttempts = n }
}

// WithQuestionBudget overrides the per-interview question budget.
func WithQuestionBudget(n int) ServiceOption {
	return func(s *Service) { s.maxQuestions = n }
}

// WithCasePicker overrides the random case selector.
func WithCasePicker(pick func(n int) int) ServiceOption {
	return func(s *Service) { s.pickCase = pick }
}

// NewService wires a session service over the given stores, registry and
// scoring queue.
func NewService(client llm.Client, sessions SessionStore, positions PositionStore, registry *Registry, queue *EvalQueue, opts ...ServiceOption) *Service {
	s := &Service{
		client:    client,
		sessions:  sessions,
		positions: positions,
		registry:  registry,
		queue:     queue,
		pickCase:  rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartInterview binds the session to a case, creates its interview state
// machine and returns the opening message. A case already bound to the
// session (for example by a previous start) is reused; otherwise one is
// drawn at random from the position's case bank. Starting twice replaces
// the live instance and begins a fresh conversation. It returns the opening
// message together with the bound case ID.
func (s *Service) StartInterview(ctx context.Context, sessionID string) (opening, caseID string, err error) {
	record, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	position, err := s.positions.GetPosition(ctx, record.PositionID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load position %s: %w", record.PositionID, err)
	}

	selectedCase, err := s.bindCase(ctx, record, position)
	if err != nil {
		return "", "", err
	}

	iv := interview.New(s.client, selectedCase, position.CriteriaSetFor(selectedCase.ID), s.interviewOptions()...)
	opening, err = iv.Start(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to start interview for session %s: %w", sessionID, err)
	}
	s.registry.Put(sessionID, iv)

	if err := s.sessions.SaveStageOutput(ctx, sessionID, types.StageConversation, iv.History()); err != nil {
		return "", "", fmt.Errorf("failed to persist opening turn for session %s: %w", sessionID, err)
	}
	return opening, selectedCase.ID, nil
}

// SendMessage routes one candidate turn through the session's live
// interview, persists the updated transcript and, when this turn ends the
// case, hands the session to the scoring queue. The reply is always
// produced; persistence failures surface as errors because a lost turn
// would desynchronize the durable transcript from the live machine.
func (s *Service) SendMessage(ctx context.Context, sessionID, text string) (reply string, finished bool, err error) {
	iv, ok := s.registry.Get(sessionID)
	if !ok {
		return "", false, fmt.Errorf("session %s: %w", sessionID, ErrNoActiveInterview)
	}

	reply = iv.ProcessResponse(ctx, text)
	finished = iv.Finished()

	if err := s.sessions.SaveStageOutput(ctx, sessionID, types.StageConversation, iv.History()); err != nil {
		return "", false, fmt.Errorf("failed to persist transcript for session %s: %w", sessionID, err)
	}
	if finished && s.queue != nil {
		s.queue.Enqueue(sessionID)
	}
	return reply, finished, nil
}

// GetState reports the session's interview state. For a live session it is
// a snapshot of the state machine; for a session already evicted after
// scoring it is a terminal view rebuilt from the persisted transcript.
func (s *Service) GetState(ctx context.Context, sessionID string) (interview.State, error) {
	if iv, ok := s.registry.Get(sessionID); ok {
		return iv.State(), nil
	}

	record, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return interview.State{}, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	conv := record.ConversationTurns()
	if len(conv) == 0 {
		return interview.State{}, fmt.Errorf("session %s: %w", sessionID, ErrNoActiveInterview)
	}
	return interview.State{
		Finished:     true,
		HistoryLen:   len(conv),
		Conversation: conv,
	}, nil
}

// bindCase resolves the case for the session, drawing one at random when
// the session has none yet, and persists the choice together with the
// position's seniority level.
func (s *Service) bindCase(ctx context.Context, record *types.SessionRecord, position *types.Position) (*types.Case, error) {
	if caseID := record.CaseID(); caseID != "" {
		if c := position.CaseByID(caseID); c != nil {
			return c, nil
		}
		return nil, fmt.Errorf("session %s references unknown case %s", record.ID, caseID)
	}

	cases := position.AllCases.Cases
	if len(cases) == 0 {
		return nil, fmt.Errorf("position %s has no cases", position.ID)
	}
	selected := &cases[s.pickCase(len(cases))]

	if err := s.sessions.SaveStageOutput(ctx, record.ID, types.StageCaseID, selected.ID); err != nil {
		return nil, fmt.Errorf("failed to bind case for session %s: %w", record.ID, err)
	}
	if err := s.sessions.SaveStageOutput(ctx, record.ID, types.StageSeniorityLevel, position.SeniorityLevel); err != nil {
		return nil, fmt.Errorf("failed to record seniority level for session %s: %w", record.ID, err)
	}
	return selected, nil
}

func (s *Service) interviewOptions() []interview.Option {
	var opts []interview.Option
	if s.maxAttempts > 0 {
		opts = append(opts, interview.WithMaxAttempts(s.maxAttempts))
	}
	if s.maxQuestions > 0 {
		opts = append(opts, interview.WithMaxQuestions(s.maxQuestions))
	}
	return opts
}
