package types

import "encoding/json"

// Stage names under which the orchestrator persists per-session outputs.
// The session store is a sparse, append-by-key document; these are the keys
// the interview core reads and writes.
const (
	StageCaseID         = "case_id"
	StageSeniorityLevel = "seniority_level"
	StageUploadedCV     = "uploaded_cv_text"
	StageConversation   = "conversation"
	StageSkillRelevance = "skill_relevance"
)

// SessionRecord is the read view of a session document. Stages holds raw
// stage outputs keyed by stage name; callers decode the stages they own.
type SessionRecord struct {
	ID         string                     `json:"session_id"`
	PositionID string                     `json:"position_id"`
	Stages     map[string]json.RawMessage `json:"stages"`
}

// CVText decodes the uploaded CV text stage, returning "" when absent.
func (s *SessionRecord) CVText() string {
	return s.stageString(StageUploadedCV)
}

// CaseID decodes the bound case ID stage, returning "" when absent.
func (s *SessionRecord) CaseID() string {
	return s.stageString(StageCaseID)
}

// ConversationTurns decodes the persisted transcript, returning nil when
// absent or malformed.
func (s *SessionRecord) ConversationTurns() Conversation {
	raw, ok := s.Stages[StageConversation]
	if !ok {
		return nil
	}
	var conv Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil
	}
	return conv
}

func (s *SessionRecord) stageString(name string) string {
	raw, ok := s.Stages[name]
	if !ok {
		return ""
	}
	var out string
	if err := json.Unmarshal(raw, &out); err != nil {
		return ""
	}
	return out
}
