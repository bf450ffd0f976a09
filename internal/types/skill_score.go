package types

// Relevance scores are integers on a 0-4 scale.
const (
	MinRelevanceScore = 0
	MaxRelevanceScore = 4
)

// CanonicalSkill is one entry in the deduplicated, ordered skill list a
// session is scored against. CriteriaTexts carries up to two descriptive
// anchor sentences from the rubric; unmatched skills keep empty strings.
type CanonicalSkill struct {
	SkillID       string   `json:"skill_id"`
	SkillName     string   `json:"skill_name"`
	CriteriaTexts []string `json:"criteria_texts"`
}

// SkillScore is the merged CV + interview relevance judgment for one
// canonical skill. Produced once per completed session; recomputation
// overwrites.
type SkillScore struct {
	SkillID                 string `json:"skill_id"`
	SkillName               string `json:"skill_name"`
	CVRelevanceScore        int    `json:"cv_relevance_score"`
	InterviewRelevanceScore int    `json:"interview_relevance_score"`
	NotesCV                 string `json:"notes_cv,omitempty"`
	NotesInterview          string `json:"notes_interview,omitempty"`
}

// SkillScoreCollection is the persisted skill-relevance report for a session.
type SkillScoreCollection struct {
	PositionID string       `json:"position_id"`
	Scores     []SkillScore `json:"scores"`
}

// ClampRelevance forces a score into the 0-4 scale.
func ClampRelevance(score int) int {
	if score < MinRelevanceScore {
		return MinRelevanceScore
	}
	if score > MaxRelevanceScore {
		return MaxRelevanceScore
	}
	return score
}
