package scoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/interview-agent/internal/types"
)

// FormatConversation renders a transcript with reader-friendly role labels
// for scoring prompts.
func FormatConversation(conversation types.Conversation) string {
	lines := make([]string, len(conversation))
	for i, turn := range conversation {
		role := "Interviewer"
		if turn.Role == types.RoleUser {
			role = "Candidate"
		}
		lines[i] = fmt.Sprintf("[%s]: %s", role, turn.Content)
	}
	return strings.Join(lines, "\n\n")
}

// BuildCaseMap renders which skills each reasoning step of the case was
// designed to test. The interview scoring prompt uses it to weight
// transcript segments toward the steps targeting each skill.
func BuildCaseMap(c *types.Case) string {
	if c == nil {
		return ""
	}
	lines := []string{"[EVALUATION MAP OF THE COMPLETED CASE]"}
	for _, step := range c.ReasoningSteps {
		names := make([]string, 0, len(step.SkillsToTest))
		for _, s := range step.SkillsToTest {
			if s.SkillName != "" {
				names = append(names, s.SkillName)
			}
		}
		skills := "N/A"
		if len(names) > 0 {
			skills = strings.Join(names, ", ")
		}
		lines = append(lines, fmt.Sprintf("- Step %d (%s): designed to test '%s'.", step.ID, step.Title, skills))
	}
	return strings.Join(lines, "\n")
}

// skillListJSON renders the canonical skill list as the compact JSON
// payload the scoring prompts embed.
func skillListJSON(canonical []types.CanonicalSkill) (string, error) {
	payload := struct {
		Skills []types.CanonicalSkill `json:"skills"`
	}{Skills: canonical}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal skill list: %w", err)
	}
	return string(out), nil
}
