package skills

import (
	"strings"

	"github.com/jonathan/interview-agent/internal/types"
)

// ExtractFromCase builds the canonical skill list from the skills actually
// tested by the selected case's reasoning steps. Each unique skill (first
// encounter wins, deduplicated by slug) is matched against the position's
// rubric requirements - exact on normalized forms first, then fuzzy - and
// inherits the requirement's two descriptive criteria sentences. Skills
// with no acceptable match are still included, with empty criteria, so
// coverage is never silently narrowed.
func ExtractFromCase(c *types.Case, pos *types.Position) []types.CanonicalSkill {
	if c == nil {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	for _, step := range c.ReasoningSteps {
		for _, st := range step.SkillsToTest {
			name := strings.TrimSpace(st.SkillName)
			if name == "" {
				continue
			}
			id := Slug(name)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}

	schema := pos.EvaluationCriteria.EvaluationSchema
	requirements := make([]string, 0, len(schema))
	for _, item := range schema {
		if req := strings.TrimSpace(item.Requirement); req != "" {
			requirements = append(requirements, req)
		}
	}

	canonical := make([]types.CanonicalSkill, 0, len(names))
	for _, name := range names {
		item := findRequirement(schema, name, requirements)
		skill := types.CanonicalSkill{
			SkillID:       Slug(name),
			SkillName:     name,
			CriteriaTexts: []string{"", ""},
		}
		if item != nil {
			skill.CriteriaTexts = []string{
				item.Criteria.EvaluationCriteria1,
				item.Criteria.EvaluationCriteria2,
			}
		}
		canonical = append(canonical, skill)
	}
	return canonical
}

// findRequirement locates the rubric item matching a skill name: exact
// match on normalized forms, then the best fuzzy match above threshold.
func findRequirement(schema []types.EvaluationItem, skillName string, requirements []string) *types.EvaluationItem {
	normalized := NormalizeName(skillName)
	for i := range schema {
		if NormalizeName(schema[i].Requirement) == normalized {
			return &schema[i]
		}
	}

	matched, ok := BestMatch(skillName, requirements, MatchThreshold)
	if !ok {
		return nil
	}
	for i := range schema {
		if strings.TrimSpace(schema[i].Requirement) == matched {
			return &schema[i]
		}
	}
	return nil
}

// ExtractFromRubric builds the canonical skill list from the position's
// full evaluation rubric, unfiltered. Used as the fallback when
// case-driven extraction yields nothing.
func ExtractFromRubric(pos *types.Position) []types.CanonicalSkill {
	schema := pos.EvaluationCriteria.EvaluationSchema
	canonical := make([]types.CanonicalSkill, 0, len(schema))
	seen := make(map[string]bool)
	for _, item := range schema {
		req := strings.TrimSpace(item.Requirement)
		if req == "" {
			continue
		}
		id := Slug(req)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		canonical = append(canonical, types.CanonicalSkill{
			SkillID:   id,
			SkillName: req,
			CriteriaTexts: []string{
				item.Criteria.EvaluationCriteria1,
				item.Criteria.EvaluationCriteria2,
			},
		})
	}
	return canonical
}

// CanonicalSkills derives the skill list a session is scored against:
// case-tested skills when the selected case is known and parseable, the
// full rubric otherwise. The result is non-empty whenever the rubric is.
func CanonicalSkills(c *types.Case, pos *types.Position) []types.CanonicalSkill {
	if c != nil {
		if canonical := ExtractFromCase(c, pos); len(canonical) > 0 {
			return canonical
		}
	}
	return ExtractFromRubric(pos)
}
