package types

// RequirementCriteria holds the two descriptive anchor sentences attached to
// a rubric requirement.
type RequirementCriteria struct {
	EvaluationCriteria1 string `json:"evaluation_criteria_1,omitempty"`
	EvaluationCriteria2 string `json:"evaluation_criteria_2,omitempty"`
}

// EvaluationItem is one requirement in the position's evaluation rubric.
type EvaluationItem struct {
	Requirement string              `json:"requirement"`
	Criteria    RequirementCriteria `json:"criteria"`
}

// EvaluationCriteria is the position's canonical evaluation rubric.
type EvaluationCriteria struct {
	EvaluationSchema []EvaluationItem `json:"evaluation_schema"`
}

// CaseBank is the set of authored cases for a position.
type CaseBank struct {
	Cases []Case `json:"cases"`
}

// CriteriaBank holds the per-case accomplishment criteria sets.
type CriteriaBank struct {
	CriteriaSets []CriteriaSet `json:"criteria_sets"`
}

// Position is the read-only view of a position document as the interview
// core consumes it: the case bank, the per-case criteria, and the
// evaluation rubric. Everything else in the upstream document is ignored.
type Position struct {
	ID                 string             `json:"_id"`
	SeniorityLevel     string             `json:"seniority_level,omitempty"`
	AllCases           CaseBank           `json:"all_cases"`
	AllCriteria        CriteriaBank       `json:"all_criteria"`
	EvaluationCriteria EvaluationCriteria `json:"evaluation_criteria"`
}

// CriteriaSetFor returns the criteria set for the given case ID, or nil when
// the position has none for it.
func (p *Position) CriteriaSetFor(caseID string) *CriteriaSet {
	for i := range p.AllCriteria.CriteriaSets {
		if p.AllCriteria.CriteriaSets[i].QuestionID == caseID {
			return &p.AllCriteria.CriteriaSets[i]
		}
	}
	return nil
}

// CaseByID returns the case with the given ID, or nil when absent.
func (p *Position) CaseByID(caseID string) *Case {
	for i := range p.AllCases.Cases {
		if p.AllCases.Cases[i].ID == caseID {
			return &p.AllCases.Cases[i]
		}
	}
	return nil
}
