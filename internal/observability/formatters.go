// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxTurnsToShow is the default number of transcript turns to display
	maxTurnsToShow = 6
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCase outputs a human-readable summary of the case under interview.
func (p *Printer) PrintCase(c *types.Case) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Case:  %s\n", c.Title))
	sb.WriteString(fmt.Sprintf("Steps: %d\n", len(c.ReasoningSteps)))
	sb.WriteString("\n")

	for _, step := range c.ReasoningSteps {
		skills := make([]string, 0, len(step.SkillsToTest))
		for _, s := range step.SkillsToTest {
			skills = append(skills, s.SkillName)
		}
		label := "-"
		if len(skills) > 0 {
			label = strings.Join(skills, ", ")
		}
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", step.ID, step.Title, label))
	}

	p.printBox("CASE", strings.TrimRight(sb.String(), "\n"))
}

// PrintTranscript outputs the tail of an interview transcript.
func (p *Printer) PrintTranscript(conv types.Conversation) {
	if len(conv) == 0 {
		return
	}

	shown := conv
	var sb strings.Builder
	if len(shown) > maxTurnsToShow {
		sb.WriteString(fmt.Sprintf("... %d earlier turns omitted\n", len(conv)-maxTurnsToShow))
		shown = shown[len(shown)-maxTurnsToShow:]
	}
	for _, turn := range shown {
		label := "Candidate"
		if turn.Role == types.RoleAssistant {
			label = "Interviewer"
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", label, turn.Content))
	}

	p.printBox(fmt.Sprintf("TRANSCRIPT (%d turns)", len(conv)), strings.TrimRight(sb.String(), "\n"))
}

// PrintSkillScores outputs a skill relevance summary.
func (p *Printer) PrintSkillScores(collection *types.SkillScoreCollection) {
	if collection == nil || len(collection.Scores) == 0 {
		return
	}

	var sb strings.Builder
	for _, score := range collection.Scores {
		sb.WriteString(fmt.Sprintf("%-28s cv=%d/4 interview=%d/4\n",
			score.SkillName, score.CVRelevanceScore, score.InterviewRelevanceScore))
	}

	p.printBox(fmt.Sprintf("SKILL RELEVANCE (%s)", collection.PositionID), strings.TrimRight(sb.String(), "\n"))
}
