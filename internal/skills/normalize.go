// Package skills reconciles the skill vocabularies used across a session:
// skills named by case reasoning steps and requirements named by the
// position's evaluation rubric.
package skills

import (
	"regexp"
	"strings"
)

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9\s\-_/]`)
	slugSepRun   = regexp.MustCompile(`[\s/_]+`)
	slugHyphens  = regexp.MustCompile(`-{2,}`)
	spaceRun     = regexp.MustCompile(`\s+`)
	punctuation  = regexp.MustCompile(`[,;:.]+`)
	bracketChars = regexp.MustCompile(`[()\[\]{}]`)
)

// Slug derives a stable skill identifier from a skill name. The mapping is a
// pure function of the string: lowercase, non-alphanumerics stripped,
// whitespace/underscore/slash runs collapsed to single hyphens, no double
// hyphens, no leading or trailing hyphen.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSepRun.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeName prepares a skill name or rubric requirement for matching:
// lowercase, whitespace collapsed, common punctuation and bracket characters
// stripped.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	s := spaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")
	s = punctuation.ReplaceAllString(s, "")
	s = bracketChars.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
