// Package grading scores quiz answers.
package grading

import (
	"strings"

	"github.com/samber/lo"
)

var stopWords = []string{
	"the", "a", "an", "is", "are", "was", "were",
	"in", "on", "at", "to", "for", "of", "and", "or",
}

// Evaluate reports whether userAnswer is acceptable for correctAnswer.
// Multiple-choice answers must match exactly, ignoring case and outer
// whitespace. Any other question type is graded by keyword overlap: at
// least half of the expected keywords must appear in the answer. That
// check is approximate and easily fooled; it is meant for self-study.
func Evaluate(userAnswer, correctAnswer, questionType string) bool {
	if strings.TrimSpace(userAnswer) == "" {
		return false
	}

	if questionType == "mcq" {
		return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(correctAnswer))
	}

	expected := keywords(correctAnswer)
	if len(expected) == 0 {
		return false
	}
	overlap := lo.Intersect(keywords(userAnswer), expected)
	return float64(len(overlap))/float64(len(expected)) >= 0.5
}

func keywords(s string) []string {
	words := lo.Uniq(strings.Fields(strings.ToLower(s)))
	return lo.Without(words, stopWords...)
}
