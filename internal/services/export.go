package services

import (
	"fmt"
	"strings"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
)

var optionLetters = []string{"A", "B", "C", "D", "E", "F"}

func sessionTitle(s *models.StudySession) string {
	if s.Metadata != nil && s.Metadata.Title != "" {
		return s.Metadata.Title
	}
	return "YouTube video " + s.VideoID
}

// NotesText renders the session's notes as a plain-text document.
func NotesText(s *models.StudySession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Study Notes: %s\n", sessionTitle(s))
	if s.SourceURL != "" {
		fmt.Fprintf(&b, "Source: %s\n", s.SourceURL)
	}
	if s.Notes != nil {
		fmt.Fprintf(&b, "Model: %s\n\n%s\n", s.Notes.Model, s.Notes.Markdown)
	}
	return b.String()
}

// QuizText renders the quiz. Correct answers and explanations are only
// included once the quiz has been submitted.
func QuizText(s *models.StudySession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quiz: %s\n", sessionTitle(s))
	if s.Quiz == nil {
		return b.String()
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", s.Quiz.Difficulty)
	if s.Submitted && s.Result != nil {
		fmt.Fprintf(&b, "Score: %d/%d (%.0f%%) %s\n", s.Result.Score, s.Result.Total, s.Result.Percent, s.Result.Verdict)
	}

	for _, q := range s.Quiz.Questions {
		fmt.Fprintf(&b, "\n%d. %s\n", q.ID, q.Question)
		for i, opt := range q.Options {
			letter := "-"
			if i < len(optionLetters) {
				letter = optionLetters[i]
			}
			fmt.Fprintf(&b, "   %s) %s\n", letter, opt)
		}
		if !s.Submitted {
			continue
		}
		if answer, ok := s.Answers[q.ID]; ok {
			fmt.Fprintf(&b, "   Your answer: %s\n", answer)
		}
		fmt.Fprintf(&b, "   Correct answer: %s\n", q.CorrectAnswer)
		if q.Explanation != "" {
			fmt.Fprintf(&b, "   Explanation: %s\n", q.Explanation)
		}
	}
	return b.String()
}
