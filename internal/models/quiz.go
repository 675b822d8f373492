package models

import "time"

// QuizQuestion is one validated multiple-choice item. CorrectAnswer is
// always one of Options.
type QuizQuestion struct {
	ID            int      `json:"id"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type Quiz struct {
	Questions   []QuizQuestion `json:"questions"`
	Model       string         `json:"model"`
	Difficulty  string         `json:"difficulty"`
	GeneratedAt time.Time      `json:"generated_at"`
}

type GenerateQuizRequest struct {
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
}

type RecordAnswerRequest struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

type QuestionResult struct {
	QuestionID    int    `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

type QuizResult struct {
	Score   int              `json:"score"`
	Total   int              `json:"total"`
	Percent float64          `json:"percent"`
	Verdict string           `json:"verdict"`
	Results []QuestionResult `json:"results"`
}
