package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/grading"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/middleware"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
)

var errNoQuiz = errors.New("no quiz generated yet")

type QuizHandler struct {
	sessions sessionRepository
}

func NewQuizHandler(sessions sessionRepository) *QuizHandler {
	return &QuizHandler{sessions: sessions}
}

func answerSet(s *models.StudySession) *grading.AnswerSet {
	set := &grading.AnswerSet{Answers: s.Answers, Submitted: s.Submitted}
	if set.Answers == nil {
		set.Answers = make(map[int]string)
	}
	return set
}

func (h *QuizHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errNoQuiz) {
		writeJSON(w, http.StatusConflict, errorResp("NO_QUIZ", "Generate a quiz first", r))
		return
	}
	handleServiceError(w, r, err)
}

// RecordAnswer stores one answer. Answers can be changed freely until the
// quiz is submitted.
func (h *QuizHandler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.RecordAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	var answered, total int
	_, err := h.sessions.Update(r.Context(), middleware.GetSessionID(r.Context()), func(s *models.StudySession) error {
		if s.Quiz == nil {
			return errNoQuiz
		}
		set := answerSet(s)
		if err := set.Record(s.Quiz.Questions, req.QuestionID, req.Answer); err != nil {
			return err
		}
		s.Answers = set.Answers
		answered, total = set.Answered(s.Quiz.Questions), len(s.Quiz.Questions)
		return nil
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"answered": answered,
		"total":    total,
	})
}

func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var result *models.QuizResult
	_, err := h.sessions.Update(r.Context(), middleware.GetSessionID(r.Context()), func(s *models.StudySession) error {
		if s.Quiz == nil {
			return errNoQuiz
		}
		set := answerSet(s)
		res, err := set.Submit(s.Quiz.Questions)
		if err != nil {
			return err
		}
		s.Submitted = set.Submitted
		s.Result = res
		result = res
		return nil
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Retake clears the answers and the result but keeps the questions.
func (h *QuizHandler) Retake(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Update(r.Context(), middleware.GetSessionID(r.Context()), func(s *models.StudySession) error {
		if s.Quiz == nil {
			return errNoQuiz
		}
		set := answerSet(s)
		set.Reset()
		s.Answers = set.Answers
		s.Submitted = set.Submitted
		s.Result = nil
		return nil
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionView(session))
}
