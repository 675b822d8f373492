package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/generation"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/middleware"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/services"
)

const defaultQuestionCount = 5

// transcriptChecker is the cheap pre-flight of a generation pipeline.
type transcriptChecker interface {
	Check(transcript string) error
}

type GenerateHandler struct {
	sessions sessionRepository
	jobs     jobRepository
	notes    transcriptChecker
	quiz     transcriptChecker
}

func NewGenerateHandler(sessions sessionRepository, jobs jobRepository, notes, quiz transcriptChecker) *GenerateHandler {
	return &GenerateHandler{sessions: sessions, jobs: jobs, notes: notes, quiz: quiz}
}

// precheck fails fast on what the worker would fail on anyway. A transcript
// that is still being extracted is left to the worker.
func (h *GenerateHandler) precheck(w http.ResponseWriter, r *http.Request, checker transcriptChecker) (*models.StudySession, bool) {
	session, err := h.sessions.GetByID(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return nil, false
	}

	if session.Transcript == "" {
		if session.Status == models.SessionStatusFailed {
			msg := "Transcript is not available for this video. Upload a transcript file instead."
			if session.ErrorMessage != nil {
				msg = *session.ErrorMessage
			}
			writeJSON(w, http.StatusConflict, errorResp("TRANSCRIPT_UNAVAILABLE", msg, r))
			return nil, false
		}
		return session, true
	}

	if err := checker.Check(session.Transcript); err != nil {
		handleServiceError(w, r, err)
		return nil, false
	}
	return session, true
}

func (h *GenerateHandler) GenerateNotes(w http.ResponseWriter, r *http.Request) {
	session, ok := h.precheck(w, r, h.notes)
	if !ok {
		return
	}

	job, err := enqueueJob(r.Context(), h.jobs, session.ID, models.JobTypeNotes, nil)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to queue notes generation", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": job.ID,
	})
}

func (h *GenerateHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	if req.NumQuestions == 0 {
		req.NumQuestions = defaultQuestionCount
	}
	if req.NumQuestions < generation.MinQuestions || req.NumQuestions > generation.MaxQuestions {
		fields["num_questions"] = fmt.Sprintf("must be between %d and %d", generation.MinQuestions, generation.MaxQuestions)
	}
	switch strings.ToLower(strings.TrimSpace(req.Difficulty)) {
	case "":
		req.Difficulty = string(generation.DifficultyMedium)
	case "easy", "medium", "hard":
		req.Difficulty = string(generation.ParseDifficulty(req.Difficulty))
	default:
		fields["difficulty"] = "must be Easy, Medium or Hard"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	session, ok := h.precheck(w, r, h.quiz)
	if !ok {
		return
	}

	job, err := enqueueJob(r.Context(), h.jobs, session.ID, models.JobTypeQuiz, req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to queue quiz generation", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":        job.ID,
		"num_questions": req.NumQuestions,
		"difficulty":    req.Difficulty,
	})
}

func (h *GenerateHandler) ExportNotes(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetByID(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if session.Notes == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No notes generated yet", r))
		return
	}
	writeText(w, "notes-"+session.VideoID+".txt", services.NotesText(session))
}

func (h *GenerateHandler) ExportQuiz(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetByID(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if session.Quiz == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No quiz generated yet", r))
		return
	}
	writeText(w, "quiz-"+session.VideoID+".txt", services.QuizText(session))
}

// GetJob reports a job's status. Jobs of other sessions are reported as
// missing.
func (h *GenerateHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	job, err := h.jobs.GetByID(r.Context(), jobID)
	if err != nil || job.SessionID != middleware.GetSessionID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func writeText(w http.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}
