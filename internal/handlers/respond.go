package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/generation"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/grading"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/repository"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *services.ValidationError
		conflictErr   *services.ConflictError
		notFoundErr   *services.NotFoundError
		incompleteErr *grading.IncompleteError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", validationErr.Fields, r))
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", conflictErr.Message, r))
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", notFoundErr.Message, r))
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("SESSION_NOT_FOUND", "Session has expired or does not exist", r))
	case errors.As(err, &incompleteErr):
		writeJSON(w, http.StatusBadRequest, errorResp("INCOMPLETE_QUIZ", incompleteErr.Error(), r))
	case errors.Is(err, grading.ErrAlreadySubmitted):
		writeJSON(w, http.StatusConflict, errorResp("ALREADY_SUBMITTED", "Quiz already submitted. Retake it to answer again.", r))
	case errors.Is(err, grading.ErrUnknownQuestion):
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", map[string]string{"question_id": err.Error()}, r))
	case errors.Is(err, generation.ErrTranscriptTooShort):
		writeJSON(w, http.StatusBadRequest, errorResp("TRANSCRIPT_TOO_SHORT", err.Error(), r))
	case errors.Is(err, generation.ErrNoCredentials):
		writeJSON(w, http.StatusServiceUnavailable, errorResp("NOT_CONFIGURED", err.Error(), r))
	case errors.Is(err, generation.ErrAllExhausted):
		writeJSON(w, http.StatusServiceUnavailable, errorResp("GENERATION_EXHAUSTED", err.Error(), r))
	default:
		log.Printf("request %s failed: %v", r.Header.Get("X-Request-ID"), err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
