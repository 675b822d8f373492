package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/middleware"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/services"
)

type sessionRepository interface {
	Create(ctx context.Context, s *models.StudySession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error)
	Update(ctx context.Context, id uuid.UUID, fn func(s *models.StudySession) error) (*models.StudySession, error)
}

type jobRepository interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Enqueue(ctx context.Context, j *models.Job) error
}

type tokenIssuer interface {
	IssueToken(sessionID uuid.UUID) (string, error)
}

type textExtractor interface {
	ExtractText(name string, data []byte) (string, error)
}

// enqueueJob records a job for the session and hands it to the worker pool.
func enqueueJob(ctx context.Context, jobs jobRepository, sessionID uuid.UUID, jobType string, config interface{}) (*models.Job, error) {
	job := &models.Job{
		SessionID: sessionID,
		Type:      jobType,
	}
	if config != nil {
		configBytes, err := json.Marshal(config)
		if err != nil {
			return nil, err
		}
		job.ConfigJSON = configBytes
	}

	if err := jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	if err := jobs.Enqueue(ctx, job); err != nil {
		log.Printf("failed to enqueue %s job %s: %v", jobType, job.ID, err)
		_ = jobs.UpdateStatus(ctx, job.ID, models.JobStatusFailed)
		return nil, err
	}
	return job, nil
}

// sessionView hides the answer key until the quiz is submitted.
func sessionView(s *models.StudySession) *models.StudySession {
	if s.Quiz == nil || s.Submitted {
		return s
	}
	view := *s
	quiz := *s.Quiz
	quiz.Questions = make([]models.QuizQuestion, len(s.Quiz.Questions))
	for i, q := range s.Quiz.Questions {
		q.CorrectAnswer = ""
		q.Explanation = ""
		quiz.Questions[i] = q
	}
	view.Quiz = &quiz
	return &view
}

type SessionHandler struct {
	sessions  sessionRepository
	jobs      jobRepository
	tokens    tokenIssuer
	extractor textExtractor
	maxUpload int64
}

func NewSessionHandler(sessions sessionRepository, jobs jobRepository, tokens tokenIssuer, extractor textExtractor, maxUpload int64) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		jobs:      jobs,
		tokens:    tokens,
		extractor: extractor,
		maxUpload: maxUpload,
	}
}

// Create starts a study session for a YouTube URL and queues transcript
// extraction. The returned token authorizes every later call.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	videoID, err := services.ValidateYouTubeURL(req.URL)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	session := &models.StudySession{
		SourceURL: req.URL,
		VideoID:   videoID,
		Status:    models.SessionStatusPending,
	}
	if err := h.sessions.Create(r.Context(), session); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create session", r))
		return
	}

	job, err := enqueueJob(r.Context(), h.jobs, session.ID, models.JobTypeTranscript, nil)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to queue transcript extraction", r))
		return
	}

	token, err := h.tokens.IssueToken(session.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to issue session token", r))
		return
	}

	writeJSON(w, http.StatusCreated, models.CreateSessionResponse{
		Session: session,
		Token:   token,
		JobID:   job.ID,
	})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetByID(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(session))
}

// UploadTranscript replaces the session's transcript with the text of an
// uploaded .txt, .pdf or .docx file. Notes and quiz made from the old
// transcript are dropped.
func (h *SessionHandler) UploadTranscript(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUpload {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File exceeds the upload size limit", r))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	if !services.SupportedTranscriptFile(header.Filename) {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_FORMAT", "File type not supported (use .txt, .pdf or .docx)", r))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read uploaded file", r))
		return
	}

	text, err := h.extractor.ExtractText(header.Filename, data)
	if err != nil {
		if _, ok := err.(*services.ValidationError); ok {
			handleServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("EXTRACTION_FAILED", err.Error(), r))
		return
	}

	session, err := h.sessions.Update(r.Context(), middleware.GetSessionID(r.Context()), func(s *models.StudySession) error {
		s.Transcript = text
		s.TranscriptSource = services.SourceUpload
		s.Status = models.SessionStatusReady
		s.ErrorMessage = nil
		s.Notes = nil
		s.Quiz = nil
		s.Answers = make(map[int]string)
		s.Submitted = false
		s.Result = nil
		return nil
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionView(session))
}
