package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/repository"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/services"
)

type transcriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string) (*services.Transcript, error)
	GetVideoMetadata(ctx context.Context, videoID string) (*models.YouTubeMetadata, error)
}

type notesGenerator interface {
	Generate(ctx context.Context, transcript string) (*models.Notes, error)
}

type quizGenerator interface {
	Generate(ctx context.Context, transcript string, count int, difficulty string) (*models.Quiz, error)
}

type sessionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error)
	Update(ctx context.Context, id uuid.UUID, fn func(s *models.StudySession) error) (*models.StudySession, error)
}

type jobStore interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateError(ctx context.Context, id uuid.UUID, errMsg string, retryCount int) error
	Enqueue(ctx context.Context, j *models.Job) error
}

type publisher interface {
	Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) error
}

type Deps struct {
	Redis     *redis.Client
	Videos    transcriptFetcher
	Notes     notesGenerator
	Quiz      quizGenerator
	Sessions  sessionStore
	Jobs      jobStore
	Publisher publisher
}

type Pool struct {
	redis       *redis.Client
	videos      transcriptFetcher
	notes       notesGenerator
	quiz        quizGenerator
	sessions    sessionStore
	jobs        jobStore
	publisher   publisher
	workerCount int
	stopChan    chan struct{}

	// transcriptWait bounds how long a generation job waits for the
	// transcript job of its session.
	transcriptWait time.Duration
	pollInterval   time.Duration
	backoff        func(retry int) time.Duration
}

func NewPool(deps Deps, workerCount int) *Pool {
	return &Pool{
		redis:          deps.Redis,
		videos:         deps.Videos,
		notes:          deps.Notes,
		quiz:           deps.Quiz,
		sessions:       deps.Sessions,
		jobs:           deps.Jobs,
		publisher:      deps.Publisher,
		workerCount:    workerCount,
		stopChan:       make(chan struct{}),
		transcriptWait: 60 * time.Second,
		pollInterval:   2 * time.Second,
		backoff: func(retry int) time.Duration {
			return time.Duration(1<<uint(retry)) * time.Second
		},
	}
}

func Queues() []string {
	return []string{
		repository.QueueName(models.JobTypeTranscript),
		repository.QueueName(models.JobTypeNotes),
		repository.QueueName(models.JobTypeQuiz),
	}
}

func (p *Pool) Start() {
	queues := Queues()
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.Type)
		p.Process(ctx, &job)

		p.redis.Del(ctx, lockKey)
	}
}

// Process runs one job to completion and records the outcome.
func (p *Pool) Process(ctx context.Context, job *models.Job) {
	p.jobs.UpdateStatus(ctx, job.ID, models.JobStatusProcessing)
	p.publish(ctx, job.SessionID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			JobID:    job.ID,
			Step:     1,
			StepName: "Analyzing content",
		},
	})

	var model string
	var processErr error
	switch job.Type {
	case models.JobTypeTranscript:
		processErr = p.processTranscript(ctx, job)
	case models.JobTypeNotes:
		model, processErr = p.processNotes(ctx, job)
	case models.JobTypeQuiz:
		model, processErr = p.processQuiz(ctx, job)
	default:
		processErr = permanent(fmt.Errorf("unknown job type: %s", job.Type))
	}

	if processErr != nil {
		p.handleFailure(ctx, job, processErr)
	} else {
		p.handleSuccess(ctx, job, model)
	}
}

func (p *Pool) processTranscript(ctx context.Context, job *models.Job) error {
	session, err := p.sessions.GetByID(ctx, job.SessionID)
	if err != nil {
		return sessionErr(err)
	}

	// An upload that landed first wins over the video's captions.
	if session.TranscriptSource == services.SourceUpload && session.Transcript != "" {
		return nil
	}

	metadata, err := p.videos.GetVideoMetadata(ctx, session.VideoID)
	if err != nil {
		log.Printf("Metadata lookup failed for %s: %v", session.VideoID, err)
	}

	p.publish(ctx, job.SessionID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			JobID:    job.ID,
			Step:     2,
			StepName: "Extracting transcript from video",
		},
	})

	transcript, err := p.videos.FetchTranscript(ctx, session.VideoID)
	if err != nil {
		return fmt.Errorf("transcript extraction failed for video %s: %w", session.VideoID, err)
	}

	_, err = p.sessions.Update(ctx, job.SessionID, func(s *models.StudySession) error {
		if s.TranscriptSource == services.SourceUpload && s.Transcript != "" {
			return nil
		}
		if metadata != nil {
			s.Metadata = metadata
		}
		s.Transcript = transcript.Text
		s.TranscriptSource = transcript.Source
		s.Status = models.SessionStatusReady
		s.ErrorMessage = nil
		return nil
	})
	if err != nil {
		return sessionErr(err)
	}

	log.Printf("Fetched transcript for video %s via %s (%d chars)", session.VideoID, transcript.Source, len(transcript.Text))
	return nil
}

func (p *Pool) processNotes(ctx context.Context, job *models.Job) (string, error) {
	session, err := p.waitForTranscript(ctx, job.SessionID)
	if err != nil {
		return "", err
	}

	p.publish(ctx, job.SessionID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			JobID:                     job.ID,
			Step:                      2,
			StepName:                  "Generating study notes",
			EstimatedSecondsRemaining: 20,
		},
	})

	notes, err := p.notes.Generate(ctx, session.Transcript)
	if err != nil {
		return "", err
	}

	if _, err := p.sessions.Update(ctx, job.SessionID, func(s *models.StudySession) error {
		s.Notes = notes
		return nil
	}); err != nil {
		return "", sessionErr(err)
	}
	return notes.Model, nil
}

func (p *Pool) processQuiz(ctx context.Context, job *models.Job) (string, error) {
	var config models.GenerateQuizRequest
	if len(job.ConfigJSON) > 0 {
		if err := json.Unmarshal(job.ConfigJSON, &config); err != nil {
			return "", permanent(fmt.Errorf("invalid quiz config: %w", err))
		}
	}

	session, err := p.waitForTranscript(ctx, job.SessionID)
	if err != nil {
		return "", err
	}

	p.publish(ctx, job.SessionID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			JobID:                     job.ID,
			Step:                      2,
			StepName:                  "Generating quiz questions",
			EstimatedSecondsRemaining: 30,
		},
	})

	quiz, err := p.quiz.Generate(ctx, session.Transcript, config.NumQuestions, config.Difficulty)
	if err != nil {
		return "", err
	}

	// A new quiz starts a fresh answer sheet.
	if _, err := p.sessions.Update(ctx, job.SessionID, func(s *models.StudySession) error {
		s.Quiz = quiz
		s.Answers = make(map[int]string)
		s.Submitted = false
		s.Result = nil
		return nil
	}); err != nil {
		return "", sessionErr(err)
	}
	return quiz.Model, nil
}

// waitForTranscript returns the session once its transcript is in place.
// Generation can be requested while the transcript job is still running.
func (p *Pool) waitForTranscript(ctx context.Context, sessionID uuid.UUID) (*models.StudySession, error) {
	deadline := time.Now().Add(p.transcriptWait)

	for {
		session, err := p.sessions.GetByID(ctx, sessionID)
		if err != nil {
			return nil, sessionErr(err)
		}

		if session.Transcript != "" {
			return session, nil
		}

		if session.Status == models.SessionStatusFailed {
			return nil, permanent(fmt.Errorf("transcript is not available for this session"))
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("transcript not ready yet (status: %s)", session.Status)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.pollInterval):
		}
	}
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job, model string) {
	p.jobs.UpdateStatus(ctx, job.ID, models.JobStatusCompleted)

	p.publish(ctx, job.SessionID, models.WSMessage{
		Type: "completed",
		Payload: models.CompletedEvent{
			JobID:      job.ID,
			ResultType: getResultType(job.Type),
			Model:      model,
		},
	})

	log.Printf("Job %s completed successfully", job.ID)
}

func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	job.RetryCount++
	errMsg := err.Error()

	if job.RetryCount < job.MaxRetries && retryable(err) {
		log.Printf("Job %s failed (attempt %d): %s, retrying", job.ID, job.RetryCount, errMsg)
		p.jobs.UpdateStatus(ctx, job.ID, models.JobStatusPending)
		p.jobs.UpdateError(ctx, job.ID, errMsg, job.RetryCount)

		retry := *job
		time.AfterFunc(p.backoff(job.RetryCount), func() {
			if err := p.jobs.Enqueue(context.Background(), &retry); err != nil {
				log.Printf("failed to requeue job %s: %v", retry.ID, err)
			}
		})
		return
	}

	log.Printf("Job %s failed permanently: %s", job.ID, errMsg)
	p.jobs.UpdateStatus(ctx, job.ID, models.JobStatusFailed)
	p.jobs.UpdateError(ctx, job.ID, errMsg, job.RetryCount)

	if job.Type == models.JobTypeTranscript {
		_, updateErr := p.sessions.Update(ctx, job.SessionID, func(s *models.StudySession) error {
			if s.Transcript == "" {
				s.Status = models.SessionStatusFailed
				s.ErrorMessage = &errMsg
			}
			return nil
		})
		if updateErr != nil && !errors.Is(updateErr, repository.ErrNotFound) {
			log.Printf("failed to mark session %s failed: %v", job.SessionID, updateErr)
		}
	}

	p.publish(ctx, job.SessionID, models.WSMessage{
		Type: "error",
		Payload: models.ErrorEvent{
			JobID:        job.ID,
			ErrorCode:    ErrorCode(err),
			ErrorMessage: errMsg,
		},
	})
}

func (p *Pool) publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, sessionID, msg); err != nil {
		log.Printf("failed to publish %s for session %s: %v", msg.Type, sessionID, err)
	}
}

func getResultType(jobType string) string {
	switch jobType {
	case models.JobTypeNotes:
		return "notes"
	case models.JobTypeQuiz:
		return "quiz"
	default:
		return "transcript"
	}
}
