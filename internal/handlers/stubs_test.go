package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/middleware"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/repository"
)

type stubSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*models.StudySession
}

func newStubSessionRepo(sessions ...*models.StudySession) *stubSessionRepo {
	repo := &stubSessionRepo{sessions: make(map[uuid.UUID]*models.StudySession)}
	for _, s := range sessions {
		repo.sessions[s.ID] = s
	}
	return repo
}

func (s *stubSessionRepo) Create(ctx context.Context, session *models.StudySession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ID = uuid.New()
	if session.Answers == nil {
		session.Answers = make(map[int]string)
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *stubSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *stubSessionRepo) Update(ctx context.Context, id uuid.UUID, fn func(*models.StudySession) error) (*models.StudySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *session
	copied.Answers = make(map[int]string, len(session.Answers))
	for k, v := range session.Answers {
		copied.Answers[k] = v
	}
	if err := fn(&copied); err != nil {
		return nil, err
	}
	s.sessions[id] = &copied
	return &copied, nil
}

type stubJobRepo struct {
	jobs       map[uuid.UUID]*models.Job
	enqueued   []*models.Job
	enqueueErr error
	statuses   map[uuid.UUID]string
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[uuid.UUID]*models.Job), statuses: make(map[uuid.UUID]string)}
}

func (s *stubJobRepo) Create(ctx context.Context, j *models.Job) error {
	j.ID = uuid.New()
	j.Status = models.JobStatusPending
	s.jobs[j.ID] = j
	return nil
}

func (s *stubJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return j, nil
}

func (s *stubJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	s.statuses[id] = status
	return nil
}

func (s *stubJobRepo) Enqueue(ctx context.Context, j *models.Job) error {
	if s.enqueueErr != nil {
		return s.enqueueErr
	}
	s.enqueued = append(s.enqueued, j)
	return nil
}

type stubTokens struct{}

func (stubTokens) IssueToken(id uuid.UUID) (string, error) { return "token-" + id.String(), nil }

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractText(name string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.text != "" {
		return s.text, nil
	}
	return string(data), nil
}

type stubChecker struct{ err error }

func (s stubChecker) Check(string) error { return s.err }

var errStub = errors.New("stub failure")

// withSession attaches an authenticated session id, as SessionAuth does.
func withSession(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionIDKey, id))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
