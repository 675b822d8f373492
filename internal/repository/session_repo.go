package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
)

// SessionRepo keeps study sessions in Redis. A session expires ttl after it
// was created; updates do not extend it.
type SessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionRepo(rdb *redis.Client, ttl time.Duration) *SessionRepo {
	return &SessionRepo{rdb: rdb, ttl: ttl}
}

func sessionKey(id uuid.UUID) string {
	return "study_session:" + id.String()
}

func (r *SessionRepo) Create(ctx context.Context, s *models.StudySession) error {
	now := time.Now().UTC()
	s.ID = uuid.New()
	if s.Status == "" {
		s.Status = models.SessionStatusPending
	}
	if s.Answers == nil {
		s.Answers = make(map[int]string)
	}
	s.CreatedAt = now
	s.UpdatedAt = now

	return setJSON(ctx, r.rdb, sessionKey(s.ID), s, r.ttl)
}

func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	s := &models.StudySession{}
	if err := getJSON(ctx, r.rdb, sessionKey(id), s); err != nil {
		return nil, err
	}
	return s, nil
}

// Update applies fn to the stored session and saves the result. If fn
// returns an error nothing is written and the error is returned as is.
func (r *SessionRepo) Update(ctx context.Context, id uuid.UUID, fn func(s *models.StudySession) error) (*models.StudySession, error) {
	var s models.StudySession
	err := updateJSON(ctx, r.rdb, sessionKey(id), &s, func() error {
		if err := fn(&s); err != nil {
			return err
		}
		s.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}
