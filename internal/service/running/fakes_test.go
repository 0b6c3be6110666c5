package running

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
)

type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  []*models.RunningSession
	createErr error
	clock     time.Time
	lastLimit int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{clock: time.Date(2026, 4, 1, 6, 0, 0, 0, time.UTC)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *models.RunningSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.sessions {
		if existing.UserID == s.UserID && existing.SessionID == s.SessionID {
			return types.ErrSessionAlreadyExists
		}
	}

	r.clock = r.clock.Add(time.Minute)
	s.ID = uuid.New()
	s.CreatedAt = r.clock
	c := *s
	r.sessions = append(r.sessions, &c)
	return nil
}

func (r *fakeSessionRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*models.RunningSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit

	var out []*models.RunningSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSessionRepo) GetByUserAndSessionID(_ context.Context, userID uuid.UUID, sessionID string) (*models.RunningSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.UserID == userID && s.SessionID == sessionID {
			return s, nil
		}
	}
	return nil, nil
}

type fakeSink struct {
	err    error
	events []models.SessionSavedEvent
}

func (f *fakeSink) PublishSessionSaved(_ context.Context, evt models.SessionSavedEvent) error {
	f.events = append(f.events, evt)
	return f.err
}

func (f *fakeSink) NotifySessionSaved(_ context.Context, evt models.SessionSavedEvent) error {
	f.events = append(f.events, evt)
	return f.err
}

var errBroker = errors.New("broker down")
