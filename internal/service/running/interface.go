package running

import (
	"context"

	"github.com/google/uuid"

	"github.com/Temutjin2k/running-app/internal/domain/models"
)

/*=================Running Session Repository======================*/

type SessionRepo interface {
	Create(ctx context.Context, s *models.RunningSession) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.RunningSession, error)
	GetByUserAndSessionID(ctx context.Context, userID uuid.UUID, sessionID string) (*models.RunningSession, error)
}

/*=================Session Events======================*/

type EventPublisher interface {
	PublishSessionSaved(ctx context.Context, evt models.SessionSavedEvent) error
}

type LiveNotifier interface {
	NotifySessionSaved(ctx context.Context, evt models.SessionSavedEvent) error
}
