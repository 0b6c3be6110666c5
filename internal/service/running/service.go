package running

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	"github.com/Temutjin2k/running-app/pkg/logger"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
	"github.com/Temutjin2k/running-app/pkg/metrics"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100

	eventTimeout = 3 * time.Second
)

// Service stores running sessions and serves them back to their owners.
type Service struct {
	sessions  SessionRepo
	publisher EventPublisher
	notifier  LiveNotifier
	l         logger.Logger
}

// Option plugs optional event sinks into the service.
type Option func(*Service)

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithNotifier(n LiveNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

func New(sessions SessionRepo, l logger.Logger, opts ...Option) *Service {
	s := &Service{
		sessions: sessions,
		l:        l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveRunningData validates and stores a session. Business failures are
// reported through a response with status ERROR and a nil error; the
// error is reserved for infrastructure failures.
func (s *Service) SaveRunningData(ctx context.Context, req *models.RunningDataRequest) (*models.RunningDataResponse, error) {
	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action:    "save_running_session",
		UserID:    req.UserID.String(),
		SessionID: req.SessionID,
	})

	geometries, msg := validateRequest(req)
	if msg != "" {
		metrics.RecordSessionSave(string(types.RunningService), false, 0)
		s.l.Debug(ctx, "running session rejected", "reason", msg)
		return models.ErrorResponse(msg), nil
	}

	session := &models.RunningSession{
		SessionID:       req.SessionID,
		UserID:          req.UserID,
		GeoJSON:         req.RawGeoJSON,
		FeatureCount:    req.FeatureCount(),
		CoordinateCount: countPositions(geometries),
		StartedAt:       req.StartedAt,
		EndedAt:         req.EndedAt,
		Summary:         summaryFor(req, geometries),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		metrics.RecordSessionSave(string(types.RunningService), false, 0)
		if errors.Is(err, types.ErrSessionAlreadyExists) {
			return models.ErrorResponse(fmt.Sprintf("running session %q already exists", req.SessionID)), nil
		}
		return nil, wrap.Error(ctx, fmt.Errorf("failed to save running session: %w", err))
	}

	metrics.RecordSessionSave(string(types.RunningService), true, session.CoordinateCount)
	s.l.Info(ctx, "running session saved",
		"feature_count", session.FeatureCount,
		"coordinate_count", session.CoordinateCount,
		"has_summary", session.Summary != nil,
	)

	s.emitSaved(ctx, session)

	return models.SuccessResponse(session), nil
}

// emitSaved publishes the event and pushes it to the live feed. Failures are logged only.
func (s *Service) emitSaved(ctx context.Context, session *models.RunningSession) {
	if s.publisher == nil && s.notifier == nil {
		return
	}

	evt := models.NewSessionSavedEvent(session)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventTimeout)
	defer cancel()

	if s.publisher != nil {
		if err := s.publisher.PublishSessionSaved(ctx, evt); err != nil {
			s.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish session saved event", err)
		}
	}

	if s.notifier != nil {
		err := s.notifier.NotifySessionSaved(ctx, evt)
		switch {
		case errors.Is(err, types.ErrFeedNotConnected):
			s.l.Debug(ctx, "owner has no live feed")
		case err != nil:
			s.l.Warn(wrap.WithAction(wrap.ErrorCtx(ctx, err), types.ActionLiveFeedPushFailed), "failed to push session to live feed", "err", err.Error())
		}
	}
}

// GetUserSessions returns at most limit sessions of userID, newest first.
// A limit outside 1..MaxListLimit falls back to the nearest bound.
func (s *Service) GetUserSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.RunningSession, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	sessions, err := s.sessions.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list running sessions: %w", err))
	}
	return sessions, nil
}

// GetSessionData returns nil, nil when userID has no session with sessionID.
func (s *Service) GetSessionData(ctx context.Context, userID uuid.UUID, sessionID string) (*models.RunningSession, error) {
	session, err := s.sessions.GetByUserAndSessionID(ctx, userID, sessionID)
	if err != nil {
		ctx = wrap.WithSessionID(ctx, sessionID)
		return nil, wrap.Error(ctx, fmt.Errorf("failed to get running session: %w", err))
	}
	return session, nil
}

// GetSessionSummary fails with types.ErrSessionNotFound or types.ErrSummaryNotFound.
func (s *Service) GetSessionSummary(ctx context.Context, userID uuid.UUID, sessionID string) (*models.SessionSummary, error) {
	session, err := s.GetSessionData(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, types.ErrSessionNotFound
	}
	if session.Summary == nil {
		return nil, types.ErrSummaryNotFound
	}
	return session.Summary, nil
}

// validateRequest decodes every geometry of req. It returns a non-empty
// message describing the first problem found.
func validateRequest(req *models.RunningDataRequest) ([]models.DecodedGeometry, string) {
	if req.FeatureCount() == 0 {
		return nil, "geojson must contain at least one feature"
	}

	if req.StartedAt != nil && req.EndedAt != nil && req.EndedAt.Before(*req.StartedAt) {
		return nil, "ended_at must not be before started_at"
	}

	geometries := make([]models.DecodedGeometry, 0, req.FeatureCount())
	for i, f := range req.GeoJSON.Features {
		if f.Geometry == nil {
			return nil, fmt.Sprintf("feature %d has no geometry", i)
		}

		g, err := f.Geometry.Decode()
		if err != nil {
			return nil, fmt.Sprintf("feature %d: %s", i, err.Error())
		}

		for _, path := range g.Paths {
			for _, p := range path {
				if !p.Valid() {
					return nil, fmt.Sprintf("feature %d has a coordinate out of range", i)
				}
			}
		}
		geometries = append(geometries, g)
	}

	return geometries, ""
}

func countPositions(geometries []models.DecodedGeometry) int {
	n := 0
	for _, g := range geometries {
		n += g.PositionCount()
	}
	return n
}

// summaryFor prefers the client's summary and derives one from the track otherwise.
func summaryFor(req *models.RunningDataRequest, geometries []models.DecodedGeometry) *models.SessionSummary {
	if req.Summary == nil {
		return deriveSummary(geometries, req.StartedAt, req.EndedAt)
	}

	summary := *req.Summary
	if summary.StartedAt == nil {
		summary.StartedAt = req.StartedAt
	}
	if summary.EndedAt == nil {
		summary.EndedAt = req.EndedAt
	}
	if summary.PointCount == 0 {
		summary.PointCount = countPositions(geometries)
	}
	if summary.AvgPaceSecPerKm == 0 && summary.AvgSpeedKmh == 0 {
		fillRates(&summary)
	}
	return &summary
}
