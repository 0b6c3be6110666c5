package models

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/Temutjin2k/running-app/internal/domain/types"
)

// RunningSession is a single recorded run owned by exactly one user.
type RunningSession struct {
	ID              uuid.UUID       `json:"id"`
	SessionID       string          `json:"session_id"`
	UserID          uuid.UUID       `json:"user_id"`
	GeoJSON         json.RawMessage `json:"geojson"`
	FeatureCount    int             `json:"feature_count"`
	CoordinateCount int             `json:"coordinate_count"`
	Summary         *SessionSummary `json:"summary,omitempty"`
	StartedAt       *time.Time      `json:"started_at,omitempty"`
	EndedAt         *time.Time      `json:"ended_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SessionSummary is the lightweight projection served by the summary endpoint.
type SessionSummary struct {
	DistanceKm      float64    `json:"distance_km"`
	DurationSeconds int64      `json:"duration_seconds"`
	AvgPaceSecPerKm float64    `json:"avg_pace_sec_per_km"`
	AvgSpeedKmh     float64    `json:"avg_speed_kmh"`
	PointCount      int        `json:"point_count"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
}

// RunningDataRequest is the save command handed to the running service.
type RunningDataRequest struct {
	SessionID string
	UserID    uuid.UUID
	StartedAt *time.Time
	EndedAt   *time.Time
	Summary   *SessionSummary
	GeoJSON   FeatureCollection
	// RawGeoJSON is persisted as received.
	RawGeoJSON json.RawMessage
}

func (r *RunningDataRequest) FeatureCount() int {
	return len(r.GeoJSON.Features)
}

// RunningDataResponse is the outcome of a save.
type RunningDataResponse struct {
	Status          types.ResponseStatus `json:"status"`
	Message         string               `json:"message"`
	SessionID       string               `json:"session_id,omitempty"`
	FeatureCount    int                  `json:"feature_count,omitempty"`
	CoordinateCount int                  `json:"coordinate_count,omitempty"`
	SavedAt         *time.Time           `json:"saved_at,omitempty"`
}

func (r *RunningDataResponse) IsSuccess() bool {
	return r != nil && r.Status == types.StatusSuccess
}

func SuccessResponse(s *RunningSession) *RunningDataResponse {
	savedAt := s.CreatedAt
	return &RunningDataResponse{
		Status:          types.StatusSuccess,
		Message:         "running session saved",
		SessionID:       s.SessionID,
		FeatureCount:    s.FeatureCount,
		CoordinateCount: s.CoordinateCount,
		SavedAt:         &savedAt,
	}
}

func ErrorResponse(message string) *RunningDataResponse {
	return &RunningDataResponse{
		Status:  types.StatusError,
		Message: message,
	}
}

// SessionSavedEvent is published to the broker and pushed to the owner's live feed.
type SessionSavedEvent struct {
	Type            types.EventType `json:"type"`
	SessionID       string          `json:"session_id"`
	UserID          uuid.UUID       `json:"user_id"`
	FeatureCount    int             `json:"feature_count"`
	CoordinateCount int             `json:"coordinate_count"`
	Summary         *SessionSummary `json:"summary,omitempty"`
	SavedAt         time.Time       `json:"saved_at"`
}

func NewSessionSavedEvent(s *RunningSession) SessionSavedEvent {
	return SessionSavedEvent{
		Type:            types.EventSessionSaved,
		SessionID:       s.SessionID,
		UserID:          s.UserID,
		FeatureCount:    s.FeatureCount,
		CoordinateCount: s.CoordinateCount,
		Summary:         s.Summary,
		SavedAt:         s.CreatedAt,
	}
}
