package dto

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/pkg/validator"
)

const featureCollection = "FeatureCollection"

// SaveRunningRequest is the body of POST /api/running/session.
type SaveRunningRequest struct {
	SessionID string          `json:"session_id" validate:"required,max=100"`
	UserID    string          `json:"user_id" validate:"required,uuid"`
	StartedAt *time.Time      `json:"started_at,omitempty"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
	Summary   *SummaryRequest `json:"summary,omitempty"`
	GeoJSON   json.RawMessage `json:"geojson" swaggertype:"object"`

	collection models.FeatureCollection
}

type SummaryRequest struct {
	DistanceKm      float64 `json:"distance_km" validate:"gte=0"`
	DurationSeconds int64   `json:"duration_seconds" validate:"gte=0"`
	AvgPaceSecPerKm float64 `json:"avg_pace_sec_per_km" validate:"gte=0"`
	AvgSpeedKmh     float64 `json:"avg_speed_kmh" validate:"gte=0"`
	PointCount      int     `json:"point_count" validate:"gte=0"`
}

// DeclaredOwner reads only user_id from a save body. It ignores every other
// key and type so the owner check runs before the strict decode.
type DeclaredOwner struct {
	UserID json.RawMessage `json:"user_id"`
}

// OwnedBy reports whether the declared owner is userID.
func (o *DeclaredOwner) OwnedBy(userID uuid.UUID) bool {
	var s string
	if err := json.Unmarshal(o.UserID, &s); err != nil {
		return false
	}
	declared, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil && declared == userID
}

// String returns the declared user_id as sent, for logging.
func (o *DeclaredOwner) String() string {
	return string(o.UserID)
}

// Validate checks the request and decodes its GeoJSON for ToModel.
func (r *SaveRunningRequest) Validate(v *validator.Validator) {
	v.Struct(r)

	raw := bytes.TrimSpace(r.GeoJSON)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		v.AddError("geojson", "must be provided")
		return
	}
	if err := json.Unmarshal(raw, &r.collection); err != nil {
		v.AddError("geojson", "must be a GeoJSON FeatureCollection")
		return
	}
	v.Check(r.collection.Type == featureCollection, "geojson.type", "must be FeatureCollection")
}

func (r *SaveRunningRequest) ToModel(userID uuid.UUID) *models.RunningDataRequest {
	req := &models.RunningDataRequest{
		SessionID:  strings.TrimSpace(r.SessionID),
		UserID:     userID,
		StartedAt:  r.StartedAt,
		EndedAt:    r.EndedAt,
		GeoJSON:    r.collection,
		RawGeoJSON: bytes.TrimSpace(r.GeoJSON),
	}
	if r.Summary != nil {
		req.Summary = &models.SessionSummary{
			DistanceKm:      r.Summary.DistanceKm,
			DurationSeconds: r.Summary.DurationSeconds,
			AvgPaceSecPerKm: r.Summary.AvgPaceSecPerKm,
			AvgSpeedKmh:     r.Summary.AvgSpeedKmh,
			PointCount:      r.Summary.PointCount,
		}
	}
	return req
}

func ValidateLimit(v *validator.Validator, limit, maxLimit int) {
	v.Check(limit >= 1, "limit", "must be at least 1")
	v.Check(limit <= maxLimit, "limit", "must not be more than "+strconv.Itoa(maxLimit))
}
