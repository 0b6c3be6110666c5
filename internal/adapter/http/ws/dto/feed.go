package dto

import (
	"time"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/pkg/validator"
)

const (
	MessageAuth  = "auth"
	MessagePing  = "ping"
	MessagePong  = "pong"
	MessageReady = "ready"
	MessageError = "error"
)

// AuthMessage must be the first frame sent on the live feed.
type AuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

func (m *AuthMessage) Validate(v *validator.Validator) {
	v.Check(m.Type == MessageAuth, "type", "must be: auth")
	v.Check(m.Token != "", "token", "must be provided")
}

type ErrorMessage struct {
	Type  string `json:"type"`
	Error any    `json:"error"`
}

type ReadyMessage struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

// SessionSavedMessage is pushed to the owner when one of their sessions is stored.
type SessionSavedMessage struct {
	Type            string                 `json:"type"`
	SessionID       string                 `json:"session_id"`
	FeatureCount    int                    `json:"feature_count"`
	CoordinateCount int                    `json:"coordinate_count"`
	Summary         *models.SessionSummary `json:"summary,omitempty"`
	SavedAt         string                 `json:"saved_at"`
}

func NewSessionSavedMessage(evt models.SessionSavedEvent) SessionSavedMessage {
	return SessionSavedMessage{
		Type:            evt.Type.String(),
		SessionID:       evt.SessionID,
		FeatureCount:    evt.FeatureCount,
		CoordinateCount: evt.CoordinateCount,
		Summary:         evt.Summary,
		SavedAt:         evt.SavedAt.UTC().Format(time.RFC3339),
	}
}
