package types

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrKakaoIDConflict    = errors.New("kakao account already linked to another user")

	ErrSessionNotFound      = errors.New("running session not found")
	ErrSessionAlreadyExists = errors.New("running session already exists")
	ErrSummaryNotFound      = errors.New("running session summary not found")
	ErrNotFound             = errors.New("requested item not found")

	ErrForbidden = errors.New("forbidden")

	ErrIdentityProviderUnauthorized = errors.New("identity provider rejected the token")
	ErrIdentityProviderUnavailable  = errors.New("identity provider unavailable")

	ErrDatabaseFailed   = errors.New("database failed")
	ErrFailedToPublish  = errors.New("failed to publish event")
	ErrFeedNotConnected = errors.New("live feed not connected")
)
