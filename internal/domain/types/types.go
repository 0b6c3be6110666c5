package types

type ServiceMode string

// Running Service - authenticates users and stores running sessions
const (
	RunningService ServiceMode = "running-service"
)

// UserRole is the role stored on a user and carried in access tokens.
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

// IdentityProvider names the external provider a user signed in with.
type IdentityProvider string

const (
	ProviderKakao IdentityProvider = "kakao"
)

// ResponseStatus is the status reported by the running service on save.
type ResponseStatus string

const (
	StatusSuccess ResponseStatus = "SUCCESS"
	StatusError   ResponseStatus = "ERROR"
)

// EventType identifies messages pushed to live feeds and published to the broker.
type EventType string

func (e EventType) String() string {
	return string(e)
}

const (
	EventSessionSaved EventType = "session_saved"
)
