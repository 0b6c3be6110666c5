package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID `json:"id"`
	KakaoID         string    `json:"kakao_id,omitempty"`
	Email           string    `json:"email,omitempty"`
	Nickname        string    `json:"nickname,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsAnonymous reports whether u represents an unauthenticated caller.
func (u *User) IsAnonymous() bool {
	return u == nil || u.ID == uuid.Nil
}

// AnonymousUser is the principal attached to requests without credentials.
func AnonymousUser() *User {
	return &User{}
}

// KakaoProfile is the subset of the identity provider's profile the service keeps.
type KakaoProfile struct {
	ID              string
	Email           string
	EmailVerified   bool
	Nickname        string
	ProfileImageURL string
}

type userCtxKey struct{}

// WithUser stores the authenticated principal in ctx.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the principal stored by WithUser, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}
