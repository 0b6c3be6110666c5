package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/pkg/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTokenService(users *fakeUserRepo) (*TokenService, *fakeRefreshRepo) {
	refresh := newFakeRefreshRepo()
	return NewTokenService(testSecret, users, refresh, fakeTx{}, time.Hour, 15*time.Minute, logger.Discard()), refresh
}

func testUser() *models.User {
	return &models.User{ID: uuid.New(), Email: "runner@example.com", Role: "USER"}
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	u := testUser()
	svc, refresh := newTokenService(newFakeUserRepo(u))
	ctx := context.Background()

	pair, err := svc.GenerateTokens(ctx, u)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	claims, err := svc.Validate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Validate access: %v", err)
	}
	if claims.UserID != u.ID || claims.TokenType != models.AccessToken || claims.Email != u.Email {
		t.Fatalf("claims = %+v", claims)
	}

	rc, err := svc.Validate(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Validate refresh: %v", err)
	}
	if _, err := refresh.Get(ctx, rc.TokenID); err != nil {
		t.Fatalf("refresh record: %v", err)
	}
	if len(refresh.records) != 1 {
		t.Fatalf("stored %d refresh records, want 1", len(refresh.records))
	}
}

func TestTokenService_RefreshIsSingleUse(t *testing.T) {
	u := testUser()
	svc, _ := newTokenService(newFakeUserRepo(u))
	ctx := context.Background()

	pair, err := svc.GenerateTokens(ctx, u)
	if err != nil {
		t.Fatal(err)
	}

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token must rotate")
	}

	if _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reuse err = %v, want ErrInvalidToken", err)
	}

	// Reuse revokes the whole family, including the rotated token.
	if _, err := svc.Refresh(ctx, next.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("rotated token after reuse err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_RefreshRejectsAccessToken(t *testing.T) {
	u := testUser()
	svc, _ := newTokenService(newFakeUserRepo(u))

	pair, _ := svc.GenerateTokens(context.Background(), u)
	if _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("err = %v, want ErrWrongTokenType", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	u := testUser()
	svc, _ := newTokenService(newFakeUserRepo(u))

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := svc.GenerateTokens(context.Background(), u)
	if err != nil {
		t.Fatal(err)
	}
	svc.now = func() time.Time { return time.Now().UTC() }

	if _, err := svc.Validate(context.Background(), pair.AccessToken); !errors.Is(err, ErrExpToken) {
		t.Fatalf("err = %v, want ErrExpToken", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	u := testUser()
	svc, _ := newTokenService(newFakeUserRepo(u))
	pair, _ := svc.GenerateTokens(context.Background(), u)

	other := NewTokenService("another-secret-another-secret-xx", nil, nil, fakeTx{}, time.Hour, time.Hour, logger.Discard())
	if _, err := other.Validate(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.Validate(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage err = %v", err)
	}
}

func TestTokenService_AnonymousUser(t *testing.T) {
	svc, _ := newTokenService(newFakeUserRepo())
	if _, err := svc.GenerateTokens(context.Background(), models.AnonymousUser()); err == nil {
		t.Fatal("expected error for anonymous user")
	}
}
