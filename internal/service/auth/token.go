package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	"github.com/Temutjin2k/running-app/pkg/hasher"
	"github.com/Temutjin2k/running-app/pkg/logger"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
)

// tokenClaims is the JWT payload. jti and exp live in RegisteredClaims.
type tokenClaims struct {
	Type   string `json:"typ"`
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type TokenService struct {
	userRepo    UserRepo
	refreshRepo RefreshTokenRepo
	txManager   TxManager
	RefreshTTL  time.Duration
	AccessTTL   time.Duration
	secret      []byte
	now         func() time.Time
	log         logger.Logger
}

func NewTokenService(secret string, userRepo UserRepo, refreshRepo RefreshTokenRepo, txManager TxManager, refreshTTL, accessTTL time.Duration, log logger.Logger) *TokenService {
	return &TokenService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		txManager:   txManager,
		RefreshTTL:  refreshTTL,
		AccessTTL:   accessTTL,
		secret:      []byte(secret),
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// GenerateTokens issues an access and refresh pair for user and stores
// the hash of the refresh token.
func (s *TokenService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "generate_tokens")
	if user.IsAnonymous() {
		return nil, wrap.Error(ctx, errors.New("cannot issue tokens for anonymous user"))
	}

	issuedAt := s.now().Truncate(time.Second)
	accessExp := issuedAt.Add(s.AccessTTL)
	refreshExp := issuedAt.Add(s.RefreshTTL)
	refreshID := uuid.New()

	accessToken, err := s.sign(tokenClaims{
		Type:             models.AccessToken,
		UserID:           user.ID.String(),
		Email:            user.Email,
		Role:             user.Role,
		RegisteredClaims: registered(uuid.New(), issuedAt, accessExp),
	})
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %w", ErrTokenGenerateFail, err))
	}

	refreshToken, err := s.sign(tokenClaims{
		Type:             models.RefreshToken,
		UserID:           user.ID.String(),
		RegisteredClaims: registered(refreshID, issuedAt, refreshExp),
	})
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %w", ErrTokenGenerateFail, err))
	}

	record := &models.RefreshTokenRecord{
		ID:        refreshID,
		UserID:    user.ID,
		TokenHash: hasher.Hash(refreshToken),
		ExpiresAt: refreshExp,
		CreatedAt: issuedAt,
	}
	if err := s.refreshRepo.Save(ctx, record); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to persist refresh token: %w", err))
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh exchanges a refresh token for a new pair. Each refresh token is
// accepted once.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "refresh_token")

	claims, err := s.Validate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != models.RefreshToken {
		return nil, wrap.Error(ctx, ErrWrongTokenType)
	}

	var pair *models.TokenPair
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		record, err := s.refreshRepo.Get(txCtx, claims.TokenID)
		if err != nil {
			return fmt.Errorf("failed to load refresh token record: %w", err)
		}
		if record == nil || record.UserID != claims.UserID {
			return ErrInvalidToken
		}

		if !hasher.Verify(refreshToken, record.TokenHash) {
			return ErrInvalidToken
		}

		fresh, err := s.refreshRepo.MarkUsed(txCtx, record.ID)
		if err != nil {
			return fmt.Errorf("failed to mark refresh token as used: %w", err)
		}
		if !fresh {
			return errTokenReused
		}
		if s.now().After(record.ExpiresAt) {
			return ErrExpToken
		}

		user, err := s.userRepo.GetByID(txCtx, claims.UserID)
		if err != nil {
			return fmt.Errorf("failed to load user for refresh token: %w", err)
		}

		pair, err = s.GenerateTokens(txCtx, user)
		return err
	})
	if errors.Is(err, errTokenReused) {
		// Reuse revokes every refresh token of the user.
		if rerr := s.refreshRepo.RevokeAllForUser(ctx, claims.UserID); rerr != nil {
			s.log.Error(wrap.ErrorCtx(ctx, rerr), "failed to revoke refresh tokens after reuse", rerr)
		}
		s.log.Warn(wrap.WithUserID(ctx, claims.UserID.String()), "refresh token reused, all sessions revoked")
	}
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return pair, nil
}

// Validate checks signature, algorithm and expiry of token and returns its claims.
func (s *TokenService) Validate(ctx context.Context, token string) (*models.CustomClaims, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, wrap.Error(ctx, ErrExpToken)
		}
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	if !models.IsValidTokenType(tc.Type) {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}
	userID, err := uuid.Parse(tc.UserID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: bad user_id", ErrInvalidToken))
	}
	tokenID, err := uuid.Parse(tc.ID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: bad jti", ErrInvalidToken))
	}

	return &models.CustomClaims{
		UserID:           userID,
		TokenID:          tokenID,
		TokenType:        tc.Type,
		Email:            tc.Email,
		Role:             tc.Role,
		RegisteredClaims: tc.RegisteredClaims,
	}, nil
}

func (s *TokenService) sign(claims tokenClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func registered(id uuid.UUID, issuedAt, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        id.String(),
		Issuer:    string(types.RunningService),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
}
