package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	"github.com/Temutjin2k/running-app/pkg/logger"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
	"github.com/Temutjin2k/running-app/pkg/metrics"
)

// Login outcomes reported to metrics.
const (
	outcomeExisting = "existing"
	outcomeLinked   = "linked"
	outcomeCreated  = "created"
	outcomeFailed   = "failed"
)

type AuthService struct {
	userRepo     UserRepo
	provider     IdentityProvider
	tokenService TokenProvider
	txManager    TxManager
	log          logger.Logger
}

func NewAuthService(userRepo UserRepo, provider IdentityProvider, tokenService TokenProvider, txManager TxManager, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		provider:     provider,
		tokenService: tokenService,
		txManager:    txManager,
		log:          log,
	}
}

// LoginWithKakao resolves the Kakao profile behind accessToken to a local
// user and issues a token pair. A user is matched by kakao id first, then
// by verified email (linking the kakao id), and created otherwise.
func (s *AuthService) LoginWithKakao(ctx context.Context, accessToken string) (*models.User, *models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "kakao_login")

	profile, err := s.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		metrics.RecordLogin(string(types.ProviderKakao), outcomeFailed)
		return nil, nil, err
	}
	if profile == nil || profile.ID == "" {
		metrics.RecordLogin(string(types.ProviderKakao), outcomeFailed)
		return nil, nil, wrap.Error(ctx, ErrInvalidProviderUser)
	}

	var (
		user    *models.User
		pair    *models.TokenPair
		outcome string
	)
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		user, outcome, err = s.resolveUser(txCtx, profile)
		if err != nil {
			return err
		}

		pair, err = s.tokenService.GenerateTokens(txCtx, user)
		return err
	})
	if err != nil {
		metrics.RecordLogin(string(types.ProviderKakao), outcomeFailed)
		return nil, nil, wrap.Error(ctx, err)
	}

	metrics.RecordLogin(string(types.ProviderKakao), outcome)
	s.log.Info(wrap.WithUserID(ctx, user.ID.String()), "user logged in", "provider", types.ProviderKakao, "outcome", outcome)

	return user, pair, nil
}

func (s *AuthService) resolveUser(ctx context.Context, p *models.KakaoProfile) (*models.User, string, error) {
	user, err := s.userRepo.FindByKakaoID(ctx, p.ID)
	if err != nil {
		return nil, "", err
	}
	if user != nil {
		if user.Nickname != p.Nickname || user.ProfileImageURL != p.ProfileImageURL {
			user.Nickname, user.ProfileImageURL = p.Nickname, p.ProfileImageURL
			if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
				return nil, "", err
			}
		}
		return user, outcomeExisting, nil
	}

	// Only a verified email may claim an existing account.
	email := ""
	if p.EmailVerified {
		email = p.Email
	}

	if email != "" {
		user, err = s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return nil, "", err
		}
		if user != nil {
			if user.KakaoID != "" && user.KakaoID != p.ID {
				return nil, "", types.ErrKakaoIDConflict
			}
			user.KakaoID = p.ID
			user.Nickname, user.ProfileImageURL = p.Nickname, p.ProfileImageURL
			if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
				return nil, "", err
			}
			return user, outcomeLinked, nil
		}
	}

	user = &models.User{
		KakaoID:         p.ID,
		Email:           email,
		Nickname:        p.Nickname,
		ProfileImageURL: p.ProfileImageURL,
		Role:            types.UserRoleUser.String(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}
	return user, outcomeCreated, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	return s.tokenService.Refresh(ctx, refreshToken)
}

// Authenticate turns an access token into the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokenService.Validate(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != models.AccessToken {
		return nil, ErrWrongTokenType
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrInvalidToken)
		}
		return nil, err
	}
	return user, nil
}
