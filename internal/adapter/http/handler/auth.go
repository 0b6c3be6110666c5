package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/running-app/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/pkg/logger"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
	"github.com/Temutjin2k/running-app/pkg/validator"
)

type AuthService interface {
	LoginWithKakao(ctx context.Context, accessToken string) (*models.User, *models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

type Auth struct {
	auth AuthService
	l    logger.Logger
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		auth: service,
		l:    l,
	}
}

// KakaoLogin godoc
// @Summary      Sign in with Kakao
// @Description  Exchanges a Kakao access token for a service token pair, creating the user on first sign in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.KakaoLoginRequest  true  "Kakao access token"
// @Success      200      {object}  dto.LoginResponse
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      422      {object}  map[string]any
// @Failure      502      {object}  map[string]string
// @Router       /api/auth/kakao [post]
func (h *Auth) KakaoLogin(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "kakao_login")

	req := &dto.KakaoLoginRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateKakaoLogin(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	user, tokens, err := h.auth.LoginWithKakao(ctx, req.AccessToken)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to sign in with kakao", err)
		errorResponse(w, GetCode(err), ErrorMessage(err))
		return
	}

	if err := writeJSON(w, http.StatusOK, dto.LoginResponse{User: user, Tokens: tokens}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Refresh godoc
// @Summary      Rotate tokens
// @Description  Exchanges a refresh token for a new token pair. Every refresh token is accepted once.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RefreshTokenRequest  true  "Refresh token"
// @Success      200      {object}  models.TokenPair
// @Failure      401      {object}  map[string]string
// @Failure      422      {object}  map[string]any
// @Router       /api/auth/refresh [post]
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "refresh_token")

	req := &dto.RefreshTokenRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateRefreshToken(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	tokens, err := h.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.l.Warn(wrap.ErrorCtx(ctx, err), "failed to refresh token pair", "err", err.Error())
		errorResponse(w, GetCode(err), ErrorMessage(err))
		return
	}

	if err := writeJSON(w, http.StatusOK, tokens, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Profile godoc
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_profile")

	user := models.UserFromContext(ctx)
	if user.IsAnonymous() {
		unauthorizedResponse(w)
		return
	}

	if err := writeJSON(w, http.StatusOK, user, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
