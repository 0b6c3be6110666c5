package dto

import (
	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/pkg/validator"
)

type KakaoLoginRequest struct {
	AccessToken string `json:"access_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	User   *models.User      `json:"user"`
	Tokens *models.TokenPair `json:"tokens"`
}

func ValidateKakaoLogin(v *validator.Validator, req *KakaoLoginRequest) {
	v.Check(req.AccessToken != "", "access_token", "must be provided")
	v.Check(len(req.AccessToken) <= 2048, "access_token", "must not be more than 2048 bytes long")
}

func ValidateRefreshToken(v *validator.Validator, req *RefreshTokenRequest) {
	v.Check(req.RefreshToken != "", "refresh_token", "must be provided")
}
