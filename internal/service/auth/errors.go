package auth

import (
	"errors"
	"fmt"
)

var (
	ErrTokenGenerateFail   = errors.New("failed to generate token")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpToken            = errors.New("expired token")
	ErrWrongTokenType      = errors.New("wrong token type")
	ErrInvalidProviderUser = errors.New("identity provider returned an unusable profile")
)

// errTokenReused marks a refresh token presented after it was already rotated.
var errTokenReused = fmt.Errorf("%w: refresh token reused", ErrInvalidToken)
