package middleware

import (
	"context"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/pkg/logger"
)

type (
	AuthService interface {
		Authenticate(ctx context.Context, token string) (*models.User, error)
	}

	Middleware struct {
		auth AuthService
		log  logger.Logger

		// publicPaths are served as the anonymous user whatever Authorization says.
		publicPaths map[string]struct{}
	}
)

func NewMiddleware(auth AuthService, log logger.Logger, publicPaths ...string) *Middleware {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return &Middleware{
		auth:        auth,
		log:         log,
		publicPaths: public,
	}
}
