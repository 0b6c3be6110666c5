package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
)

// --- base auth middleware ---

// Auth validates the bearer token, loads the user and injects it into context.
// Requests without an Authorization header, and requests to public paths,
// continue as the anonymous user. A present but invalid token is rejected with 401.
func (h *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		_, public := h.publicPaths[r.URL.Path]
		header := r.Header.Get("Authorization")
		if header == "" || public {
			next.ServeHTTP(w, r.WithContext(models.WithUser(ctx, models.AnonymousUser())))
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		user, err := h.auth.Authenticate(ctx, token)
		if err != nil || user == nil {
			h.log.Warn(wrap.ErrorCtx(ctx, err), "failed to authenticate user", "err", fmt.Sprint(err))
			errorResponse(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx = wrap.WithUserID(ctx, user.ID.String())
		next.ServeHTTP(w, r.WithContext(models.WithUser(ctx, user)))
	})
}

// RequireUser rejects anonymous callers with 401.
func (h *Middleware) RequireUser(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if models.UserFromContext(r.Context()).IsAnonymous() {
			w.Header().Set("WWW-Authenticate", `Bearer realm="running"`)
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// --- header parser ---
func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}
