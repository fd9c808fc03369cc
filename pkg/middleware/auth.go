package middleware

import (
	"errors"
	"net/http"
	"strings"

	"media-review/internal/data/repository"
	"media-review/internal/policy"
	"media-review/pkg/apperror"
	"media-review/pkg/token"
	"media-review/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate resolves an optional bearer token into a policy.Principal.
// Requests without a token pass through anonymously; a token that is
// malformed, expired or names a deleted user is rejected with 401.
func Authenticate(issuer token.Issuer, users repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, raw, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := issuer.Parse(strings.TrimSpace(raw))
			if err != nil {
				logger.Warn("Invalid or expired token", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				logger.Warn("Token subject is not a user id", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to load token user",
					zap.Error(err),
					zap.String("user_id", userID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if user == nil {
				logger.Warn("Token user no longer exists", zap.String("user_id", userID.String()))
				utils.ResponseUnauthorized(w, "User not found")
				return
			}

			ctx := utils.SetPrincipal(r.Context(), &policy.Principal{
				UserID:   user.ID,
				Username: user.Username,
				Role:     user.Role,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize enforces the resource-level policy before the handler runs.
func Authorize(res policy.Resource, act policy.Action, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := utils.GetPrincipal(r.Context())

			err := policy.Check(p, res, act)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			var appErr *apperror.Error
			errors.As(err, &appErr)
			if appErr != nil && appErr.Kind == apperror.KindUnauthorized {
				utils.ResponseUnauthorized(w, appErr.Message)
				return
			}

			fields := []zap.Field{
				zap.String("resource", string(res)),
				zap.String("action", string(act)),
				zap.String("path", r.URL.Path),
			}
			if p != nil {
				fields = append(fields, zap.String("username", p.Username), zap.String("role", string(p.Role)))
			}
			logger.Warn("Access denied", fields...)
			utils.ResponseForbidden(w, policy.ErrForbidden.Message)
		})
	}
}
