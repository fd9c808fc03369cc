package wire

import (
	"media-review/internal/adaptor"
	"media-review/pkg/middleware"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	rdb *redis.Client,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/auth", func(r chi.Router) {
		// signup mails a code, so it is throttled per client when redis is available
		if rdb != nil {
			r.Use(middleware.RateLimit(rdb, config.RateLimit.Requests, config.RateLimit.Window, log))
		}

		r.Post("/signup", authHandler.SignUp)
		r.Post("/token", authHandler.Token)
	})
}
