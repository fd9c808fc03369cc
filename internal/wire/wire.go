package wire

import (
	"context"
	"net/http"
	"time"

	"media-review/internal/adaptor"
	"media-review/internal/data/repository"
	"media-review/internal/policy"
	"media-review/internal/usecase"
	"media-review/pkg/database"
	"media-review/pkg/mailer"
	"media-review/pkg/middleware"
	"media-review/pkg/token"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the assembled HTTP application.
type App struct {
	Router *chi.Mux
}

// Deps are the process-wide resources built in main. Redis is optional.
type Deps struct {
	DB     database.PgxIface
	Repo   *repository.Repository
	Redis  *redis.Client
	Mailer mailer.Mailer
}

// Wiring builds services, handlers and routes.
func Wiring(deps Deps, config *utils.Config, logger *zap.Logger) *App {
	issuer := token.NewIssuer(config.JWT.Secret, config.TokenTTL())

	mail := deps.Mailer
	if mail == nil {
		mail = mailer.New(config.Email, logger)
	}

	service := usecase.NewService(deps.Repo, issuer, mail, config, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, issuer, deps, config, logger),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	issuer token.Issuer,
	deps Deps,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(chimw.StripSlashes)

	r.Route("/api/v1", func(r chi.Router) {
		wireAuth(r, handler.Auth, deps.Redis, config, logger)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(issuer, deps.Repo.User, logger))

			wireUser(r, handler.User, logger)
			wireCatalog(r, "/categories", handler.Category, policy.ResourceCategory, logger)
			wireCatalog(r, "/genres", handler.Genre, policy.ResourceGenre, logger)
			wireTitle(r, handler.Title, logger)
			wireReview(r, handler.Review, handler.Comment)
		})
	})

	r.Get("/health", health(deps.DB, logger))

	return r
}

func health(db database.PgxIface, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Error("Health check failed", zap.Error(err))
			utils.ResponseServiceUnavailable(w, "database unavailable")
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
