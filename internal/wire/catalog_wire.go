package wire

import (
	"media-review/internal/adaptor"
	"media-review/internal/policy"
	"media-review/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireCatalog mounts list/create/delete for categories or genres.
func wireCatalog(r chi.Router, prefix string, h *adaptor.CatalogHandler, res policy.Resource, log *zap.Logger) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", h.List)
		r.With(middleware.Authorize(res, policy.ActionCreate, log)).Post("/", h.Create)
		r.With(middleware.Authorize(res, policy.ActionDelete, log)).Delete("/{slug}", h.Delete)
	})
}
