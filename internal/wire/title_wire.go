package wire

import (
	"media-review/internal/adaptor"
	"media-review/internal/policy"
	"media-review/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTitle(r chi.Router, h *adaptor.TitleHandler, log *zap.Logger) {
	// public
	r.Get("/titles", h.GetTitles)
	r.Get("/titles/{title_id}", h.GetTitle)

	// admin
	r.With(middleware.Authorize(policy.ResourceTitle, policy.ActionCreate, log)).Post("/titles", h.CreateTitle)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authorize(policy.ResourceTitle, policy.ActionUpdate, log))
		r.Patch("/titles/{title_id}", h.PatchTitle)
		r.Put("/titles/{title_id}", h.ReplaceTitle)
	})
	r.With(middleware.Authorize(policy.ResourceTitle, policy.ActionDelete, log)).Delete("/titles/{title_id}", h.DeleteTitle)
}
