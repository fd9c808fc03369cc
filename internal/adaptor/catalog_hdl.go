package adaptor

import (
	"net/http"

	"media-review/internal/dto/request"
	"media-review/internal/usecase"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves /categories or /genres.
type CatalogHandler struct {
	service usecase.CatalogService
	kind    string
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, kind string, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		kind:    kind,
		log:     log.With(zap.String("handler", kind)),
	}
}

// List handles GET /api/v1/{categories|genres}?search=
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.GetAll(r.Context(), r.URL.Query().Get("search"), parsePagination(r))
	if err != nil {
		writeError(w, h.log, err, "list "+h.kind)
		return
	}

	utils.ResponseSuccess(w, "success", items)
}

// Create handles POST /api/v1/{categories|genres} (admin)
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CatalogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "create "+h.kind)
		return
	}

	utils.ResponseCreated(w, "success", item)
}

// Delete handles DELETE /api/v1/{categories|genres}/{slug} (admin)
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		writeError(w, h.log, err, "delete "+h.kind)
		return
	}

	utils.ResponseNoContent(w)
}
