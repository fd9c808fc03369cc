package adaptor

import (
	"net/http"
	"strconv"

	"media-review/internal/data/repository"
	"media-review/internal/dto/request"
	"media-review/internal/usecase"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TitleHandler struct {
	service usecase.TitleService
	log     *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		log:     log.With(zap.String("handler", "title")),
	}
}

// GetTitles handles GET /api/v1/titles?category=&genre=&name=&year=
func (h *TitleHandler) GetTitles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.TitleFilter{
		Category: query.Get("category"),
		Genre:    query.Get("genre"),
		Name:     query.Get("name"),
	}

	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Validation failed", map[string]string{"year": "must be a whole number"})
			return
		}
		filter.Year = &year
	}

	titles, err := h.service.GetAll(r.Context(), filter, parsePagination(r))
	if err != nil {
		writeError(w, h.log, err, "get titles")
		return
	}

	utils.ResponseSuccess(w, "success", titles)
}

// GetTitle handles GET /api/v1/titles/{title_id}
func (h *TitleHandler) GetTitle(w http.ResponseWriter, r *http.Request) {
	title, err := h.service.GetByID(r.Context(), chi.URLParam(r, "title_id"))
	if err != nil {
		writeError(w, h.log, err, "get title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// CreateTitle handles POST /api/v1/titles (admin)
func (h *TitleHandler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.TitleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "create title")
		return
	}

	utils.ResponseCreated(w, "Title created", title)
}

// PatchTitle handles PATCH /api/v1/titles/{title_id} (admin)
func (h *TitleHandler) PatchTitle(w http.ResponseWriter, r *http.Request) {
	var req request.TitlePatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.update(w, r, &req)
}

// ReplaceTitle handles PUT /api/v1/titles/{title_id} (admin)
func (h *TitleHandler) ReplaceTitle(w http.ResponseWriter, r *http.Request) {
	var req request.TitleRequest
	if !decodeJSON(w, r, &req) || !validateFull(w, req) {
		return
	}

	patch := req.AsPatch()
	h.update(w, r, &patch)
}

func (h *TitleHandler) update(w http.ResponseWriter, r *http.Request, req *request.TitlePatchRequest) {
	title, err := h.service.Update(r.Context(), chi.URLParam(r, "title_id"), req)
	if err != nil {
		writeError(w, h.log, err, "update title")
		return
	}

	utils.ResponseSuccess(w, "Title updated", title)
}

// DeleteTitle handles DELETE /api/v1/titles/{title_id} (admin)
func (h *TitleHandler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "title_id")); err != nil {
		writeError(w, h.log, err, "delete title")
		return
	}

	utils.ResponseNoContent(w)
}
