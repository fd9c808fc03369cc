package adaptor

import (
	"net/http"

	"media-review/internal/dto/request"
	"media-review/internal/usecase"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// GetReviews handles GET /api/v1/titles/{title_id}/reviews
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.GetTitleReviews(r.Context(), chi.URLParam(r, "title_id"), parsePagination(r))
	if err != nil {
		writeError(w, h.log, err, "get title reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetReview handles GET /api/v1/titles/{title_id}/reviews/{review_id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.GetReview(r.Context(), chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"))
	if err != nil {
		writeError(w, h.log, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// CreateReview handles POST /api/v1/titles/{title_id}/reviews (authenticated)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req request.ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p := utils.GetPrincipal(r.Context())
	review, err := h.service.CreateReview(r.Context(), p, chi.URLParam(r, "title_id"), &req)
	if err != nil {
		writeError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created", review)
}

// PatchReview handles PATCH /api/v1/titles/{title_id}/reviews/{review_id} (author, moderator, admin)
func (h *ReviewHandler) PatchReview(w http.ResponseWriter, r *http.Request) {
	var req request.ReviewPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.update(w, r, &req)
}

// ReplaceReview handles PUT /api/v1/titles/{title_id}/reviews/{review_id} (author, moderator, admin)
func (h *ReviewHandler) ReplaceReview(w http.ResponseWriter, r *http.Request) {
	var req request.ReviewRequest
	if !decodeJSON(w, r, &req) || !validateFull(w, req) {
		return
	}

	patch := req.AsPatch()
	h.update(w, r, &patch)
}

func (h *ReviewHandler) update(w http.ResponseWriter, r *http.Request, req *request.ReviewPatchRequest) {
	p := utils.GetPrincipal(r.Context())
	review, err := h.service.UpdateReview(r.Context(), p, chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), req)
	if err != nil {
		writeError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated", review)
}

// DeleteReview handles DELETE /api/v1/titles/{title_id}/reviews/{review_id} (author, moderator, admin)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	p := utils.GetPrincipal(r.Context())
	if err := h.service.DeleteReview(r.Context(), p, chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id")); err != nil {
		writeError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseNoContent(w)
}
