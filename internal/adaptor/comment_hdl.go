package adaptor

import (
	"net/http"

	"media-review/internal/dto/request"
	"media-review/internal/usecase"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// GetComments handles GET .../reviews/{review_id}/comments
func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.GetReviewComments(r.Context(),
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), parsePagination(r))
	if err != nil {
		writeError(w, h.log, err, "get review comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

// GetComment handles GET .../comments/{comment_id}
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.GetComment(r.Context(),
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		writeError(w, h.log, err, "get comment")
		return
	}

	utils.ResponseSuccess(w, "success", comment)
}

// CreateComment handles POST .../reviews/{review_id}/comments (authenticated)
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req request.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p := utils.GetPrincipal(r.Context())
	comment, err := h.service.CreateComment(r.Context(), p,
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), &req)
	if err != nil {
		writeError(w, h.log, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "Comment created", comment)
}

func (h *CommentHandler) PatchComment(w http.ResponseWriter, r *http.Request) {
	var req request.CommentPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.update(w, r, &req)
}

func (h *CommentHandler) ReplaceComment(w http.ResponseWriter, r *http.Request) {
	var req request.CommentRequest
	if !decodeJSON(w, r, &req) || !validateFull(w, req) {
		return
	}

	patch := req.AsPatch()
	h.update(w, r, &patch)
}

func (h *CommentHandler) update(w http.ResponseWriter, r *http.Request, req *request.CommentPatchRequest) {
	p := utils.GetPrincipal(r.Context())
	comment, err := h.service.UpdateComment(r.Context(), p,
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), chi.URLParam(r, "comment_id"), req)
	if err != nil {
		writeError(w, h.log, err, "update comment")
		return
	}

	utils.ResponseSuccess(w, "Comment updated", comment)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	p := utils.GetPrincipal(r.Context())
	err := h.service.DeleteComment(r.Context(), p,
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		writeError(w, h.log, err, "delete comment")
		return
	}

	utils.ResponseNoContent(w)
}
