package adaptor

import (
	"net/http"

	"media-review/internal/dto/request"
	"media-review/internal/usecase"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetAllUsers handles GET /api/v1/users?search=&page=&per_page= (admin)
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context(), r.URL.Query().Get("search"), parsePagination(r))
	if err != nil {
		writeError(w, h.log, err, "get all users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// CreateUser handles POST /api/v1/users (admin)
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "create user")
		return
	}

	utils.ResponseCreated(w, "User created", user)
}

// GetUser handles GET /api/v1/users/{username} (admin)
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// PatchUser handles PATCH /api/v1/users/{username} (admin)
func (h *UserHandler) PatchUser(w http.ResponseWriter, r *http.Request) {
	var req request.UserPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.updateUser(w, r, &req)
}

// ReplaceUser handles PUT /api/v1/users/{username} (admin)
func (h *UserHandler) ReplaceUser(w http.ResponseWriter, r *http.Request) {
	var req request.UserRequest
	if !decodeJSON(w, r, &req) || !validateFull(w, req) {
		return
	}

	patch := req.AsPatch()
	h.updateUser(w, r, &patch)
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request, req *request.UserPatchRequest) {
	p := utils.GetPrincipal(r.Context())
	user, err := h.service.UpdateUser(r.Context(), p, chi.URLParam(r, "username"), req)
	if err != nil {
		writeError(w, h.log, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "User updated", user)
}

// DeleteUser handles DELETE /api/v1/users/{username} (admin)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "username")); err != nil {
		writeError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseNoContent(w)
}

// GetProfile handles GET /api/v1/users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfile(r.Context(), utils.GetPrincipal(r.Context()))
	if err != nil {
		writeError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// PatchProfile handles PATCH /api/v1/users/me
func (h *UserHandler) PatchProfile(w http.ResponseWriter, r *http.Request) {
	var req request.UserPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.updateProfile(w, r, &req)
}

// ReplaceProfile handles PUT /api/v1/users/me
func (h *UserHandler) ReplaceProfile(w http.ResponseWriter, r *http.Request) {
	var req request.UserRequest
	if !decodeJSON(w, r, &req) || !validateFull(w, req) {
		return
	}

	patch := req.AsPatch()
	h.updateProfile(w, r, &patch)
}

func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request, req *request.UserPatchRequest) {
	user, err := h.service.UpdateProfile(r.Context(), utils.GetPrincipal(r.Context()), req)
	if err != nil {
		writeError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated", user)
}
