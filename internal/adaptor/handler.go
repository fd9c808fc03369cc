package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"media-review/internal/dto/request"
	"media-review/internal/usecase"
	"media-review/pkg/apperror"
	"media-review/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Category *CatalogHandler
	Genre    *CatalogHandler
	Title    *TitleHandler
	Review   *ReviewHandler
	Comment  *CommentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Category: NewCatalogHandler(service.Category, "category", log),
		Genre:    NewCatalogHandler(service.Genre, "genre", log),
		Title:    NewTitleHandler(service.Title, log),
		Review:   NewReviewHandler(service.Review, log),
		Comment:  NewCommentHandler(service.Comment, log),
	}
}

// decodeJSON reads the request body into dst and answers 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// validateFull checks a PUT body before it is turned into a patch.
func validateFull(w http.ResponseWriter, req any) bool {
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

func parsePagination(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParsePositiveInt(query.Get("page"), 1),
		PerPage: utils.ParsePositiveInt(query.Get("per_page"), request.DefaultPerPage),
	}
}

// writeError renders a service error with the status of its kind.
func writeError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal("unexpected error", err)
	}

	switch appErr.Kind {
	case apperror.KindValidation, apperror.KindConflict:
		log.Warn(operation+" rejected",
			zap.String("operation", operation),
			zap.String("reason", appErr.Message),
			zap.String("fields", utils.FormatValidationErrors(appErr.Fields)))
		var fields any
		if len(appErr.Fields) > 0 {
			fields = appErr.Fields
		}
		utils.ResponseBadRequest(w, appErr.Message, fields)

	case apperror.KindUnauthorized:
		utils.ResponseUnauthorized(w, appErr.Message)

	case apperror.KindForbidden:
		log.Warn(operation+" forbidden", zap.String("operation", operation))
		utils.ResponseForbidden(w, appErr.Message)

	case apperror.KindNotFound:
		utils.ResponseNotFound(w, appErr.Message)

	case apperror.KindUnavailable:
		log.Error(operation+" failed - dependency unavailable", zap.Error(err), zap.String("operation", operation))
		utils.ResponseServiceUnavailable(w, appErr.Message)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
