package usecase

import (
	"errors"
	"strings"
	"time"

	"media-review/internal/data/repository"
	"media-review/pkg/apperror"
	"media-review/pkg/database"
	"media-review/pkg/mailer"
	"media-review/pkg/token"
	"media-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Category CatalogService
	Genre    CatalogService
	Title    TitleService
	Review   ReviewService
	Comment  CommentService
}

func NewService(
	repo *repository.Repository,
	issuer token.Issuer,
	mail mailer.Mailer,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, issuer, mail, config, log),
		User:     NewUserService(repo.User, log),
		Category: NewCatalogService(repo.Category, "category", log),
		Genre:    NewCatalogService(repo.Genre, "genre", log),
		Title:    NewTitleService(repo.Title, log),
		Review:   NewReviewService(repo, log),
		Comment:  NewCommentService(repo, log),
	}
}

// validate runs struct validation and reports failures as a validation error.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperror.Validation("validation failed", errs)
	}
	return nil
}

// parseID treats a malformed id like an unknown one.
func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NotFound(what + " not found")
	}
	return id, nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, database.ErrDuplicate)
}

func isForeignKey(err error) bool {
	return errors.Is(err, database.ErrForeignKey)
}

func isCheckViolation(err error) bool {
	return errors.Is(err, database.ErrCheckViolation)
}

// checkConflict reports a CHECK violation against the column named by the
// "<table>_<column>_check" constraint.
func checkConflict(err error, message string) error {
	name := strings.TrimSuffix(database.ConstraintName(err), "_check")
	_, column, ok := strings.Cut(name, "_")
	if !ok || column == "" {
		return apperror.Conflict(message, nil)
	}
	return apperror.Conflict(message, map[string]string{column: "rejected by the store"})
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
