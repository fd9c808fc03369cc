package repository

import (
	"errors"

	"media-review/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrNotFound is returned by updates and deletes that matched no row.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	User         UserRepository
	Confirmation ConfirmationRepository
	Category     CatalogRepository
	Genre        CatalogRepository
	Title        TitleRepository
	Review       ReviewRepository
	Comment      CommentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Confirmation: NewConfirmationRepository(db, log),
		Category:     NewCategoryRepository(db, log),
		Genre:        NewGenreRepository(db, log),
		Title:        NewTitleRepository(db, log),
		Review:       NewReviewRepository(db, log),
		Comment:      NewCommentRepository(db, log),
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// escapeLike quotes LIKE wildcards in a user-supplied search term.
func escapeLike(s string) string {
	r := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(r)
}
