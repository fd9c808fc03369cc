package entity

import (
	"github.com/google/uuid"
)

// GenreTitle links a title to one of its genres.
type GenreTitle struct {
	ID        uuid.UUID `db:"id"`
	GenreSlug string    `db:"genre_slug"`
	TitleID   uuid.UUID `db:"title_id"`
}
