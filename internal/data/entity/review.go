package entity

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID             uuid.UUID `db:"id"`
	TitleID        uuid.UUID `db:"title_id"`
	AuthorID       uuid.UUID `db:"author_id"`
	AuthorUsername string    `db:"username"`
	Text           string    `db:"text"`
	Score          int       `db:"score"` // 1-10
	PubDate        time.Time `db:"pub_date"`
}
