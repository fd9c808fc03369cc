package entity

import (
	"time"

	"github.com/google/uuid"
)

// Record carries the identity and audit columns shared by users and titles.
type Record struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewRecord stamps a fresh id and both timestamps with now.
func NewRecord(now time.Time) Record {
	return Record{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func (r *Record) Touch(now time.Time) {
	r.UpdatedAt = now
}
