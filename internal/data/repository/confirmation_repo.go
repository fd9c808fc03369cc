package repository

import (
	"context"
	"fmt"

	"media-review/internal/data/entity"
	"media-review/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConfirmationRepository interface {
	Upsert(ctx context.Context, code *entity.ConfirmationCode) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error)
}

type confirmationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewConfirmationRepository(db database.PgxIface, log *zap.Logger) ConfirmationRepository {
	return &confirmationRepository{
		db:  db,
		log: log.With(zap.String("repository", "confirmation_code")),
	}
}

// Upsert replaces any previous code of the user.
func (r *confirmationRepository) Upsert(ctx context.Context, code *entity.ConfirmationCode) error {
	query := `
		INSERT INTO confirmation_codes (user_id, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET code_hash = EXCLUDED.code_hash,
		    expires_at = EXCLUDED.expires_at,
		    created_at = EXCLUDED.created_at
	`

	_, err := r.db.Exec(ctx, query,
		code.UserID,
		code.CodeHash,
		code.ExpiresAt,
		code.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to store confirmation code",
			zap.Error(err),
			zap.String("user_id", code.UserID.String()),
		)
		return fmt.Errorf("upsert confirmation code for %s: %w", code.UserID.String(), database.ClassifyError(err))
	}

	return nil
}

func (r *confirmationRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error) {
	query := `
		SELECT user_id, code_hash, expires_at, created_at
		FROM confirmation_codes
		WHERE user_id = $1
	`

	var code entity.ConfirmationCode
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&code.UserID,
		&code.CodeHash,
		&code.ExpiresAt,
		&code.CreatedAt,
	)

	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find confirmation code",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find confirmation code for %s: %w", userID.String(), err)
	}

	return &code, nil
}
