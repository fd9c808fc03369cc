package repository

import (
	"context"
	"fmt"

	"media-review/internal/data/entity"
	"media-review/pkg/database"

	"go.uber.org/zap"
)

// CatalogRepository serves the slug-keyed tables (categories and genres).
type CatalogRepository interface {
	Create(ctx context.Context, item *entity.Catalog) error
	FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Catalog, error)
	CountAll(ctx context.Context, search string) (int64, error)
	Delete(ctx context.Context, slug string) error
}

type catalogRepository struct {
	db    database.PgxIface
	log   *zap.Logger
	table string
}

func NewCategoryRepository(db database.PgxIface, log *zap.Logger) CatalogRepository {
	return &catalogRepository{
		db:    db,
		log:   log.With(zap.String("repository", "category")),
		table: "categories",
	}
}

func NewGenreRepository(db database.PgxIface, log *zap.Logger) CatalogRepository {
	return &catalogRepository{
		db:    db,
		log:   log.With(zap.String("repository", "genre")),
		table: "genres",
	}
}

func (r *catalogRepository) Create(ctx context.Context, item *entity.Catalog) error {
	query := `INSERT INTO ` + r.table + ` (slug, name) VALUES ($1, $2)`

	_, err := r.db.Exec(ctx, query, item.Slug, item.Name)
	if err != nil {
		r.log.Error("Failed to create entry",
			zap.Error(err),
			zap.String("slug", item.Slug),
		)
		return fmt.Errorf("create %s %s: %w", r.table, item.Slug, database.ClassifyError(err))
	}

	return nil
}

func (r *catalogRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Catalog, error) {
	query := `
		SELECT slug, name
		FROM ` + r.table + `
		WHERE ($1::text = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name, slug
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, escapeLike(search), limit, offset)
	if err != nil {
		r.log.Error("Failed to list entries",
			zap.Error(err),
			zap.String("search", search),
		)
		return nil, fmt.Errorf("find all %s: %w", r.table, err)
	}
	defer rows.Close()

	items := make([]*entity.Catalog, 0)
	for rows.Next() {
		var item entity.Catalog
		if err := rows.Scan(&item.Slug, &item.Name); err != nil {
			r.log.Error("Failed to scan row", zap.Error(err))
			return nil, fmt.Errorf("scan %s row: %w", r.table, err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", r.table, err)
	}

	return items, nil
}

func (r *catalogRepository) CountAll(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM ` + r.table + ` WHERE ($1::text = '' OR name ILIKE '%' || $1 || '%')`

	var total int64
	if err := r.db.QueryRow(ctx, query, escapeLike(search)).Scan(&total); err != nil {
		r.log.Error("Failed to count entries", zap.Error(err))
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}

	return total, nil
}

func (r *catalogRepository) Delete(ctx context.Context, slug string) error {
	query := `DELETE FROM ` + r.table + ` WHERE slug = $1`

	result, err := r.db.Exec(ctx, query, slug)
	if err != nil {
		r.log.Error("Failed to delete entry",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return fmt.Errorf("delete %s %s: %w", r.table, slug, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete %s %s: %w", r.table, slug, ErrNotFound)
	}

	r.log.Info("Entry deleted", zap.String("slug", slug))
	return nil
}
