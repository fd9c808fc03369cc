package repository

import (
	"context"
	"fmt"
	"strings"

	"media-review/internal/data/entity"
	"media-review/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TitleFilter narrows title listings. Empty fields are ignored.
type TitleFilter struct {
	Category string
	Genre    string
	Name     string
	Year     *int
}

type TitleRepository interface {
	Create(ctx context.Context, title *entity.Title, genres []string) error
	Update(ctx context.Context, title *entity.Title, genres []string) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TitleDetail, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.TitleDetail, error)
	CountAll(ctx context.Context, filter TitleFilter) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type titleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTitleRepository(db database.PgxIface, log *zap.Logger) TitleRepository {
	return &titleRepository{
		db:  db,
		log: log.With(zap.String("repository", "title")),
	}
}

const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, t.category_slug,
	       t.created_at, t.updated_at, c.name,
	       (SELECT AVG(rv.score)::float8 FROM reviews rv WHERE rv.title_id = t.id) AS rating
	FROM titles t
	LEFT JOIN categories c ON c.slug = t.category_slug
`

func scanTitle(row scanner) (*entity.TitleDetail, error) {
	var (
		t            entity.TitleDetail
		categoryName *string
	)
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Year,
		&t.Description,
		&t.CategorySlug,
		&t.CreatedAt,
		&t.UpdatedAt,
		&categoryName,
		&t.Rating,
	)
	if err != nil {
		return nil, err
	}
	if t.CategorySlug != nil && categoryName != nil {
		t.Category = &entity.Category{Slug: *t.CategorySlug, Name: *categoryName}
	}
	t.Genres = make([]*entity.Genre, 0)
	return &t, nil
}

// Create inserts the title and its genre links in one transaction.
func (r *titleRepository) Create(ctx context.Context, title *entity.Title, genres []string) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO titles (id, name, year, description, category_slug, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.Exec(ctx, query,
			title.ID,
			title.Name,
			title.Year,
			title.Description,
			title.CategorySlug,
			title.CreatedAt,
			title.UpdatedAt,
		); err != nil {
			return err
		}

		return insertGenreLinks(ctx, tx, title.ID, genres)
	})

	if err != nil {
		r.log.Error("Failed to create title",
			zap.Error(err),
			zap.String("name", title.Name),
		)
		return fmt.Errorf("create title %s: %w", title.Name, database.ClassifyError(err))
	}

	return nil
}

// Update rewrites the title row and replaces its genre links.
func (r *titleRepository) Update(ctx context.Context, title *entity.Title, genres []string) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			UPDATE titles
			SET name = $2, year = $3, description = $4, category_slug = $5, updated_at = $6
			WHERE id = $1
		`
		result, err := tx.Exec(ctx, query,
			title.ID,
			title.Name,
			title.Year,
			title.Description,
			title.CategorySlug,
			title.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM genre_titles WHERE title_id = $1`, title.ID); err != nil {
			return err
		}

		return insertGenreLinks(ctx, tx, title.ID, genres)
	})

	if err != nil {
		r.log.Error("Failed to update title",
			zap.Error(err),
			zap.String("title_id", title.ID.String()),
		)
		return fmt.Errorf("update title %s: %w", title.ID.String(), database.ClassifyError(err))
	}

	return nil
}

func insertGenreLinks(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, genres []string) error {
	if len(genres) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, slug := range genres {
		link := entity.GenreTitle{ID: uuid.New(), GenreSlug: slug, TitleID: titleID}
		batch.Queue(
			`INSERT INTO genre_titles (id, genre_slug, title_id) VALUES ($1, $2, $3)
			 ON CONFLICT (genre_slug, title_id) DO NOTHING`,
			link.ID, link.GenreSlug, link.TitleID,
		)
	}

	return tx.SendBatch(ctx, batch).Close()
}

func (r *titleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TitleDetail, error) {
	query := titleSelect + ` WHERE t.id = $1`

	title, err := scanTitle(r.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find title by ID",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return nil, fmt.Errorf("find title by ID %s: %w", id.String(), err)
	}

	if err := r.attachGenres(ctx, []*entity.TitleDetail{title}); err != nil {
		return nil, err
	}

	return title, nil
}

func (r *titleRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM titles WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check title", zap.Error(err), zap.String("title_id", id.String()))
		return false, fmt.Errorf("check title %s: %w", id.String(), err)
	}
	return exists, nil
}

// buildFilter renders the WHERE clause for f starting at placeholder $1.
func buildFilter(f TitleFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("t.category_slug = $%d", len(args)))
	}
	if f.Genre != "" {
		args = append(args, f.Genre)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM genre_titles gt WHERE gt.title_id = t.id AND gt.genre_slug = $%d)", len(args)))
	}
	if f.Name != "" {
		args = append(args, escapeLike(f.Name))
		conds = append(conds, fmt.Sprintf("t.name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if f.Year != nil {
		args = append(args, *f.Year)
		conds = append(conds, fmt.Sprintf("t.year = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *titleRepository) FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.TitleDetail, error) {
	where, args := buildFilter(filter)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(titleSelect)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.name, t.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all titles",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("find all titles: %w", err)
	}
	defer rows.Close()

	titles := make([]*entity.TitleDetail, 0)
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			r.log.Error("Failed to scan title row", zap.Error(err))
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate title rows: %w", err)
	}
	rows.Close()

	if err := r.attachGenres(ctx, titles); err != nil {
		return nil, err
	}

	r.log.Debug("Titles found",
		zap.Int("count", len(titles)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return titles, nil
}

func (r *titleRepository) CountAll(ctx context.Context, filter TitleFilter) (int64, error) {
	where, args := buildFilter(filter)
	query := `SELECT COUNT(*) FROM titles t` + where

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count titles", zap.Error(err))
		return 0, fmt.Errorf("count titles: %w", err)
	}

	return total, nil
}

// attachGenres loads the genres of all titles with a single query.
func (r *titleRepository) attachGenres(ctx context.Context, titles []*entity.TitleDetail) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(titles))
	byID := make(map[uuid.UUID]*entity.TitleDetail, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}

	query := `
		SELECT gt.title_id, g.slug, g.name
		FROM genre_titles gt
		INNER JOIN genres g ON g.slug = gt.genre_slug
		WHERE gt.title_id = ANY($1)
		ORDER BY g.name, g.slug
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to load title genres", zap.Error(err))
		return fmt.Errorf("find genres by title ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			titleID uuid.UUID
			genre   entity.Genre
		)
		if err := rows.Scan(&titleID, &genre.Slug, &genre.Name); err != nil {
			r.log.Error("Failed to scan genre row", zap.Error(err))
			return fmt.Errorf("scan genre row: %w", err)
		}
		if t, ok := byID[titleID]; ok {
			t.Genres = append(t.Genres, &genre)
		}
	}

	return rows.Err()
}

// Delete removes the title together with its reviews and their comments.
func (r *titleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete title",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return fmt.Errorf("delete title %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete title %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Title deleted", zap.String("title_id", id.String()))
	return nil
}
