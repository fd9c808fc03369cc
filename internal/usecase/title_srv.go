package usecase

import (
	"context"

	"media-review/internal/data/entity"
	"media-review/internal/data/repository"
	"media-review/internal/dto/request"
	"media-review/internal/dto/response"
	"media-review/pkg/apperror"
	"media-review/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TitleService interface {
	GetAll(ctx context.Context, filter repository.TitleFilter, page *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error)
	GetByID(ctx context.Context, id string) (*response.TitleResponse, error)
	Create(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error)
	Update(ctx context.Context, id string, req *request.TitlePatchRequest) (*response.TitleResponse, error)
	Delete(ctx context.Context, id string) error
}

type titleService struct {
	titleRepo repository.TitleRepository
	log       *zap.Logger
}

func NewTitleService(titleRepo repository.TitleRepository, log *zap.Logger) TitleService {
	return &titleService{
		titleRepo: titleRepo,
		log:       log.With(zap.String("service", "title")),
	}
}

func (s *titleService) GetAll(ctx context.Context, filter repository.TitleFilter, page *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error) {
	titles, err := s.titleRepo.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperror.Internal("failed to list titles", err)
	}

	total, err := s.titleRepo.CountAll(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("failed to count titles", err)
	}

	data := response.MapSlice(titles, response.TitleToResponse)
	return response.NewPaginatedResponse(data, page.Page, page.Limit(), total), nil
}

func (s *titleService) GetByID(ctx context.Context, id string) (*response.TitleResponse, error) {
	titleID, err := parseID(id, "title")
	if err != nil {
		return nil, err
	}

	title, err := s.load(ctx, titleID)
	if err != nil {
		return nil, err
	}

	resp := response.TitleToResponse(title)
	return &resp, nil
}

func (s *titleService) Create(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := nowUTC()
	title := &entity.Title{
		Record:       entity.NewRecord(now),
		Name:         req.Name,
		Year:         req.Year,
		Description:  req.Description,
		CategorySlug: nonEmpty(req.Category),
	}

	if err := s.titleRepo.Create(ctx, title, req.Genre); err != nil {
		return nil, titleWriteError(err, "failed to create title")
	}

	s.log.Info("Title created", zap.String("title_id", title.ID.String()), zap.String("name", title.Name))

	return s.GetByID(ctx, title.ID.String())
}

func (s *titleService) Update(ctx context.Context, id string, req *request.TitlePatchRequest) (*response.TitleResponse, error) {
	titleID, err := parseID(id, "title")
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	current, err := s.load(ctx, titleID)
	if err != nil {
		return nil, err
	}

	title := current.Title
	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		title.CategorySlug = nonEmpty(req.Category)
	}
	title.Touch(nowUTC())

	genres := make([]string, 0, len(current.Genres))
	if req.Genre != nil {
		genres = append(genres, *req.Genre...)
	} else {
		for _, g := range current.Genres {
			genres = append(genres, g.Slug)
		}
	}

	if err := s.titleRepo.Update(ctx, &title, genres); err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("title not found")
		}
		return nil, titleWriteError(err, "failed to update title")
	}

	return s.GetByID(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id string) error {
	titleID, err := parseID(id, "title")
	if err != nil {
		return err
	}

	if err := s.titleRepo.Delete(ctx, titleID); err != nil {
		if isNotFound(err) {
			return apperror.NotFound("title not found")
		}
		return apperror.Internal("failed to delete title", err)
	}
	return nil
}

func (s *titleService) load(ctx context.Context, id uuid.UUID) (*entity.TitleDetail, error) {
	title, err := s.titleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to find title", err)
	}
	if title == nil {
		return nil, apperror.NotFound("title not found")
	}
	return title, nil
}

// titleWriteError names the unknown category or genre behind a foreign key
// violation.
func titleWriteError(err error, msg string) error {
	if !isForeignKey(err) {
		return apperror.Internal(msg, err)
	}

	field := "genre"
	if database.ConstraintName(err) == "fk_titles_category" {
		field = "category"
	}
	return apperror.Conflict("referenced "+field+" does not exist",
		map[string]string{field: "no " + field + " with this slug"})
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
