package usecase

import (
	"context"

	"media-review/internal/data/entity"
	"media-review/internal/data/repository"
	"media-review/internal/dto/request"
	"media-review/internal/dto/response"
	"media-review/pkg/apperror"

	"go.uber.org/zap"
)

// CatalogService manages categories or genres, depending on its repository.
type CatalogService interface {
	GetAll(ctx context.Context, search string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.CatalogResponse], error)
	Create(ctx context.Context, req *request.CatalogRequest) (*response.CatalogResponse, error)
	Delete(ctx context.Context, slug string) error
}

type catalogService struct {
	repo repository.CatalogRepository
	kind string
	log  *zap.Logger
}

func NewCatalogService(repo repository.CatalogRepository, kind string, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		kind: kind,
		log:  log.With(zap.String("service", kind)),
	}
}

func (s *catalogService) GetAll(ctx context.Context, search string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.CatalogResponse], error) {
	items, err := s.repo.FindAll(ctx, search, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperror.Internal("failed to list "+s.kind, err)
	}

	total, err := s.repo.CountAll(ctx, search)
	if err != nil {
		return nil, apperror.Internal("failed to count "+s.kind, err)
	}

	data := response.MapSlice(items, response.CatalogToResponse)
	return response.NewPaginatedResponse(data, page.Page, page.Limit(), total), nil
}

func (s *catalogService) Create(ctx context.Context, req *request.CatalogRequest) (*response.CatalogResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	item := &entity.Catalog{Slug: req.Slug, Name: req.Name}
	if err := s.repo.Create(ctx, item); err != nil {
		if isDuplicate(err) {
			return nil, apperror.Conflict(s.kind+" with this slug already exists",
				map[string]string{"slug": "already exists"})
		}
		return nil, apperror.Internal("failed to create "+s.kind, err)
	}

	s.log.Info("Entry created", zap.String("slug", item.Slug))

	resp := response.CatalogToResponse(item)
	return &resp, nil
}

func (s *catalogService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.Delete(ctx, slug); err != nil {
		if isNotFound(err) {
			return apperror.NotFound(s.kind + " not found")
		}
		return apperror.Internal("failed to delete "+s.kind, err)
	}
	return nil
}
