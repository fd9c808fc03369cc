package usecase

import (
	"context"

	"media-review/internal/data/entity"
	"media-review/internal/data/repository"
	"media-review/internal/dto/request"
	"media-review/internal/dto/response"
	"media-review/internal/policy"
	"media-review/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errDuplicateReview = apperror.Conflict("you have already reviewed this title", nil)

type ReviewService interface {
	GetTitleReviews(ctx context.Context, titleID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error)
	CreateReview(ctx context.Context, p *policy.Principal, titleID string, req *request.ReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, p *policy.Principal, titleID, reviewID string, req *request.ReviewPatchRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, p *policy.Principal, titleID, reviewID string) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) GetTitleReviews(ctx context.Context, titleID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	tID, err := resolveTitle(ctx, s.repo, titleID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByTitleID(ctx, tID, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperror.Internal("failed to list reviews", err)
	}

	total, err := s.repo.Review.CountByTitleID(ctx, tID)
	if err != nil {
		return nil, apperror.Internal("failed to count reviews", err)
	}

	data := response.MapSlice(reviews, response.ReviewToResponse)
	return response.NewPaginatedResponse(data, page.Page, page.Limit(), total), nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error) {
	review, err := resolveReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

// CreateReview posts the caller's review. Each user reviews a title at most once.
func (s *reviewService) CreateReview(ctx context.Context, p *policy.Principal, titleID string, req *request.ReviewRequest) (*response.ReviewResponse, error) {
	if err := policy.Check(p, policy.ResourceReview, policy.ActionCreate); err != nil {
		return nil, err
	}

	tID, err := resolveTitle(ctx, s.repo, titleID)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Review.FindByTitleAndAuthor(ctx, tID, p.UserID)
	if err != nil {
		return nil, apperror.Internal("failed to check existing review", err)
	}
	if existing != nil {
		return nil, errDuplicateReview
	}

	review := &entity.Review{
		ID:             uuid.New(),
		TitleID:        tID,
		AuthorID:       p.UserID,
		AuthorUsername: p.Username,
		Text:           req.Text,
		Score:          req.Score,
		PubDate:        nowUTC(),
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if isDuplicate(err) {
			return nil, errDuplicateReview
		}
		if isForeignKey(err) {
			return nil, apperror.NotFound("title not found")
		}
		if isCheckViolation(err) {
			return nil, checkConflict(err, "review rejected")
		}
		return nil, apperror.Internal("failed to create review", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("title_id", tID.String()),
		zap.String("author", p.Username))

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, p *policy.Principal, titleID, reviewID string, req *request.ReviewPatchRequest) (*response.ReviewResponse, error) {
	review, err := resolveReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := policy.CheckOwner(p, policy.ResourceReview, policy.ActionUpdate, review.AuthorID); err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("review not found")
		}
		if isCheckViolation(err) {
			return nil, checkConflict(err, "review rejected")
		}
		return nil, apperror.Internal("failed to update review", err)
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, p *policy.Principal, titleID, reviewID string) error {
	review, err := resolveReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := policy.CheckOwner(p, policy.ResourceReview, policy.ActionDelete, review.AuthorID); err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		if isNotFound(err) {
			return apperror.NotFound("review not found")
		}
		return apperror.Internal("failed to delete review", err)
	}

	s.log.Info("Review deleted",
		zap.String("review_id", review.ID.String()),
		zap.String("by", p.Username))
	return nil
}

// resolveTitle checks that the title in the path exists.
func resolveTitle(ctx context.Context, repo *repository.Repository, titleID string) (uuid.UUID, error) {
	id, err := parseID(titleID, "title")
	if err != nil {
		return uuid.Nil, err
	}

	ok, err := repo.Title.Exists(ctx, id)
	if err != nil {
		return uuid.Nil, apperror.Internal("failed to find title", err)
	}
	if !ok {
		return uuid.Nil, apperror.NotFound("title not found")
	}
	return id, nil
}

// resolveReview loads a review that must belong to the title in the path.
func resolveReview(ctx context.Context, repo *repository.Repository, titleID, reviewID string) (*entity.Review, error) {
	tID, err := resolveTitle(ctx, repo, titleID)
	if err != nil {
		return nil, err
	}

	rID, err := parseID(reviewID, "review")
	if err != nil {
		return nil, err
	}

	review, err := repo.Review.FindByID(ctx, tID, rID)
	if err != nil {
		return nil, apperror.Internal("failed to find review", err)
	}
	if review == nil {
		return nil, apperror.NotFound("review not found")
	}
	return review, nil
}
