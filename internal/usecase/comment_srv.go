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

type CommentService interface {
	GetReviewComments(ctx context.Context, titleID, reviewID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	GetComment(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error)
	CreateComment(ctx context.Context, p *policy.Principal, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error)
	UpdateComment(ctx context.Context, p *policy.Principal, titleID, reviewID, commentID string, req *request.CommentPatchRequest) (*response.CommentResponse, error)
	DeleteComment(ctx context.Context, p *policy.Principal, titleID, reviewID, commentID string) error
}

type commentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) GetReviewComments(ctx context.Context, titleID, reviewID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	review, err := resolveReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.FindByReviewID(ctx, review.ID, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperror.Internal("failed to list comments", err)
	}

	total, err := s.repo.Comment.CountByReviewID(ctx, review.ID)
	if err != nil {
		return nil, apperror.Internal("failed to count comments", err)
	}

	data := response.MapSlice(comments, response.CommentToResponse)
	return response.NewPaginatedResponse(data, page.Page, page.Limit(), total), nil
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error) {
	comment, err := s.resolve(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) CreateComment(ctx context.Context, p *policy.Principal, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error) {
	if err := policy.Check(p, policy.ResourceComment, policy.ActionCreate); err != nil {
		return nil, err
	}

	review, err := resolveReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		ID:             uuid.New(),
		ReviewID:       review.ID,
		AuthorID:       p.UserID,
		AuthorUsername: p.Username,
		Text:           req.Text,
		PubDate:        nowUTC(),
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		if isForeignKey(err) {
			return nil, apperror.NotFound("review not found")
		}
		if isCheckViolation(err) {
			return nil, checkConflict(err, "comment rejected")
		}
		return nil, apperror.Internal("failed to create comment", err)
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) UpdateComment(ctx context.Context, p *policy.Principal, titleID, reviewID, commentID string, req *request.CommentPatchRequest) (*response.CommentResponse, error) {
	comment, err := s.resolve(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := policy.CheckOwner(p, policy.ResourceComment, policy.ActionUpdate, comment.AuthorID); err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("comment not found")
		}
		if isCheckViolation(err) {
			return nil, checkConflict(err, "comment rejected")
		}
		return nil, apperror.Internal("failed to update comment", err)
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, p *policy.Principal, titleID, reviewID, commentID string) error {
	comment, err := s.resolve(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := policy.CheckOwner(p, policy.ResourceComment, policy.ActionDelete, comment.AuthorID); err != nil {
		return err
	}

	if err := s.repo.Comment.Delete(ctx, comment.ID); err != nil {
		if isNotFound(err) {
			return apperror.NotFound("comment not found")
		}
		return apperror.Internal("failed to delete comment", err)
	}
	return nil
}

func (s *commentService) resolve(ctx context.Context, titleID, reviewID, commentID string) (*entity.Comment, error) {
	review, err := resolveReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	cID, err := parseID(commentID, "comment")
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, review.ID, cID)
	if err != nil {
		return nil, apperror.Internal("failed to find comment", err)
	}
	if comment == nil {
		return nil, apperror.NotFound("comment not found")
	}
	return comment, nil
}
