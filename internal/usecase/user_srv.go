package usecase

import (
	"context"

	"media-review/internal/data/entity"
	"media-review/internal/data/repository"
	"media-review/internal/dto/request"
	"media-review/internal/dto/response"
	"media-review/internal/policy"
	"media-review/pkg/apperror"
	"media-review/pkg/database"

	"go.uber.org/zap"
)

type UserService interface {
	GetAllUsers(ctx context.Context, search string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	CreateUser(ctx context.Context, req *request.UserRequest) (*response.UserResponse, error)
	GetUser(ctx context.Context, username string) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, p *policy.Principal, username string, req *request.UserPatchRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, username string) error

	GetProfile(ctx context.Context, p *policy.Principal) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, p *policy.Principal, req *request.UserPatchRequest) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetAllUsers(ctx context.Context, search string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	users, err := us.userRepo.FindAll(ctx, search, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperror.Internal("failed to list users", err)
	}

	total, err := us.userRepo.CountAll(ctx, search)
	if err != nil {
		return nil, apperror.Internal("failed to count users", err)
	}

	data := response.MapSlice(users, response.UserToResponse)
	return response.NewPaginatedResponse(data, page.Page, page.Limit(), total), nil
}

func (us *userService) CreateUser(ctx context.Context, req *request.UserRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	role := entity.RoleUser
	if req.Role != "" {
		parsed, err := parseRole(req.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	now := nowUTC()
	user := &entity.User{
		Record:    entity.NewRecord(now),
		Username:  req.Username,
		Email:     req.Email,
		Role:      role,
		Bio:       req.Bio,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := us.userRepo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, userConflict(err)
		}
		if isCheckViolation(err) {
			return nil, checkConflict(err, "user rejected")
		}
		return nil, apperror.Internal("failed to create user", err)
	}

	us.log.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) GetUser(ctx context.Context, username string) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateUser(ctx context.Context, p *policy.Principal, username string, req *request.UserPatchRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	return us.save(ctx, p, user, req)
}

func (us *userService) DeleteUser(ctx context.Context, username string) error {
	user, err := us.findUser(ctx, username)
	if err != nil {
		return err
	}

	if err := us.userRepo.Delete(ctx, user.ID); err != nil {
		if isNotFound(err) {
			return apperror.NotFound("user not found")
		}
		return apperror.Internal("failed to delete user", err)
	}

	return nil
}

func (us *userService) GetProfile(ctx context.Context, p *policy.Principal) (*response.UserResponse, error) {
	if err := policy.Check(p, policy.ResourceProfile, policy.ActionRead); err != nil {
		return nil, err
	}

	return us.GetUser(ctx, p.Username)
}

// UpdateProfile edits the caller's own account. A role change is ignored
// unless the caller is an admin.
func (us *userService) UpdateProfile(ctx context.Context, p *policy.Principal, req *request.UserPatchRequest) (*response.UserResponse, error) {
	if err := policy.Check(p, policy.ResourceProfile, policy.ActionUpdate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, apperror.Internal("failed to find user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	return us.save(ctx, p, user, req)
}

func (us *userService) findUser(ctx context.Context, username string) (*entity.User, error) {
	user, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Internal("failed to find user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}

func (us *userService) save(ctx context.Context, p *policy.Principal, user *entity.User, req *request.UserPatchRequest) (*response.UserResponse, error) {
	if err := applyUserPatch(user, req, policy.CanChangeRole(p)); err != nil {
		return nil, err
	}
	user.Touch(nowUTC())

	if err := us.userRepo.Update(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, userConflict(err)
		}
		if isNotFound(err) {
			return nil, apperror.NotFound("user not found")
		}
		if isCheckViolation(err) {
			return nil, checkConflict(err, "user rejected")
		}
		return nil, apperror.Internal("failed to update user", err)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func applyUserPatch(user *entity.User, req *request.UserPatchRequest, canChangeRole bool) error {
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil && canChangeRole {
		role, err := parseRole(*req.Role)
		if err != nil {
			return err
		}
		user.Role = role
	}
	return nil
}

func parseRole(value string) (entity.UserRole, error) {
	role := entity.UserRole(value)
	if !role.Valid() {
		return "", apperror.Validation("invalid role", map[string]string{"role": "must be one of user, moderator, admin"})
	}
	return role, nil
}

func userConflict(err error) error {
	field := "username"
	if database.ConstraintName(err) == "users_email_key" {
		field = "email"
	}
	return apperror.Conflict("user already exists", map[string]string{field: "already in use"})
}
