package usecase

import (
	"context"
	"fmt"
	"time"

	"media-review/internal/data/entity"
	"media-review/internal/data/repository"
	"media-review/internal/dto/request"
	"media-review/internal/dto/response"
	"media-review/pkg/apperror"
	"media-review/pkg/mailer"
	"media-review/pkg/token"
	"media-review/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const confirmationSubject = "Your confirmation code"

type AuthService interface {
	SignUp(ctx context.Context, req *request.SignUpRequest) (*response.SignUpResponse, error)
	ObtainToken(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
}

type authService struct {
	repo   *repository.Repository // users and confirmation codes
	issuer token.Issuer
	mailer mailer.Mailer
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	issuer token.Issuer,
	mail mailer.Mailer,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		issuer: issuer,
		mailer: mail,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    nowUTC,
	}
}

// SignUp registers (username, email) and mails a fresh confirmation code.
// Repeating a signup with the exact same pair only issues a new code.
func (s *authService) SignUp(ctx context.Context, req *request.SignUpRequest) (*response.SignUpResponse, error) {
	// 1. Validate
	if err := validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Resolve existing accounts
	existing, err := s.repo.User.FindByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, apperror.Internal("failed to check existing users", err)
	}

	user, err := matchSignup(existing, req)
	if err != nil {
		s.log.Warn("Signup conflict",
			zap.String("username", req.Username),
			zap.String("email", req.Email))
		return nil, err
	}

	// 3. Create the account if it is new
	if user == nil {
		now := s.now()
		user = &entity.User{
			Record:   entity.NewRecord(now),
			Username: req.Username,
			Email:    req.Email,
			Role:     entity.RoleUser,
		}

		created, err := s.createSignupUser(ctx, user, req)
		if err != nil {
			return nil, err
		}
		user = created
	}

	// 4. Issue and deliver the code
	code, err := s.issueCode(ctx, user)
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Hello %s,\n\nYour confirmation code is: %s\nIt expires in %d minutes.\n",
		user.Username, code, s.config.OTP.ExpiryMinutes)
	if err := s.mailer.Send(ctx, user.Email, confirmationSubject, body); err != nil {
		s.log.Error("Failed to deliver confirmation code",
			zap.Error(err),
			zap.String("email", user.Email))
		return nil, apperror.Unavailable("could not deliver the confirmation code, try again later", err)
	}

	return &response.SignUpResponse{Username: user.Username, Email: user.Email}, nil
}

// createSignupUser inserts user. A concurrent signup for the same pair can
// win the insert; the stored account is then matched again and reused.
func (s *authService) createSignupUser(ctx context.Context, user *entity.User, req *request.SignUpRequest) (*entity.User, error) {
	err := s.repo.User.Create(ctx, user)
	if err == nil {
		s.log.Info("User signed up",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username))
		return user, nil
	}
	if !isDuplicate(err) {
		return nil, apperror.Internal("failed to create account", err)
	}

	existing, lookupErr := s.repo.User.FindByUsernameOrEmail(ctx, req.Username, req.Email)
	if lookupErr != nil {
		return nil, apperror.Internal("failed to check existing users", lookupErr)
	}
	matched, matchErr := matchSignup(existing, req)
	if matchErr != nil {
		return nil, matchErr
	}
	if matched == nil {
		return nil, signupConflict(nil)
	}
	return matched, nil
}

// matchSignup returns the account the signup refers to, nil for a new
// account, or a conflict when the pair partially matches other records.
func matchSignup(existing []*entity.User, req *request.SignUpRequest) (*entity.User, error) {
	if len(existing) == 0 {
		return nil, nil
	}
	if len(existing) == 1 && existing[0].Username == req.Username && existing[0].Email == req.Email {
		return existing[0], nil
	}

	fields := make(map[string]string)
	for _, u := range existing {
		if u.Username == req.Username && u.Email != req.Email {
			fields["username"] = "already registered with another email"
		}
		if u.Email == req.Email && u.Username != req.Username {
			fields["email"] = "already registered with another username"
		}
	}
	return nil, signupConflict(fields)
}

func signupConflict(fields map[string]string) error {
	return apperror.Conflict("username or email already in use", fields)
}

func (s *authService) issueCode(ctx context.Context, user *entity.User) (string, error) {
	code, err := utils.GenerateConfirmationCode(s.config.OTP.Length)
	if err != nil {
		return "", apperror.Internal("failed to generate confirmation code", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.Internal("failed to hash confirmation code", err)
	}

	now := s.now()
	record := &entity.ConfirmationCode{
		UserID:    user.ID,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(s.config.CodeTTL()),
		CreatedAt: now,
	}
	if err := s.repo.Confirmation.Upsert(ctx, record); err != nil {
		return "", apperror.Internal("failed to store confirmation code", err)
	}

	return code, nil
}

// ObtainToken exchanges a username and its confirmation code for a JWT.
// Codes stay valid until they expire or are replaced by a new signup.
func (s *authService) ObtainToken(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.Internal("failed to find user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	invalid := apperror.Field("confirmation_code", "invalid or expired confirmation code")

	stored, err := s.repo.Confirmation.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, apperror.Internal("failed to load confirmation code", err)
	}
	if stored == nil || stored.Expired(s.now()) {
		s.log.Warn("Token requested without a live code", zap.String("username", user.Username))
		return nil, invalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored.CodeHash), []byte(req.ConfirmationCode)); err != nil {
		s.log.Warn("Confirmation code mismatch", zap.String("username", user.Username))
		return nil, invalid
	}

	signed, err := s.issuer.Issue(user.ID, user.Username)
	if err != nil {
		return nil, apperror.Internal("failed to issue token", err)
	}

	s.log.Info("Token issued", zap.String("user_id", user.ID.String()))
	return &response.TokenResponse{Token: signed}, nil
}
