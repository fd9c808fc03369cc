package usecase

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"media-review/internal/data/entity"
	"media-review/internal/data/repository"
	"media-review/internal/dto/request"
	"media-review/pkg/apperror"
	"media-review/pkg/token"
	"media-review/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var codePattern = regexp.MustCompile(`code is: (\d+)`)

type authFixture struct {
	svc    *authService
	repo   *repository.Repository
	store  *memStore
	mail   *fakeMailer
	issuer token.Issuer
	clock  time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo, store := newMemRepo()
	f := &authFixture{
		repo:   repo,
		store:  store,
		mail:   &fakeMailer{},
		issuer: token.NewIssuer("test-secret-key-at-least-32-chars-long", time.Hour),
		clock:  time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	config := &utils.Config{OTP: utils.OTPConfig{ExpiryMinutes: 60, Length: 6}}
	f.svc = NewAuthService(repo, f.issuer, f.mail, config, zap.NewNop()).(*authService)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *authFixture) signUp(t *testing.T, username, email string) string {
	t.Helper()
	_, err := f.svc.SignUp(context.Background(), &request.SignUpRequest{Username: username, Email: email})
	require.NoError(t, err)
	m := codePattern.FindStringSubmatch(f.mail.last().body)
	require.Len(t, m, 2)
	return m[1]
}

func TestSignUpCreatesUserAndMailsCode(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.SignUp(context.Background(), &request.SignUpRequest{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "reader", resp.Username)
	assert.Equal(t, "reader@example.com", resp.Email)

	user, err := f.repo.User.FindByUsername(context.Background(), "reader")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, entity.RoleUser, user.Role)

	mail := f.mail.last()
	assert.Equal(t, "reader@example.com", mail.to)
	code := codePattern.FindStringSubmatch(mail.body)[1]
	assert.Len(t, code, 6)

	stored, err := f.repo.Confirmation.FindByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, code, stored.CodeHash)
	assert.Equal(t, f.clock.Add(time.Hour), stored.ExpiresAt)
}

func TestSignUpRules(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		kind     apperror.Kind
		field    string
	}{
		{"reserved username", "me", "me@example.com", apperror.KindValidation, "username"},
		{"invalid username", "bad name", "x@example.com", apperror.KindValidation, "username"},
		{"missing email", "someone", "", apperror.KindValidation, "email"},
		{"email taken by another username", "other", "reader@example.com", apperror.KindConflict, "email"},
		{"username taken with another email", "reader", "new@example.com", apperror.KindConflict, "username"},
		{"pair spans two accounts", "reader", "writer@example.com", apperror.KindConflict, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.signUp(t, "reader", "reader@example.com")
			f.signUp(t, "writer", "writer@example.com")

			_, err := f.svc.SignUp(context.Background(), &request.SignUpRequest{Username: tt.username, Email: tt.email})
			require.Error(t, err)

			var appErr *apperror.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.kind, appErr.Kind)
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}
}

func TestSignUpIsIdempotentForSamePair(t *testing.T) {
	f := newAuthFixture(t)
	first := f.signUp(t, "reader", "reader@example.com")
	second := f.signUp(t, "reader", "reader@example.com")

	assert.Len(t, f.store.users, 1)
	assert.Len(t, f.mail.sent, 2)

	// only the latest code is accepted
	if first != second {
		_, err := f.svc.ObtainToken(context.Background(), &request.TokenRequest{Username: "reader", ConfirmationCode: first})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	}
	_, err := f.svc.ObtainToken(context.Background(), &request.TokenRequest{Username: "reader", ConfirmationCode: second})
	assert.NoError(t, err)
}

func TestSignUpConcurrentSameEmail(t *testing.T) {
	f := newAuthFixture(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			username := []string{"alpha", "beta"}[i%2]
			_, errs[i] = f.svc.SignUp(context.Background(), &request.SignUpRequest{Username: username, Email: "shared@example.com"})
		}(i)
	}
	wg.Wait()

	assert.Len(t, f.store.users, 1)
	for _, err := range errs {
		if err != nil {
			assert.True(t, apperror.Is(err, apperror.KindConflict), "unexpected error: %v", err)
		}
	}
}

// racingUsers stores a rival account from a concurrent signup just before
// the service's own insert lands. The rival shares the email and takes
// rivalName when set.
type racingUsers struct {
	repository.UserRepository
	rivalName string
	once      sync.Once
}

func (r *racingUsers) Create(ctx context.Context, u *entity.User) error {
	r.once.Do(func() {
		rival := &entity.User{
			Record:   entity.NewRecord(u.CreatedAt),
			Username: u.Username,
			Email:    u.Email,
			Role:     entity.RoleUser,
		}
		if r.rivalName != "" {
			rival.Username = r.rivalName
		}
		_ = r.UserRepository.Create(ctx, rival)
	})
	return r.UserRepository.Create(ctx, u)
}

func TestSignUpLosingInsertReusesAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.User = &racingUsers{UserRepository: f.repo.User}

	code := f.signUp(t, "reader", "reader@example.com")

	assert.Len(t, f.store.users, 1)
	_, err := f.svc.ObtainToken(context.Background(), &request.TokenRequest{Username: "reader", ConfirmationCode: code})
	assert.NoError(t, err)
}

func TestSignUpLosingInsertToOtherUsernameConflicts(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.User = &racingUsers{UserRepository: f.repo.User, rivalName: "writer"}

	_, err := f.svc.SignUp(context.Background(), &request.SignUpRequest{Username: "reader", Email: "reader@example.com"})

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
	assert.Contains(t, appErr.Fields, "email")
	assert.Len(t, f.store.users, 1)
	assert.Empty(t, f.mail.sent)
}

func TestSignUpMailFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.mail.err = errors.New("smtp: connection refused")

	_, err := f.svc.SignUp(context.Background(), &request.SignUpRequest{Username: "reader", Email: "reader@example.com"})
	assert.True(t, apperror.Is(err, apperror.KindUnavailable))
}

func TestObtainToken(t *testing.T) {
	f := newAuthFixture(t)
	code := f.signUp(t, "reader", "reader@example.com")

	resp, err := f.svc.ObtainToken(context.Background(), &request.TokenRequest{Username: "reader", ConfirmationCode: code})
	require.NoError(t, err)

	claims, err := f.issuer.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "reader", claims.Username)

	// codes are reusable until they expire
	_, err = f.svc.ObtainToken(context.Background(), &request.TokenRequest{Username: "reader", ConfirmationCode: code})
	assert.NoError(t, err)
}

func TestObtainTokenFailures(t *testing.T) {
	f := newAuthFixture(t)
	code := f.signUp(t, "reader", "reader@example.com")

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	tests := []struct {
		name    string
		req     request.TokenRequest
		advance time.Duration
		kind    apperror.Kind
	}{
		{"missing code", request.TokenRequest{Username: "reader"}, 0, apperror.KindValidation},
		{"missing username", request.TokenRequest{ConfirmationCode: code}, 0, apperror.KindValidation},
		{"unknown username", request.TokenRequest{Username: "ghost", ConfirmationCode: code}, 0, apperror.KindNotFound},
		{"wrong code", request.TokenRequest{Username: "reader", ConfirmationCode: wrong}, 0, apperror.KindValidation},
		{"expired code", request.TokenRequest{Username: "reader", ConfirmationCode: code}, 2 * time.Hour, apperror.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := f.clock
			f.clock = f.clock.Add(tt.advance)
			defer func() { f.clock = start }()

			_, err := f.svc.ObtainToken(context.Background(), &tt.req)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
}

func TestObtainTokenWithoutCode(t *testing.T) {
	f := newAuthFixture(t)

	// provisioned by an admin, never signed up
	user := &entity.User{Username: "provisioned", Email: "p@example.com", Role: entity.RoleUser}
	require.NoError(t, f.repo.User.Create(context.Background(), user))

	_, err := f.svc.ObtainToken(context.Background(), &request.TokenRequest{Username: "provisioned", ConfirmationCode: "123456"})

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "confirmation_code")
}
