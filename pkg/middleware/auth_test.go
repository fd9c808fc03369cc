package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"media-review/internal/data/entity"
	"media-review/internal/data/repository"
	"media-review/internal/policy"
	"media-review/pkg/token"
	"media-review/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

type stubUsers struct {
	repository.UserRepository
	users map[uuid.UUID]*entity.User
	err   error
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[id], nil
}

func newUser(role entity.UserRole) *entity.User {
	u := &entity.User{Username: "reader", Email: "reader@example.com", Role: role}
	u.ID = uuid.New()
	return u
}

// echoPrincipal reports the principal it sees so tests can inspect it.
func echoPrincipal(seen **policy.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = utils.GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	admin := newUser(entity.RoleAdmin)
	users := &stubUsers{users: map[uuid.UUID]*entity.User{admin.ID: admin}}

	valid, err := issuer.Issue(admin.ID, admin.Username)
	require.NoError(t, err)
	ghost, err := issuer.Issue(uuid.New(), "ghost")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantRole   entity.UserRole
	}{
		{"anonymous", "", http.StatusOK, ""},
		{"valid token", "Bearer " + valid, http.StatusOK, entity.RoleAdmin},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, entity.RoleAdmin},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized, ""},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized, ""},
		{"deleted user", "Bearer " + ghost, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *policy.Principal
			h := Authenticate(issuer, users, zap.NewNop())(echoPrincipal(&seen))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/titles", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantRole == "" {
				assert.Nil(t, seen)
				return
			}
			require.NotNil(t, seen)
			assert.Equal(t, admin.ID, seen.UserID)
			assert.Equal(t, tt.wantRole, seen.Role)
		})
	}
}

func TestAuthenticateStoreError(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	signed, err := issuer.Issue(uuid.New(), "reader")
	require.NoError(t, err)

	var seen *policy.Principal
	h := Authenticate(issuer, &stubUsers{err: errors.New("db down")}, zap.NewNop())(echoPrincipal(&seen))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// subjectIssuer accepts any token and reports a fixed subject.
type subjectIssuer struct {
	token.Issuer
	subject string
}

func (s subjectIssuer) Parse(string) (*token.Claims, error) {
	return &token.Claims{Username: "reader", RegisteredClaims: jwt.RegisteredClaims{Subject: s.subject}}, nil
}

func TestAuthenticateRejectsNonUUIDSubject(t *testing.T) {
	var seen *policy.Principal
	users := &stubUsers{err: errors.New("lookup must not run")}
	h := Authenticate(subjectIssuer{subject: "not-a-uuid"}, users, zap.NewNop())(echoPrincipal(&seen))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
	assert.Nil(t, seen)
}

func TestAuthorize(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name       string
		principal  *policy.Principal
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"user", &policy.Principal{UserID: uuid.New(), Role: entity.RoleUser}, http.StatusForbidden},
		{"admin", &policy.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Authorize(policy.ResourceGenre, policy.ActionCreate, zap.NewNop())(ok)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/genres", nil)
			if tt.principal != nil {
				req = req.WithContext(utils.SetPrincipal(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
