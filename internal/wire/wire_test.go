package wire

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"media-review/internal/data/repository"
	"media-review/pkg/mailer"
	"media-review/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) (*App, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	config := &utils.Config{
		JWT:       utils.JWTConfig{Secret: "wire-test-secret-wire-test-secret", ExpiryHours: 1},
		OTP:       utils.OTPConfig{ExpiryMinutes: 5, Length: 6},
		RateLimit: utils.RateLimitConfig{Requests: 2, Window: time.Minute},
	}

	log := zap.NewNop()
	app := Wiring(Deps{
		DB:     mock,
		Repo:   repository.NewRepository(mock, log),
		Redis:  rdb,
		Mailer: mailer.NewLogMailer(log),
	}, config, log)

	return app, mock
}

func serve(app *App, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectPing()
	rec := serve(app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	rec = serve(app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutesRequireAuthentication(t *testing.T) {
	app, mock := newTestApp(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodPatch, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/users/reader"},
		{http.MethodPost, "/api/v1/categories"},
		{http.MethodDelete, "/api/v1/genres/drama"},
		{http.MethodPost, "/api/v1/titles"},
		{http.MethodDelete, "/api/v1/titles/8d6f1c1e-6a8c-4a63-9b5e-3a3f7f1f2a10"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(app, tt.method, tt.path, "{}")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	// no store access happens for anonymous callers
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidTokenRejected(t *testing.T) {
	app, _ := newTestApp(t)

	rec := serve(app, http.MethodGet, "/api/v1/titles", "", "Authorization", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(app, http.MethodGet, "/api/v1/titles", "", "Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRoutesRateLimited(t *testing.T) {
	app, _ := newTestApp(t)

	// an empty body fails validation before any store access
	for i := 0; i < 2; i++ {
		rec := serve(app, http.MethodPost, "/api/v1/auth/signup", "{}")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	rec := serve(app, http.MethodPost, "/api/v1/auth/signup", "{}")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestTrailingSlashAndMalformedID(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`(?s)SELECT .*FROM genres`).
		WillReturnRows(pgxmock.NewRows([]string{"slug", "name"}).AddRow("drama", "Drama"))
	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\)\s+FROM genres`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	rec := serve(app, http.MethodGet, "/api/v1/genres/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"drama"`)

	rec = serve(app, http.MethodGet, "/api/v1/titles/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}
