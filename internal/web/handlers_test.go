package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rcastillo/chartsight/internal/account"
	"github.com/rcastillo/chartsight/internal/analysis"
	"github.com/rcastillo/chartsight/internal/quota"
	"github.com/rcastillo/chartsight/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	repo := storage.NewRepository(db)

	return &Server{
		accounts: account.NewService(repo, zap.NewNop()),
		repo:     repo,
		logger:   zap.NewNop(),
	}
}

func TestAuthenticatedMiddleware(t *testing.T) {
	s := newTestServer(t)
	_, err := s.accounts.Register(account.RegisterInput{
		Username: "trader1",
		Email:    "trader1@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	var seen *storage.Account
	handler := s.authenticated(func(w http.ResponseWriter, r *http.Request, acc *storage.Account) {
		seen = acc
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no credentials", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/quota", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/quota", nil)
		req.SetBasicAuth("trader1", "wrong")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/quota", nil)
		req.SetBasicAuth("trader1", "secret123")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "trader1", seen.Username)
	})
}

func TestAdminMiddleware(t *testing.T) {
	s := newTestServer(t)
	acc, err := s.accounts.Register(account.RegisterInput{
		Username: "trader1",
		Email:    "trader1@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	handler := s.admin(func(w http.ResponseWriter, r *http.Request, _ *storage.Account) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/plan", nil)
	req.SetBasicAuth("trader1", "secret123")
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, s.repo.PromoteAdmin(acc.ID))

	req = httptest.NewRequest(http.MethodPost, "/api/admin/plan", nil)
	req.SetBasicAuth("trader1", "secret123")
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteAnalysisErrorMapping(t *testing.T) {
	s := &Server{logger: zap.NewNop()}

	testCases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"validation", &analysis.ValidationError{Reason: "bad asset"}, http.StatusUnprocessableEntity},
		{"quota", &analysis.QuotaError{Status: quota.Status{Used: 3, Limit: 3}}, http.StatusTooManyRequests},
		{"model call", &analysis.ModelCallError{Err: errors.New("upstream timeout")}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.writeAnalysisError(rec, tc.err)
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		})
	}
}
