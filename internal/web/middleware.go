package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rcastillo/chartsight/internal/account"
	"github.com/rcastillo/chartsight/internal/analysis"
	"github.com/rcastillo/chartsight/internal/storage"
)

type authedHandler func(w http.ResponseWriter, r *http.Request, acc *storage.Account)

// authenticated verifies HTTP Basic credentials on every request. No session
// state is kept between calls.
func (s *Server) authenticated(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="chartsight"`)
			writeError(w, http.StatusUnauthorized, "credentials required")
			return
		}

		acc, err := s.accounts.Login(username, password)
		if err != nil {
			switch {
			case errors.Is(err, account.ErrInvalidCredentials):
				writeError(w, http.StatusUnauthorized, "invalid username or password")
			case errors.Is(err, account.ErrAccountInactive):
				writeError(w, http.StatusForbidden, "account is inactive, contact the administrator")
			default:
				s.logger.Error("authentication failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "authentication failed")
			}
			return
		}

		next(w, r, acc)
	}
}

// admin additionally requires the administrative flag.
func (s *Server) admin(next authedHandler) http.HandlerFunc {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request, acc *storage.Account) {
		if !acc.Admin {
			writeError(w, http.StatusForbidden, "administrator access required")
			return
		}
		next(w, r, acc)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAnalysisError maps the orchestrator's error taxonomy to HTTP codes.
func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	var (
		vErr *analysis.ValidationError
		qErr *analysis.QuotaError
		mErr *analysis.ModelCallError
	)
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusUnprocessableEntity, vErr.Reason)
	case errors.As(err, &qErr):
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error": qErr.Error(),
			"quota": qErr.Status,
		})
	case errors.As(err, &mErr):
		writeError(w, http.StatusBadGateway, mErr.Error())
	default:
		s.logger.Error("analysis failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}
