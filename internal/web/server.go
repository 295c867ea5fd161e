package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rcastillo/chartsight/internal/account"
	"github.com/rcastillo/chartsight/internal/analysis"
	"github.com/rcastillo/chartsight/internal/config"
	"github.com/rcastillo/chartsight/internal/quota"
	"github.com/rcastillo/chartsight/internal/storage"
	"github.com/rcastillo/chartsight/internal/telegram"
)

type Server struct {
	httpServer *http.Server
	accounts   *account.Service
	analyses   *analysis.Service
	tracker    *quota.Tracker
	repo       *storage.Repository
	forwarder  *telegram.Forwarder
	config     *config.Config
	logger     *zap.Logger
}

func NewServer(
	accounts *account.Service,
	analyses *analysis.Service,
	tracker *quota.Tracker,
	repo *storage.Repository,
	forwarder *telegram.Forwarder,
	cfg *config.Config,
	log *zap.Logger,
) *Server {
	s := &Server{
		accounts:  accounts,
		analyses:  analyses,
		tracker:   tracker,
		repo:      repo,
		forwarder: forwarder,
		config:    cfg,
		logger:    log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/analyze", s.authenticated(s.handleAnalyze))
	mux.HandleFunc("GET /api/quota", s.authenticated(s.handleQuota))
	mux.HandleFunc("GET /api/history", s.authenticated(s.handleHistory))
	mux.HandleFunc("GET /api/stats", s.authenticated(s.handleStats))
	mux.HandleFunc("GET /api/plan", s.authenticated(s.handlePlan))
	mux.HandleFunc("POST /api/telegram", s.authenticated(s.handleTelegramConfig))
	mux.HandleFunc("POST /api/telegram/test", s.authenticated(s.handleTelegramTest))
	mux.HandleFunc("POST /api/forward", s.authenticated(s.handleForward))
	mux.HandleFunc("POST /api/admin/plan", s.admin(s.handleAdminPlan))
	mux.HandleFunc("POST /api/admin/active", s.admin(s.handleAdminActive))
	mux.HandleFunc("POST /api/admin/promote", s.admin(s.handleAdminPromote))
	mux.HandleFunc("DELETE /api/admin/account", s.admin(s.handleAdminDelete))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // the model call alone can take tens of seconds
	}

	return s
}

func (s *Server) Start() error {
	s.logger.Info("web server starting", zap.Int("port", s.config.Server.Port))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
