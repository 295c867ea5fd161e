package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/rcastillo/chartsight/internal/account"
	"github.com/rcastillo/chartsight/internal/analysis"
	"github.com/rcastillo/chartsight/internal/capture"
	"github.com/rcastillo/chartsight/internal/storage"
	"github.com/rcastillo/chartsight/internal/telegram"
)

// maxUploadBytes bounds the multipart analyze request (3 screenshots).
const maxUploadBytes = 32 << 20

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username     string `json:"username"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		Password     string `json:"password"`
		FullName     string `json:"full_name"`
		ReferralCode string `json:"referral_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	acc, err := s.accounts.Register(account.RegisterInput{
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		Password:     in.Password,
		FullName:     in.FullName,
		ReferralCode: in.ReferralCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrUsernameTaken),
			errors.Is(err, account.ErrEmailTaken),
			errors.Is(err, account.ErrPhoneTaken):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, account.ErrUsernameTooShort),
			errors.Is(err, account.ErrPasswordTooShort),
			errors.Is(err, account.ErrBadReferralCode):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.Error("register failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, acc)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	acc, err := s.accounts.Login(in.Username, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid username or password")
		case errors.Is(err, account.ErrAccountInactive):
			writeError(w, http.StatusForbidden, "account is inactive, contact the administrator")
		default:
			s.logger.Error("login failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, acc)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request, acc *storage.Account) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	capital, _ := strconv.ParseFloat(r.FormValue("capital"), 64)
	riskPct, _ := strconv.ParseFloat(r.FormValue("risk_pct"), 64)

	req := analysis.Request{
		Asset:          r.FormValue("asset"),
		Mode:           capture.Mode(r.FormValue("mode")),
		Device:         capture.Device(r.FormValue("device")),
		Capital:        capital,
		RiskPct:        riskPct,
		ManageRisk:     r.FormValue("manage_risk") != "false",
		SessionTime:    r.FormValue("session_time"),
		MacroEvent:     r.FormValue("macro_event") == "true",
		MacroEventNote: r.FormValue("macro_event_note"),
		ExtraContext:   r.FormValue("context"),
	}

	for _, fh := range r.MultipartForm.File["charts"] {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "cannot read chart upload")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "cannot read chart upload")
			return
		}
		req.Images = append(req.Images, data)
	}

	result, err := s.analyses.Analyze(r.Context(), analysis.Actor{
		ID:       acc.ID,
		Username: acc.Username,
		Plan:     acc.Plan,
	}, req)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	resp := struct {
		*analysis.Result
		Forward *telegram.Delivery `json:"forward,omitempty"`
	}{Result: result}

	// Optional best-effort forwarding of the finished analysis.
	if r.FormValue("forward") == "true" {
		delivery := s.forwarder.Send(telegram.Credentials{
			BotToken: acc.TelegramBotToken,
			ChatID:   acc.TelegramChatID,
		}, result.Text)
		resp.Forward = &delivery
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request, acc *storage.Account) {
	status, err := s.tracker.Check(acc.ID, acc.Plan)
	if err != nil {
		s.logger.Error("quota check failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "quota check failed")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, acc *storage.Account) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	records, err := s.repo.RecentAnalyses(acc.ID, limit)
	if err != nil {
		s.logger.Error("load history failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cannot load history")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, acc *storage.Account) {
	stats, err := s.repo.GetAccountStats(acc.ID)
	if err != nil {
		s.logger.Error("load stats failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cannot load stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request, _ *storage.Account) {
	q := r.URL.Query()
	plan, exact := capture.Resolve(
		q.Get("asset"),
		capture.Mode(q.Get("mode")),
		capture.Device(q.Get("device")),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"plan":  plan,
		"exact": exact,
	})
}

func (s *Server) handleTelegramConfig(w http.ResponseWriter, r *http.Request, acc *storage.Account) {
	var in struct {
		BotToken string `json:"bot_token"`
		ChatID   string `json:"chat_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	botName, err := s.forwarder.Validate(telegram.Credentials{BotToken: in.BotToken, ChatID: in.ChatID})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.accounts.SaveTelegramConfig(acc.ID, in.BotToken, in.ChatID); err != nil {
		s.logger.Error("save telegram config failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cannot save telegram configuration")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"bot": botName})
}

func (s *Server) handleTelegramTest(w http.ResponseWriter, r *http.Request, acc *storage.Account) {
	delivery := s.forwarder.Send(telegram.Credentials{
		BotToken: acc.TelegramBotToken,
		ChatID:   acc.TelegramChatID,
	}, "✅ chartsight test message: forwarding is configured correctly.")
	writeJSON(w, http.StatusOK, delivery)
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request, acc *storage.Account) {
	var in struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	delivery := s.forwarder.Send(telegram.Credentials{
		BotToken: acc.TelegramBotToken,
		ChatID:   acc.TelegramChatID,
	}, in.Text)
	writeJSON(w, http.StatusOK, delivery)
}

// Admin endpoints.

func (s *Server) handleAdminPlan(w http.ResponseWriter, r *http.Request, _ *storage.Account) {
	var in struct {
		AccountID uint   `json:"account_id"`
		Plan      string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.accounts.ChangePlan(in.AccountID, in.Plan); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAdminActive(w http.ResponseWriter, r *http.Request, _ *storage.Account) {
	var in struct {
		AccountID uint `json:"account_id"`
		Active    bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.accounts.SetActive(in.AccountID, in.Active); err != nil {
		s.logger.Error("set active failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cannot update account")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAdminPromote(w http.ResponseWriter, r *http.Request, _ *storage.Account) {
	var in struct {
		AccountID uint `json:"account_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.accounts.Promote(in.AccountID); err != nil {
		s.logger.Error("promote failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cannot promote account")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request, actor *storage.Account) {
	var in struct {
		AccountID uint `json:"account_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.AccountID == actor.ID {
		writeError(w, http.StatusUnprocessableEntity, "cannot delete your own account")
		return
	}
	if err := s.accounts.Delete(in.AccountID); err != nil {
		s.logger.Error("delete account failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cannot delete account")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
