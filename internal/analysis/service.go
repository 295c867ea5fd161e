// Package analysis orchestrates one chart-analysis request: validate,
// check quota, call the vision model, parse the signal, compute sizing and
// persist the audit record. Only validation and quota failures abort the
// request; parse, risk and persistence failures degrade the result instead
// of losing it.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rcastillo/chartsight/internal/ai"
	"github.com/rcastillo/chartsight/internal/capture"
	"github.com/rcastillo/chartsight/internal/quota"
	"github.com/rcastillo/chartsight/internal/risk"
	"github.com/rcastillo/chartsight/internal/signal"
	"github.com/rcastillo/chartsight/internal/storage"
)

// maxResultChars bounds the persisted result text.
const maxResultChars = 1000

// Analyzer is the external vision model.
type Analyzer interface {
	Analyze(ctx context.Context, req *ai.Request) (*ai.Response, error)
}

// QuotaChecker gates admission before the model call.
type QuotaChecker interface {
	Check(accountID uint, plan string) (quota.Status, error)
}

// Recorder persists the audit trail.
type Recorder interface {
	CreateAnalysis(rec *storage.AnalysisRecord) error
}

// Actor is the explicit request-scoped identity of the caller. It replaces
// any ambient notion of a logged-in user.
type Actor struct {
	ID       uint
	Username string
	Plan     string
}

// Request is one analysis submission.
type Request struct {
	Asset  string
	Mode   capture.Mode
	Device capture.Device
	Images [][]byte

	Capital    float64
	RiskPct    float64
	ManageRisk bool

	SessionTime    string
	MacroEvent     bool
	MacroEventNote string
	ExtraContext   string
}

// Result is the final payload of a completed analysis. Levels and Risk are
// nil when parsing or sizing was skipped.
type Result struct {
	Asset      string            `json:"asset"`
	Mode       capture.Mode      `json:"mode"`
	Timeframes []string          `json:"timeframes"`
	Timestamp  time.Time         `json:"timestamp"`
	Text       string            `json:"text"`
	Levels     *signal.Levels    `json:"levels,omitempty"`
	Risk       *risk.Computation `json:"risk,omitempty"`
	TokensUsed int               `json:"tokens_used"`
	Quota      quota.Status      `json:"quota"`
}

type Service struct {
	model   Analyzer
	quota   QuotaChecker
	records Recorder
	logger  *zap.Logger
}

func NewService(model Analyzer, q QuotaChecker, records Recorder, log *zap.Logger) *Service {
	return &Service{model: model, quota: q, records: records, logger: log}
}

// Analyze runs the whole pipeline for one request.
func (s *Service) Analyze(ctx context.Context, actor Actor, req Request) (*Result, error) {
	// Validation: no side effects past this block.
	if !capture.ValidAsset(req.Asset) {
		return nil, validationErrorf("asset %q is not supported (valid: %s)",
			req.Asset, strings.Join(capture.AllowedAssets, ", "))
	}
	if !capture.ValidMode(req.Mode) {
		return nil, validationErrorf("mode %q is not valid (valid: SCALPING, INTRADAY)", req.Mode)
	}
	if !capture.ValidDevice(req.Device) {
		return nil, validationErrorf("device %q is not valid (valid: PC, MOBILE)", req.Device)
	}
	if req.RiskPct < 1 || req.RiskPct > 5 {
		return nil, validationErrorf("risk percent must be between 1 and 5")
	}

	plan, exact := capture.Resolve(req.Asset, req.Mode, req.Device)
	if !exact {
		s.logger.Warn("no capture plan for triple, using device fallback",
			zap.String("asset", req.Asset),
			zap.String("mode", string(req.Mode)),
			zap.String("device", string(req.Device)))
	}
	if len(req.Images) != plan.Images {
		return nil, validationErrorf("%d chart images required for %s on %s (received: %d)",
			plan.Images, req.Mode, req.Device, len(req.Images))
	}

	// Quota gate, always re-evaluated right before the model call.
	status, err := s.quota.Check(actor.ID, actor.Plan)
	if err != nil {
		return nil, fmt.Errorf("check quota: %w", err)
	}
	if !status.Allowed {
		return nil, &QuotaError{Status: status}
	}

	images := make([]ai.Image, len(req.Images))
	for i, data := range req.Images {
		images[i] = ai.Image{Data: data, Detail: plan.Details[i]}
	}

	resp, err := s.model.Analyze(ctx, &ai.Request{
		Asset:          req.Asset,
		Mode:           req.Mode,
		Device:         req.Device,
		Timeframes:     plan.Timeframes,
		Images:         images,
		SessionTime:    req.SessionTime,
		MacroEvent:     req.MacroEvent,
		MacroEventNote: req.MacroEventNote,
		ExtraContext:   req.ExtraContext,
	})
	if err != nil {
		return nil, &ModelCallError{Err: err}
	}

	result := &Result{
		Asset:      req.Asset,
		Mode:       req.Mode,
		Timeframes: plan.Timeframes,
		Timestamp:  time.Now(),
		Text:       resp.Text,
		TokensUsed: resp.TokensUsed,
	}

	// Parse failure never blocks the base response; it only skips sizing.
	levels, err := signal.Parse(resp.Text)
	if err != nil {
		s.logger.Info("signal parse failed, skipping risk computation",
			zap.String("asset", req.Asset), zap.Error(err))
	} else {
		result.Levels = levels
	}

	if req.ManageRisk && levels != nil {
		comp, err := risk.Compute(req.Asset,
			levels.Entry, levels.Stop, levels.TP1, levels.TP2, levels.TP3,
			req.Capital, req.RiskPct, levels.Direction)
		if err != nil {
			s.logger.Warn("risk computation failed, omitting risk section",
				zap.String("asset", req.Asset), zap.Error(err))
		} else {
			result.Risk = comp
			result.Text += riskSection(req.Capital, req.RiskPct, comp)
		}
	}

	rec := &storage.AnalysisRecord{
		AccountID:  actor.ID,
		Asset:      req.Asset,
		Mode:       string(req.Mode),
		Timeframes: strings.Join(plan.Timeframes, "/"),
		Result:     truncate(result.Text, maxResultChars),
	}
	if err := s.records.CreateAnalysis(rec); err != nil {
		// The caller keeps the answer even when the audit write fails.
		s.logger.Error("persist analysis record failed",
			zap.Uint("account_id", actor.ID), zap.Error(err))
	}

	if after, err := s.quota.Check(actor.ID, actor.Plan); err == nil {
		result.Quota = after
	} else {
		// Derive from the pre-call status so the caller still sees a
		// consistent counter.
		status.Used++
		if status.Remaining > 0 {
			status.Remaining--
		}
		status.Allowed = status.Used < status.Limit
		result.Quota = status
	}

	return result, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
