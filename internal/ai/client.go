package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rcastillo/chartsight/internal/capture"
	"github.com/rcastillo/chartsight/internal/config"
)

// Client calls the vision model. One call per analysis, single attempt,
// bounded by the configured timeout. The limiter caps outbound request rate
// across all accounts.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	return &Client{
		client:  openai.NewClient(cfg.OpenAI.APIKey),
		model:   cfg.OpenAI.Model,
		timeout: cfg.ModelTimeout(),
		limiter: rate.NewLimiter(rate.Limit(cfg.OpenAI.RateLimit), cfg.OpenAI.RateLimitBurst),
		logger:  log,
	}
}

// Analyze sends the chart images with their per-image detail levels and
// returns the free-form response text plus token usage. There is no retry:
// any transport or API error surfaces to the caller as-is.
func (c *Client) Analyze(ctx context.Context, req *Request) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	parts := make([]openai.ChatMessagePart, 0, len(req.Images)+1)
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: BuildUserPrompt(req),
	})
	for _, img := range req.Images {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(img.Data),
				Detail: imageDetail(img.Detail),
			},
		})
	}

	c.logger.Info("sending analysis request to vision model",
		zap.String("asset", req.Asset),
		zap.String("mode", string(req.Mode)),
		zap.Int("images", len(req.Images)))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		Temperature: 0.7,
		MaxTokens:   3000,
	})
	if err != nil {
		return nil, fmt.Errorf("vision API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("vision model returned no choices")
	}

	text := resp.Choices[0].Message.Content
	c.logger.Info("received model response",
		zap.Int("length", len(text)),
		zap.Int("tokens", resp.Usage.TotalTokens))

	return &Response{
		Text:       text,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

func imageDetail(d capture.Detail) openai.ImageURLDetail {
	if d == capture.DetailHigh {
		return openai.ImageURLDetailHigh
	}
	return openai.ImageURLDetailLow
}
