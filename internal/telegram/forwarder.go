// Package telegram forwards analysis text to a user-owned bot/chat pair.
// Delivery is best effort: failures are reported to the caller but never
// block the analysis result.
package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Credentials identify the destination: the user's own bot token and the
// chat (user, group or channel) it should post into.
type Credentials struct {
	BotToken string
	ChatID   string
}

func (c Credentials) Configured() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// Delivery is the outcome of one send attempt.
type Delivery struct {
	Delivered bool   `json:"delivered"`
	Detail    string `json:"detail,omitempty"`
}

type Forwarder struct {
	logger *zap.Logger
}

func NewForwarder(log *zap.Logger) *Forwarder {
	return &Forwarder{logger: log}
}

// Validate checks the bot token against the Telegram API and returns the
// bot's handle.
func (f *Forwarder) Validate(creds Credentials) (string, error) {
	if !creds.Configured() {
		return "", fmt.Errorf("bot token and chat id are required")
	}
	bot, err := tgbotapi.NewBotAPI(creds.BotToken)
	if err != nil {
		return "", fmt.Errorf("connect telegram bot: %w", err)
	}
	return bot.Self.UserName, nil
}

// Send posts text to the configured chat. A single attempt, no retry.
func (f *Forwarder) Send(creds Credentials, text string) Delivery {
	if !creds.Configured() {
		return Delivery{Delivered: false, Detail: "telegram forwarding is not configured"}
	}

	bot, err := tgbotapi.NewBotAPI(creds.BotToken)
	if err != nil {
		f.logger.Warn("telegram bot connect failed", zap.Error(err))
		return Delivery{Delivered: false, Detail: err.Error()}
	}

	var msg tgbotapi.MessageConfig
	if chatID, ok := normalizeChatID(creds.ChatID); ok {
		msg = tgbotapi.NewMessage(chatID, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(creds.ChatID, text)
	}
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := bot.Send(msg); err != nil {
		f.logger.Warn("telegram send failed", zap.Error(err))
		return Delivery{Delivered: false, Detail: err.Error()}
	}
	return Delivery{Delivered: true}
}

// normalizeChatID parses a numeric chat id. A bare positive id starting with
// 100 and at least 10 digits long is a supergroup missing its -100 prefix;
// Telegram expects those as -100xxxxxxxxxx.
func normalizeChatID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	if id > 0 && strings.HasPrefix(raw, "100") && len(raw) >= 10 {
		fixed, err := strconv.ParseInt("-100"+raw, 10, 64)
		if err == nil {
			return fixed, true
		}
	}
	return id, true
}
