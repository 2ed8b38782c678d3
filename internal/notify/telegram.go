package notify

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender delivers a message to a chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// ErrSenderDisabled is returned when no delivery channel is configured.
var ErrSenderDisabled = errors.New("message delivery is not configured")

// DisabledSender rejects every delivery. It stands in when no bot token
// is configured so the rest of the service keeps working.
type DisabledSender struct{}

// Send always fails with ErrSenderDisabled.
func (DisabledSender) Send(context.Context, int64, string) error {
	return ErrSenderDisabled
}

// TelegramSender delivers messages through the Telegram Bot API.
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	logger zerolog.Logger
}

// NewTelegramSender creates a sender from a bot token.
func NewTelegramSender(token string, logger zerolog.Logger) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("initializing telegram bot: %w", err)
	}

	logger.Info().Str("bot_username", bot.Self.UserName).Msg("Telegram bot initialized")

	return &TelegramSender{bot: bot, logger: logger}, nil
}

// Send delivers a Markdown-formatted message to the chat.
func (s *TelegramSender) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}

	s.logger.Debug().Int64("chat_id", chatID).Msg("Telegram message delivered")
	return nil
}
