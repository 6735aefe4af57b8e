package poster

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts announcements to a single channel or chat.
type Telegram struct {
	api    telegramAPI
	chatID int64
}

// NewTelegram connects to the Bot API with token and posts to chatID.
func NewTelegram(token string, chatID int64, client *http.Client) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

// Post sends text as a plain message. The Bot API call does not take a
// context, so ctx is only checked before sending.
func (t *Telegram) Post(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return &PostError{Reason: err.Error()}
	}
	return nil
}
