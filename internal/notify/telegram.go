// Package notify holds external delivery channels for notifications.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lifedash/internal/domain"
)

// Telegram forwards notifications to a single chat. It is an optional
// channel on top of the in-app notification center.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

// Send delivers one notification as a message.
func (t *Telegram) Send(n domain.Notification) error {
	text := fmt.Sprintf("🔔 <b>%s</b>\n\n%s", n.Title, n.Body)
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
