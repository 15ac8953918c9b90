package notify

import (
	"context"
	"errors"
	"fmt"

	"clinic-timesheet-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender - часть tgbotapi.BotAPI, нужная для отправки сообщений
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// ChatSource возвращает чаты администраторов, которые входили в бота
type ChatSource func(ctx context.Context) ([]int64, error)

// Telegram отправляет уведомление в чат администратора из настроек
// и в чаты всех администраторов, которые входили в бота.
type Telegram struct {
	sender      Sender
	adminChatID int64
	chats       ChatSource
	logger      *logrus.Logger
}

func NewTelegram(sender Sender, adminChatID int64, chats ChatSource) *Telegram {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Telegram{
		sender:      sender,
		adminChatID: adminChatID,
		chats:       chats,
		logger:      logger,
	}
}

func (t *Telegram) Notify(ctx context.Context, event models.NotificationEvent) error {
	chatIDs, err := t.recipients(ctx)
	if err != nil {
		return err
	}
	if len(chatIDs) == 0 {
		return errors.New("no admin chat to notify")
	}

	text := Subject(event) + "\n\n" + Body(event)

	var errs []error
	for _, chatID := range chatIDs {
		if _, err := t.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			t.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to send telegram notification")
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}

	// достаточно одного администратора, получившего сообщение
	if len(errs) == len(chatIDs) {
		return errors.Join(errs...)
	}
	return nil
}

func (t *Telegram) recipients(ctx context.Context) ([]int64, error) {
	seen := make(map[int64]bool)
	var ids []int64

	add := func(id int64) {
		if id != 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	add(t.adminChatID)
	if t.chats != nil {
		chats, err := t.chats(ctx)
		if err != nil {
			return nil, err
		}
		for _, id := range chats {
			add(id)
		}
	}
	return ids, nil
}
