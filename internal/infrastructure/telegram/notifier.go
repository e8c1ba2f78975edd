package telegram

import (
	"context"
	"time"

	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/jitter"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jimlawless/whereami"
)

const sendAttempts = 3

// sender — часть tgbotapi.BotAPI, которой пользуется уведомитель.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier отправляет напоминания о доставке в чат пекарни.
type Notifier struct {
	bot     sender
	chatID  int64
	logger  logger.Logger
	backoff time.Duration
}

func NewNotifier(bot sender, chatID int64, logger logger.Logger) *Notifier {
	return &Notifier{
		bot:     bot,
		chatID:  chatID,
		logger:  logger,
		backoff: time.Second,
	}
}

// Notify отправляет text простым сообщением, повторяя попытку при сетевых сбоях.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true

	var err error
	for attempt := 0; attempt < sendAttempts; attempt++ {
		if ctx.Err() != nil {
			return e.Wrap(whereami.WhereAmI(), ctx.Err())
		}

		if _, err = n.bot.Send(msg); err == nil {
			return nil
		}

		n.logger.Warnf("telegram send attempt %d failed: %v", attempt+1, err)
		if attempt < sendAttempts-1 {
			if !jitter.Sleep(ctx.Done(), jitter.ExponentialBackoff(n.backoff, 8*n.backoff, attempt, jitter.DefaultJitter)) {
				return e.Wrap(whereami.WhereAmI(), ctx.Err())
			}
		}
	}

	return e.Wrap(whereami.WhereAmI(), err)
}
