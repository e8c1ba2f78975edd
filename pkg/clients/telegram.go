package clients

import (
	"github.com/DRSN-tech/bakery-orders/internal/cfg"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jimlawless/whereami"
)

// NewTelegramBot создаёт клиента Bot API для напоминаний о доставке.
func NewTelegramBot(cfg *cfg.ReminderCfg) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return bot, nil
}
