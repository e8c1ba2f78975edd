package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeBot struct {
	fails int
	sent  []tgbotapi.MessageConfig
	calls int
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.calls++
	if f.calls <= f.fails {
		return tgbotapi.Message{}, errors.New("connection reset by peer")
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{MessageID: f.calls}, nil
}

func newTestNotifier(bot *fakeBot) *Notifier {
	n := NewNotifier(bot, 42, logger.NewNopLogger())
	n.backoff = time.Millisecond
	return n
}

func TestNotifySendsToChat(t *testing.T) {
	bot := &fakeBot{}
	if err := newTestNotifier(bot).Notify(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bot.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(bot.sent))
	}
	if bot.sent[0].ChatID != 42 || bot.sent[0].Text != "hello" {
		t.Errorf("unexpected message: chat=%d text=%q", bot.sent[0].ChatID, bot.sent[0].Text)
	}
}

func TestNotifyRetries(t *testing.T) {
	bot := &fakeBot{fails: 2}
	if err := newTestNotifier(bot).Notify(context.Background(), "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bot.calls != 3 {
		t.Errorf("calls = %d, want 3", bot.calls)
	}
}

func TestNotifyGivesUp(t *testing.T) {
	bot := &fakeBot{fails: 10}
	if err := newTestNotifier(bot).Notify(context.Background(), "hi"); err == nil {
		t.Fatal("expected error after all attempts")
	}
	if bot.calls != sendAttempts {
		t.Errorf("calls = %d, want %d", bot.calls, sendAttempts)
	}
}

func TestNotifyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bot := &fakeBot{}
	if err := newTestNotifier(bot).Notify(ctx, "hi"); err == nil {
		t.Fatal("expected context error")
	}
	if bot.calls != 0 {
		t.Errorf("bot called %d times after cancel", bot.calls)
	}
}
