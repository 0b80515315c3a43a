package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/collegetennis/internal/pkg/config"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
)

// Min interval between two messages to the same chat; Telegram answers 429 above ~30/min.
const telegramSendInterval = 2 * time.Second

const queueSize = 100

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram queues summaries and sends them from a single background worker.
type Telegram struct {
	bot           sender
	chatID        int64
	notifySuccess bool
	interval      time.Duration

	queue     chan string
	done      chan struct{}
	closeOnce sync.Once
}

func NewTelegram(cfg config.TelegramConfig) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	slog.Info("Telegram notifier initialized", "chat_id", cfg.ChatID, "bot", bot.Self.UserName)
	return newTelegram(bot, cfg.ChatID, cfg.NotifySuccess, telegramSendInterval), nil
}

func newTelegram(bot sender, chatID int64, notifySuccess bool, interval time.Duration) *Telegram {
	t := &Telegram{
		bot:           bot,
		chatID:        chatID,
		notifySuccess: notifySuccess,
		interval:      interval,
		queue:         make(chan string, queueSize),
		done:          make(chan struct{}),
	}
	go t.run()
	return t
}

// NotifyRun queues a summary. Successful runs are skipped unless notify_success is set.
// A full queue drops the message.
func (t *Telegram) NotifyRun(s performance.Summary) {
	if s.Status == performance.StatusSuccess && !t.notifySuccess {
		return
	}
	select {
	case t.queue <- FormatSummary(s):
	default:
		slog.Warn("Telegram queue full, dropping run summary", "job", s.Job, "status", s.Status)
	}
}

// Close waits until queued summaries are sent. NotifyRun must not be called after Close.
func (t *Telegram) Close() {
	t.closeOnce.Do(func() {
		close(t.queue)
		<-t.done
	})
}

func (t *Telegram) run() {
	defer close(t.done)

	var lastSend time.Time
	for text := range t.queue {
		if wait := t.interval - time.Since(lastSend); wait > 0 {
			time.Sleep(wait)
		}
		lastSend = time.Now()
		if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
			slog.Error("Telegram send: failed", "error", err, "queue_length", len(t.queue))
			continue
		}
		slog.Debug("Telegram send: success", "queue_length", len(t.queue))
	}
}
