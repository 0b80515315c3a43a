package notify

import (
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/collegetennis/internal/pkg/config"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
)

type fakeBot struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, f.err
}

func TestTelegram_NotifyRun(t *testing.T) {
	bot := &fakeBot{}
	tg := newTelegram(bot, 42, false, 0)

	tg.NotifyRun(performance.Summary{Job: "seasons", Status: performance.StatusSuccess})
	tg.NotifyRun(performance.Summary{Job: "draws", Status: performance.StatusPartial, Processed: 3, Succeeded: 2, Failed: 1})
	tg.NotifyRun(performance.Summary{Job: "schools", Status: performance.StatusFailed, Error: "store unavailable"})
	tg.Close()

	require.Len(t, bot.sent, 2, "successful runs are not sent by default")
	assert.Equal(t, int64(42), bot.sent[0].ChatID)
	assert.Contains(t, bot.sent[0].Text, "draws: partial")
	assert.Contains(t, bot.sent[0].Text, "processed 3, succeeded 2, failed 1")
	assert.Contains(t, bot.sent[1].Text, "error: store unavailable")
}

func TestTelegram_SendErrorDoesNotStopWorker(t *testing.T) {
	bot := &fakeBot{err: errors.New("429 Too Many Requests")}
	tg := newTelegram(bot, 1, true, 0)

	tg.NotifyRun(performance.Summary{Job: "a", Status: performance.StatusSuccess})
	tg.NotifyRun(performance.Summary{Job: "b", Status: performance.StatusSuccess})
	tg.Close()
	tg.Close()

	assert.Len(t, bot.sent, 2)
}

func TestNew_WithoutTokenIsNop(t *testing.T) {
	n := New(config.TelegramConfig{})
	assert.IsType(t, Nop{}, n)
	n.NotifyRun(performance.Summary{Job: "x"})
	n.Close()
}
