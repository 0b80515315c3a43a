// Package notify sends run summaries to operators.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Vodeneev/collegetennis/internal/pkg/config"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
)

// Notifier delivers job run summaries. NotifyRun must not block the caller.
type Notifier interface {
	NotifyRun(s performance.Summary)
	Close()
}

// Nop drops every summary.
type Nop struct{}

func (Nop) NotifyRun(performance.Summary) {}
func (Nop) Close()                        {}

// New returns a Telegram notifier when a bot token is configured, Nop otherwise.
// A bot that cannot be reached at startup degrades to Nop.
func New(cfg config.TelegramConfig) Notifier {
	if cfg.BotToken == "" {
		return Nop{}
	}
	t, err := NewTelegram(cfg)
	if err != nil {
		slog.Error("Telegram notifier disabled", "error", err)
		return Nop{}
	}
	return t
}

var statusIcon = map[string]string{
	performance.StatusSuccess: "✅",
	performance.StatusPartial: "⚠️",
	performance.StatusFailed:  "❌",
}

// FormatSummary renders a run summary as plain text.
func FormatSummary(s performance.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s\n", statusIcon[s.Status], s.Job, s.Status)
	fmt.Fprintf(&b, "processed %d, succeeded %d, failed %d\n", s.Processed, s.Succeeded, s.Failed)
	fmt.Fprintf(&b, "inserted %d, updated %d, unchanged %d\n", s.Inserted, s.Updated, s.Unchanged)
	fmt.Fprintf(&b, "pages %d (%d failed) in %s", s.Pages, s.PagesFail, s.Duration)
	if s.Error != "" {
		fmt.Fprintf(&b, "\nerror: %s", s.Error)
	}
	return b.String()
}
