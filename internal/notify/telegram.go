// Package notify delivers sweep reports to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liviogabriel1/FinanTech-Dash/internal/scheduler"
)

// maxFailures caps the failures listed in one message. Together with the
// rune caps below it keeps a report under Telegram's 4096 character limit.
const (
	maxFailures   = 10
	maxTitleRunes = 100
	maxErrorRunes = 200
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	api    sender
	chatID int64
	loc    *time.Location
}

func NewTelegram(token string, chatID int64, loc *time.Location) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	return newTelegram(api, chatID, loc), nil
}

func newTelegram(api sender, chatID int64, loc *time.Location) *Telegram {
	if loc == nil {
		loc = time.UTC
	}
	return &Telegram{api: api, chatID: chatID, loc: loc}
}

// Report sends the sweep summary to the configured chat.
func (t *Telegram) Report(_ context.Context, r *scheduler.SweepReport) error {
	text, entities := FormatReport(r, t.loc)
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.Entities = entities

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send sweep report: %w", err)
	}
	return nil
}

// FormatReport renders a sweep report as message text plus entities.
func FormatReport(r *scheduler.SweepReport, loc *time.Location) (string, []tgbotapi.MessageEntity) {
	m := &message{}

	m.bold("Scheduled transactions").
		write(" " + r.At.In(loc).Format("2006-01-02 15:04") + " (" + loc.String() + ")\n\n")

	m.write(fmt.Sprintf("Due: %d\nMaterialized: %d\nSkipped: %d\nFailed: %d", r.Due, r.Materialized, r.Skipped, r.Failed))

	if !r.FinishedAt.IsZero() {
		m.write("\nTook: " + r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String())
	}

	if len(r.Failures) > 0 {
		m.write("\n\n").bold("Failures").write("\n")
		for i, f := range r.Failures {
			if i == maxFailures {
				m.write(fmt.Sprintf("... and %d more\n", len(r.Failures)-maxFailures))
				break
			}
			m.write("• " + truncate(f.Title, maxTitleRunes) + " ").code(f.ScheduleID.String())
			if f.Err != nil {
				m.write(": " + truncate(f.Err.Error(), maxErrorRunes))
			}
			m.write("\n")
		}
	}

	return m.String(), m.entities
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
