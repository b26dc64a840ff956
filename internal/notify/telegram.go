// Package notify posts moderation events to the admins' Telegram chat.
package notify

import (
	"context"
	"fmt"
	"html"
	"log"
	"reflect"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Telegram sends messages to one chat without blocking the caller.
type Telegram struct {
	b       sender
	chatID  int64
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewTelegram returns nil, nil when the channel is not configured; a nil
// *Telegram drops every message.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" || chatID == 0 {
		log.Println("[notify] BOT_TOKEN or LOG_CHANNEL_ID not set, admin notifications disabled")
		return nil, nil
	}
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("notify: telegram bot: %w", err)
	}
	log.Printf("[notify] admin notifications go to chat %d", chatID)
	return newTelegram(b, chatID), nil
}

func newTelegram(s sender, chatID int64) *Telegram {
	return &Telegram{b: s, chatID: chatID, timeout: 5 * time.Second}
}

// Notify formats an HTML message. Markup belongs in format; string
// arguments are escaped.
func (t *Telegram) Notify(format string, args ...any) {
	if t == nil {
		return
	}
	text := fmt.Sprintf(format, escapeArgs(args)...)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		_, err := t.b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    t.chatID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			log.Printf("[notify] send failed: %v", err)
		}
	}()
}

func escapeArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
		if v := reflect.ValueOf(a); v.IsValid() && v.Kind() == reflect.String {
			out[i] = html.EscapeString(v.String())
		}
	}
	return out
}

// Wait blocks until every in-flight message has been sent or has failed.
func (t *Telegram) Wait() {
	if t == nil {
		return
	}
	t.wg.Wait()
}
