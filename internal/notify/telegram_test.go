package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(ctx context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, p)
	return &models.Message{}, f.err
}

func TestNotifySendsFormattedText(t *testing.T) {
	fs := &fakeSender{}
	tg := newTelegram(fs, -1001)

	tg.Notify("new post <b>%s</b> by %s", "Nhà phố Q1", "alice")
	tg.Wait()

	require.Len(t, fs.sent, 1)
	assert.Equal(t, int64(-1001), fs.sent[0].ChatID)
	assert.Equal(t, "new post <b>Nhà phố Q1</b> by alice", fs.sent[0].Text)
	assert.Equal(t, models.ParseModeHTML, fs.sent[0].ParseMode)
}

type postKind string

func TestNotifyEscapesArguments(t *testing.T) {
	fs := &fakeSender{}
	tg := newTelegram(fs, 7)

	tg.Notify("<b>%s</b> %s %d", "Nhà <Q1> & Q2", postKind("<i>land</i>"), 3)
	tg.Wait()

	require.Len(t, fs.sent, 1)
	assert.Equal(t, "<b>Nhà &lt;Q1&gt; &amp; Q2</b> &lt;i&gt;land&lt;/i&gt; 3", fs.sent[0].Text)
}

func TestNotifySwallowsSendErrors(t *testing.T) {
	fs := &fakeSender{err: errors.New("telegram down")}
	tg := newTelegram(fs, 1)

	tg.Notify("a")
	tg.Notify("b")
	tg.Wait()

	assert.Len(t, fs.sent, 2)
}

func TestDisabledTelegramIsNoop(t *testing.T) {
	tg, err := NewTelegram("", 0)
	require.NoError(t, err)
	assert.Nil(t, tg)

	assert.NotPanics(t, func() {
		tg.Notify("dropped %d", 1)
		tg.Wait()
	})
}
