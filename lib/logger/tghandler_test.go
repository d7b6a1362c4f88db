package logger

import (
	"errors"
	"io"
	"log/slog"
	"regbot/lib/sl"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	messages []string
	levels   []slog.Level
}

func (c *captured) SendMessageWithLevel(msg string, level slog.Level) {
	c.messages = append(c.messages, msg)
	c.levels = append(c.levels, level)
}

func TestTelegramHandler_ForwardsErrorsOnly(t *testing.T) {
	notifier := &captured{}
	base := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := slog.New(NewTelegramHandler(base, notifier, slog.LevelError))

	log.Info("registration reset")
	log.Warn("stale transition")
	log.With(sl.Module("flow")).Error("update <failed>", sl.Err(errors.New("db down")), slog.Int64("chat_id", 42))

	require.Len(t, notifier.messages, 1)
	msg := notifier.messages[0]
	assert.Equal(t, slog.LevelError, notifier.levels[0])
	assert.Contains(t, msg, "<b>ERROR</b> <code>update &lt;failed&gt;</code>")
	assert.Contains(t, msg, "mod: flow")
	assert.Contains(t, msg, "error: <pre>db down</pre>")
	assert.Contains(t, msg, "chat_id: 42")
}

func TestTelegramHandler_Group(t *testing.T) {
	notifier := &captured{}
	base := slog.NewTextHandler(io.Discard, nil)
	log := slog.New(NewTelegramHandler(base, notifier, slog.LevelError)).WithGroup("http")

	log.Error("panic")
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "<code>http.panic</code>")
}
