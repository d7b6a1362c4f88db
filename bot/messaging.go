package bot

import (
	"context"
	"log/slog"
	"regbot/lib/sl"
)

// SendMessageWithLevel forwards a log record to the admin chat if the level is high enough.
func (t *TgBot) SendMessageWithLevel(msg string, level slog.Level) {
	if t.adminId == 0 || level < t.minLogLevel {
		return
	}
	for _, part := range splitMessage(msg, maxTelegramMessageLen) {
		if err := t.SendMessage(context.Background(), t.adminId, part, nil); err != nil {
			// below minLogLevel, not forwarded again
			t.log.Warn("notifying admin", sl.Err(err))
			return
		}
	}
}
