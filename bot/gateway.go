package bot

import (
	"context"
	"fmt"
	"log/slog"
	"regbot/entity"
	"regbot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

func requestOpts() *tgbotapi.RequestOpts {
	return &tgbotapi.RequestOpts{Timeout: requestTimeout}
}

// SendMessage sends an HTML message; if Telegram rejects the markup the text is
// resent without a parse mode.
func (t *TgBot) SendMessage(_ context.Context, chatId int64, text string, kb *entity.Keyboard) error {
	if text == "" {
		t.log.With("id", chatId).Debug("empty message")
		return nil
	}

	markup := replyMarkup(kb)
	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: markup,
		RequestOpts: requestOpts(),
	})
	if err == nil {
		return nil
	}
	t.log.With(slog.Int64("id", chatId)).Warn("sending message", sl.Err(err))

	_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ReplyMarkup: markup,
		RequestOpts: requestOpts(),
	})
	if err != nil {
		return fmt.Errorf("sending plain message: %w", err)
	}
	return nil
}

// SendText sends the text as is, without a parse mode, so tags and entities
// reach the recipient literally.
func (t *TgBot) SendText(_ context.Context, chatId int64, text string) error {
	if text == "" {
		return nil
	}
	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		RequestOpts: requestOpts(),
	})
	if err != nil {
		return fmt.Errorf("sending text: %w", err)
	}
	return nil
}

// ChatMemberStatus returns the user's status in the channel.
func (t *TgBot) ChatMemberStatus(_ context.Context, channelId, userId int64) (entity.MemberStatus, error) {
	member, err := t.api.GetChatMember(channelId, userId, &tgbotapi.GetChatMemberOpts{
		RequestOpts: requestOpts(),
	})
	if err != nil {
		return "", fmt.Errorf("get chat member: %w", err)
	}
	return entity.MemberStatus(member.GetStatus()), nil
}

// CopyMessage copies any message, media included, from one chat to another.
func (t *TgBot) CopyMessage(_ context.Context, toChatId, fromChatId, messageId int64) error {
	_, err := t.api.CopyMessage(toChatId, fromChatId, messageId, &tgbotapi.CopyMessageOpts{
		RequestOpts: requestOpts(),
	})
	if err != nil {
		return fmt.Errorf("copy message: %w", err)
	}
	return nil
}

// AnswerCallback stops the loading indicator on the pressed button.
func (t *TgBot) AnswerCallback(_ context.Context, callbackId string) error {
	_, err := t.api.AnswerCallbackQuery(callbackId, &tgbotapi.AnswerCallbackQueryOpts{
		RequestOpts: requestOpts(),
	})
	if err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}
