package bot

import (
	"regbot/entity"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

func replyMarkup(kb *entity.Keyboard) tgbotapi.ReplyMarkup {
	if kb == nil {
		return nil
	}
	switch {
	case kb.Remove:
		return tgbotapi.ReplyKeyboardRemove{RemoveKeyboard: true}
	case len(kb.Reply) > 0:
		return buildReplyKeyboard(kb.Reply)
	case len(kb.Inline) > 0:
		return buildInlineKeyboard(kb.Inline)
	default:
		return nil
	}
}

func buildInlineKeyboard(rows [][]entity.Button) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.InlineKeyboardButton{
				Text:         b.Text,
				Url:          b.Url,
				CallbackData: b.CallbackData,
			})
		}
		keyboard = append(keyboard, buttons)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}

func buildReplyKeyboard(rows [][]entity.Button) tgbotapi.ReplyKeyboardMarkup {
	keyboard := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.KeyboardButton{
				Text:           b.Text,
				RequestContact: b.RequestContact,
			})
		}
		keyboard = append(keyboard, buttons)
	}
	return tgbotapi.ReplyKeyboardMarkup{
		Keyboard:        keyboard,
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}
