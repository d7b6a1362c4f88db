package bot

import (
	"regbot/entity"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// UpdateFromTelegram converts the update kinds the flows react to. Everything
// else (edits, channel posts, inline queries) yields nil.
func UpdateFromTelegram(upd *tgbotapi.Update) *entity.Update {
	if upd == nil {
		return nil
	}

	if cq := upd.CallbackQuery; cq != nil {
		return &entity.Update{
			UpdateId: upd.UpdateId,
			// registration bots only run in private chats, where chat id equals user id
			ChatId: cq.From.Id,
			Callback: &entity.Callback{
				Id:   cq.Id,
				Data: cq.Data,
			},
		}
	}

	msg := upd.Message
	if msg == nil {
		return nil
	}
	u := &entity.Update{
		UpdateId:  upd.UpdateId,
		ChatId:    msg.Chat.Id,
		Text:      msg.Text,
		MessageId: msg.MessageId,
		HasMedia:  hasMedia(msg),
	}
	if msg.Contact != nil {
		u.Phone = msg.Contact.PhoneNumber
	}
	return u
}

func hasMedia(msg *tgbotapi.Message) bool {
	return len(msg.Photo) > 0 ||
		msg.Video != nil ||
		msg.Document != nil ||
		msg.Audio != nil ||
		msg.Voice != nil ||
		msg.Animation != nil ||
		msg.VideoNote != nil ||
		msg.Sticker != nil
}
