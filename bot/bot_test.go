package bot

import (
	"encoding/json"
	"regbot/entity"
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) *tgbotapi.Update {
	t.Helper()
	var upd tgbotapi.Update
	require.NoError(t, json.Unmarshal([]byte(raw), &upd))
	return &upd
}

func TestUpdateFromTelegram_Message(t *testing.T) {
	upd := decode(t, `{"update_id":10,"message":{"message_id":5,"date":1,"chat":{"id":123,"type":"private"},"text":"/start"}}`)
	u := UpdateFromTelegram(upd)
	require.NotNil(t, u)
	assert.Equal(t, int64(123), u.ChatId)
	assert.Equal(t, "/start", u.Text)
	assert.Equal(t, int64(5), u.MessageId)
	assert.False(t, u.IsCallback())
	assert.True(t, u.IsCommand())
}

func TestUpdateFromTelegram_Contact(t *testing.T) {
	upd := decode(t, `{"update_id":11,"message":{"message_id":6,"date":1,"chat":{"id":123,"type":"private"},
		"contact":{"phone_number":"998901234567","first_name":"Ali"}}}`)
	u := UpdateFromTelegram(upd)
	require.NotNil(t, u)
	assert.Equal(t, "998901234567", u.Phone)
	assert.Empty(t, u.Text)
}

func TestUpdateFromTelegram_Photo(t *testing.T) {
	upd := decode(t, `{"update_id":12,"message":{"message_id":7,"date":1,"chat":{"id":9,"type":"private"},
		"caption":"e'lon","photo":[{"file_id":"a","file_unique_id":"b","width":1,"height":1}]}}`)
	u := UpdateFromTelegram(upd)
	require.NotNil(t, u)
	assert.True(t, u.HasMedia)
	assert.Empty(t, u.Text)
}

func TestUpdateFromTelegram_Callback(t *testing.T) {
	upd := decode(t, `{"update_id":13,"callback_query":{"id":"q1","from":{"id":321,"is_bot":false,"first_name":"Ali"},
		"chat_instance":"x","data":"grade:7"}}`)
	u := UpdateFromTelegram(upd)
	require.NotNil(t, u)
	assert.Equal(t, int64(321), u.ChatId)
	require.True(t, u.IsCallback())
	assert.Equal(t, "q1", u.Callback.Id)
	assert.Equal(t, "grade:7", u.Input())
}

func TestUpdateFromTelegram_Ignored(t *testing.T) {
	upd := decode(t, `{"update_id":14,"edited_message":{"message_id":7,"date":1,"chat":{"id":9,"type":"private"},"text":"x"}}`)
	assert.Nil(t, UpdateFromTelegram(upd))
	assert.Nil(t, UpdateFromTelegram(nil))
}

func TestReplyMarkup(t *testing.T) {
	assert.Nil(t, replyMarkup(nil))

	inline := replyMarkup(entity.InlineKeyboard(
		[]entity.Button{{Text: "1", CallbackData: "grade:1"}, {Text: "2", CallbackData: "grade:2"}},
		[]entity.Button{{Text: "Kanal", Url: "https://t.me/ideal"}},
	))
	markup, ok := inline.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "grade:2", markup.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "https://t.me/ideal", markup.InlineKeyboard[1][0].Url)

	reply, ok := replyMarkup(entity.ReplyKeyboard([]entity.Button{{Text: "Tel", RequestContact: true}})).(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, reply.Keyboard[0][0].RequestContact)
	assert.True(t, reply.ResizeKeyboard)

	remove, ok := replyMarkup(entity.RemoveKeyboard()).(tgbotapi.ReplyKeyboardRemove)
	require.True(t, ok)
	assert.True(t, remove.RemoveKeyboard)
}

func TestSplitMessage(t *testing.T) {
	parts := splitMessage("aaaa\nbbbb\ncccc", 10)
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc"}, parts)
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))
}

func TestSplitMessage_KeepsRunesWhole(t *testing.T) {
	// "ў" and "ғ" are two bytes each, a 5-byte limit falls inside the third character
	text := "ўўўғғғ"
	parts := splitMessage(text, 5)
	assert.Equal(t, []string{"ўў", "ўғ", "ғғ"}, parts)
	for _, p := range parts {
		assert.True(t, utf8.ValidString(p), p)
	}
	assert.Equal(t, text, strings.Join(parts, ""))
}

func TestCommandMenus(t *testing.T) {
	menus := commandMenus(0)
	require.Len(t, menus, 1)
	assert.Equal(t, tgbotapi.BotCommandScopeDefault{}, menus[0].scope)
	assert.Equal(t, commandsUser, menus[0].commands)

	menus = commandMenus(77)
	require.Len(t, menus, 2)
	assert.Equal(t, tgbotapi.BotCommandScopeChat{ChatId: 77}, menus[1].scope)
	assert.Equal(t, commandsAdmin, menus[1].commands)
}
