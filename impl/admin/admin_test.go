package admin

import (
	"context"
	"io"
	"log/slog"
	"regbot/entity"
	"regbot/impl/broadcast"
	"regbot/internal/database"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminId = int64(77)

type message struct {
	chatId int64
	text   string
	plain  bool
}

type recorder struct {
	messages []message
	copies   []int64
}

func (r *recorder) SendMessage(_ context.Context, chatId int64, text string, _ *entity.Keyboard) error {
	r.messages = append(r.messages, message{chatId: chatId, text: text})
	return nil
}

func (r *recorder) SendText(_ context.Context, chatId int64, text string) error {
	r.messages = append(r.messages, message{chatId: chatId, text: text, plain: true})
	return nil
}

func (r *recorder) CopyMessage(_ context.Context, toChatId, _, _ int64) error {
	r.copies = append(r.copies, toChatId)
	return nil
}

func (r *recorder) to(chatId int64) []string {
	var out []string
	for _, m := range r.messages {
		if m.chatId == chatId {
			out = append(out, m.text)
		}
	}
	return out
}

func (r *recorder) lastTo(chatId int64) string {
	list := r.to(chatId)
	if len(list) == 0 {
		return ""
	}
	return list[len(list)-1]
}

type fixture struct {
	d     *Dispatcher
	store *database.Memory
	rec   *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := database.NewMemory()
	rec := &recorder{}
	caster := broadcast.New(entity.FlowGeneral, store, rec, log)
	d := New(entity.FlowGeneral, FixedID(adminId), store, rec, caster, broadcast.NewSessions(0), log)
	return &fixture{d: d, store: store, rec: rec}
}

func (f *fixture) add(t *testing.T, chatId int64, grade int, subjects string, subscribed bool) {
	t.Helper()
	ctx := context.Background()
	reg, err := f.store.GetOrCreate(ctx, entity.FlowGeneral, chatId)
	require.NoError(t, err)
	reg.Grade = grade
	reg.Subjects = subjects
	reg.IsSubscribed = subscribed
	reg.State = entity.StateCompleted
	require.NoError(t, f.store.UpdateRegistration(ctx, reg))
}

func (f *fixture) send(t *testing.T, text string) {
	t.Helper()
	require.NoError(t, f.d.Handle(context.Background(), &entity.Update{ChatId: adminId, Text: text, MessageId: 500}))
}

func TestFixedID(t *testing.T) {
	assert.True(t, FixedID(5).IsAdmin(5))
	assert.False(t, FixedID(5).IsAdmin(6))
	assert.False(t, FixedID(0).IsAdmin(0))
}

func TestDispatcher_Menu(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1, 7, "Matematika - Fizika", true)
	f.add(t, 2, 3, "", false)

	f.send(t, "/admin")
	text := f.rec.lastTo(adminId)
	assert.Contains(t, text, "Jami ro'yxatdan o'tganlar: 1")
	assert.Contains(t, text, "Kutilayotganlar: 1")
}

func TestDispatcher_UnknownTextShowsHelp(t *testing.T) {
	f := newFixture(t)
	f.send(t, "salom")
	assert.Equal(t, textHelp, f.rec.lastTo(adminId))
	f.send(t, "/start")
	assert.Equal(t, textHelp, f.rec.lastTo(adminId))
}

func TestDispatcher_Export(t *testing.T) {
	f := newFixture(t)
	f.d.SetExportURL("https://bot.example.uz/admin/export")
	f.send(t, "/export")
	replies := f.rec.to(adminId)
	require.Len(t, replies, 2)
	assert.Equal(t, textExportPrepare, replies[0])
	assert.Contains(t, replies[1], "https://bot.example.uz/admin/export")
}

func TestDispatcher_BroadcastSession(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1, 7, "Matematika - Fizika", true)
	f.add(t, 2, 8, "Biologiya - Kimyo", true)
	f.add(t, 3, 9, "", false)

	f.send(t, "/broadcast")
	assert.Equal(t, textBroadcastOn, f.rec.lastTo(adminId))

	f.send(t, "Dars soat 9 da")
	assert.Equal(t, []string{"Dars soat 9 da"}, f.rec.to(1))
	assert.Equal(t, []string{"Dars soat 9 da"}, f.rec.to(2))
	assert.Empty(t, f.rec.to(3))
	assert.Equal(t, "Yuborildi: 2 ta obunachiga.", f.rec.lastTo(adminId))

	// session is gone, the next message is a normal admin message
	f.send(t, "yana bir xabar")
	assert.Len(t, f.rec.to(1), 1)
	assert.Equal(t, textHelp, f.rec.lastTo(adminId))
}

func TestDispatcher_BroadcastMediaIsCopied(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1, 7, "Matematika - Fizika", true)

	f.send(t, "/broadcast")
	require.NoError(t, f.d.Handle(context.Background(), &entity.Update{ChatId: adminId, MessageId: 501, HasMedia: true}))
	assert.Equal(t, []int64{1}, f.rec.copies)
	assert.Equal(t, "Yuborildi: 1 ta obunachiga.", f.rec.lastTo(adminId))
}

func TestDispatcher_CommandsStillWorkMidSession(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1, 7, "Matematika - Fizika", true)

	f.send(t, "/broadcast")
	f.send(t, "/stat")
	assert.True(t, strings.HasPrefix(f.rec.lastTo(adminId), "📊 <b>To'liq Statistika</b>"))
	assert.Empty(t, f.rec.to(1))

	f.send(t, "/cancel")
	assert.Equal(t, textCancelled, f.rec.lastTo(adminId))
	f.send(t, "/cancel")
	assert.Equal(t, textNoSession, f.rec.lastTo(adminId))
}

func TestDispatcher_InlineBroadcastAndNoTargets(t *testing.T) {
	f := newFixture(t)
	f.send(t, "/broadcast Salom hammaga")
	assert.Equal(t, textNoTargets, f.rec.lastTo(adminId))

	f.add(t, 1, 7, "Matematika - Fizika", true)
	f.send(t, "/broadcast Salom hammaga")
	assert.Equal(t, []string{"Salom hammaga"}, f.rec.to(1))
	assert.Equal(t, "Yuborildi: 1 ta obunachiga.", f.rec.lastTo(adminId))
}

func TestDispatcher_CallbackIsCommand(t *testing.T) {
	f := newFixture(t)
	u := &entity.Update{ChatId: adminId, Callback: &entity.Callback{Id: "x", Data: CmdBroadcast}}
	require.NoError(t, f.d.Handle(context.Background(), u))
	assert.Equal(t, textBroadcastOn, f.rec.lastTo(adminId))
}

func TestDispatcher_MultilineBroadcast(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1, 7, "Matematika - Fizika", true)
	f.add(t, 2, 8, "Biologiya - Kimyo", true)

	f.send(t, "/broadcast\nErtaga dars yo'q.\nDushanba soat 9 da.")
	want := "Ertaga dars yo'q.\nDushanba soat 9 da."
	assert.Equal(t, []string{want}, f.rec.to(1))
	assert.Equal(t, []string{want}, f.rec.to(2))
	assert.Equal(t, "Yuborildi: 2 ta obunachiga.", f.rec.lastTo(adminId))
}

func TestDispatcher_BroadcastTextIsPlain(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1, 7, "Matematika - Fizika", true)

	f.send(t, "/broadcast <b>Diqqat</b>")
	require.Len(t, f.rec.messages, 2)
	assert.Equal(t, message{chatId: 1, text: "<b>Diqqat</b>", plain: true}, f.rec.messages[0])
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		input, command, args string
	}{
		{"/stat", "/stat", ""},
		{"  /broadcast  Salom ", "/broadcast", "Salom"},
		{"/broadcast\tSalom", "/broadcast", "Salom"},
		{"/broadcast\nSalom\nhammaga", "/broadcast", "Salom\nhammaga"},
		{"", "", ""},
	}
	for _, tt := range tests {
		command, args := splitCommand(tt.input)
		assert.Equal(t, tt.command, command, tt.input)
		assert.Equal(t, tt.args, args, tt.input)
	}
}
