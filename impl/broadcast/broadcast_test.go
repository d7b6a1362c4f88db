package broadcast

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regbot/entity"
	"regbot/internal/database"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	to, from, messageId int64
	text                string
}

type stubSender struct {
	failFor    int64
	deliveries []delivery
}

func (s *stubSender) SendText(_ context.Context, chatId int64, text string) error {
	s.deliveries = append(s.deliveries, delivery{to: chatId, text: text})
	if chatId == s.failFor {
		return errors.New("blocked by user")
	}
	return nil
}

func (s *stubSender) CopyMessage(_ context.Context, toChatId, fromChatId, messageId int64) error {
	s.deliveries = append(s.deliveries, delivery{to: toChatId, from: fromChatId, messageId: messageId})
	if toChatId == s.failFor {
		return errors.New("blocked by user")
	}
	return nil
}

func seed(t *testing.T, store *database.Memory, subscribed ...int64) {
	t.Helper()
	ctx := context.Background()
	for _, id := range subscribed {
		reg, err := store.GetOrCreate(ctx, entity.FlowGeneral, id)
		require.NoError(t, err)
		reg.IsSubscribed = true
		require.NoError(t, store.UpdateRegistration(ctx, reg))
	}
	_, err := store.GetOrCreate(ctx, entity.FlowGeneral, 999)
	require.NoError(t, err)
}

func TestBroadcaster_TextCountsEveryTarget(t *testing.T) {
	store := database.NewMemory()
	seed(t, store, 1, 2, 3)
	sender := &stubSender{failFor: 2}
	b := New(entity.FlowGeneral, store, sender, slog.New(slog.NewTextHandler(io.Discard, nil)))

	n, err := b.Send(context.Background(), Payload{Text: "Ertaga dars yo'q"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, sender.deliveries, 3)
	for _, d := range sender.deliveries {
		assert.Equal(t, "Ertaga dars yo'q", d.text)
		assert.NotEqual(t, int64(999), d.to)
	}
}

func TestBroadcaster_TextIsVerbatim(t *testing.T) {
	store := database.NewMemory()
	seed(t, store, 4)
	sender := &stubSender{}
	b := New(entity.FlowGeneral, store, sender, slog.New(slog.NewTextHandler(io.Discard, nil)))

	text := "<b>Diqqat</b> & 5 < 7"
	_, err := b.Send(context.Background(), Payload{Text: text})
	require.NoError(t, err)
	require.Len(t, sender.deliveries, 1)
	assert.Equal(t, delivery{to: 4, text: text}, sender.deliveries[0])
}

func TestBroadcaster_CopiesMedia(t *testing.T) {
	store := database.NewMemory()
	seed(t, store, 5)
	sender := &stubSender{}
	b := New(entity.FlowGeneral, store, sender, slog.New(slog.NewTextHandler(io.Discard, nil)))

	n, err := b.Send(context.Background(), Payload{FromChatId: 42, MessageId: 77})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, delivery{to: 5, from: 42, messageId: 77}, sender.deliveries[0])
}

func TestBroadcaster_NoTargets(t *testing.T) {
	sender := &stubSender{}
	b := New(entity.FlowGeneral, database.NewMemory(), sender, slog.New(slog.NewTextHandler(io.Discard, nil)))

	n, err := b.Send(context.Background(), Payload{Text: "hi"})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, sender.deliveries)
}

func TestSessions_LazyExpiry(t *testing.T) {
	now := time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC)
	s := NewSessions(10 * time.Minute)
	s.now = func() time.Time { return now }

	assert.False(t, s.Active(1))
	s.Open(1)
	assert.True(t, s.Active(1))

	now = now.Add(9 * time.Minute)
	assert.True(t, s.Active(1))

	now = now.Add(time.Minute)
	assert.False(t, s.Active(1))
	assert.False(t, s.Clear(1))
}

func TestSessions_Clear(t *testing.T) {
	s := NewSessions(0)
	s.Open(1)
	assert.True(t, s.Clear(1))
	assert.False(t, s.Active(1))
	assert.False(t, s.Clear(1))
}
