package database

import (
	"context"
	"testing"
	"time"

	"regbot/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetOrCreateIsLazyAndUnique(t *testing.T) {
	ctx := context.Background()
	db := NewMemory()

	reg, err := db.GetOrCreate(ctx, entity.FlowGeneral, 42)
	require.NoError(t, err)
	assert.Equal(t, entity.StateStart, reg.State)
	assert.Equal(t, int64(42), reg.ChatId)

	reg.FullName = "Ali"
	reg.State = entity.StateSchool
	require.NoError(t, db.UpdateRegistration(ctx, reg))

	again, err := db.GetOrCreate(ctx, entity.FlowGeneral, 42)
	require.NoError(t, err)
	assert.Equal(t, "Ali", again.FullName)
	assert.Equal(t, entity.StateSchool, again.State)

	// flows keep separate records for the same chat
	other, err := db.GetOrCreate(ctx, entity.FlowStudyCenter, 42)
	require.NoError(t, err)
	assert.Equal(t, entity.StateStart, other.State)
	assert.Empty(t, other.FullName)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	db := NewMemory()

	reg, err := db.GetOrCreate(ctx, entity.FlowGeneral, 1)
	require.NoError(t, err)
	reg.FullName = "not saved"

	again, err := db.GetOrCreate(ctx, entity.FlowGeneral, 1)
	require.NoError(t, err)
	assert.Empty(t, again.FullName)
}

func TestMemory_SubscribedNewestFirstAndCounts(t *testing.T) {
	ctx := context.Background()
	db := NewMemory()

	for i := int64(1); i <= 3; i++ {
		reg, err := db.GetOrCreate(ctx, entity.FlowGeneral, i)
		require.NoError(t, err)
		reg.IsSubscribed = i != 2
		require.NoError(t, db.UpdateRegistration(ctx, reg))
		time.Sleep(2 * time.Millisecond)
	}

	list, err := db.SubscribedRegistrations(ctx, entity.FlowGeneral)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(3), list[0].ChatId)
	assert.Equal(t, int64(1), list[1].ChatId)

	subscribed, err := db.CountRegistrations(ctx, entity.FlowGeneral, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), subscribed)
	pending, err := db.CountRegistrations(ctx, entity.FlowGeneral, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}

func TestMemory_UnknownFlow(t *testing.T) {
	_, err := NewMemory().GetOrCreate(context.Background(), entity.Flow("other"), 1)
	assert.ErrorIs(t, err, ErrUnknownFlow)
}
