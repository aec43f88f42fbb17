package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petpal/internal/model"
)

func newTestKV(t *testing.T) *KV {
	t.Helper()
	db, err := NewDB("file::memory:?cache=shared")
	require.NoError(t, err)
	return NewKV(db)
}

func TestKVLoadAbsentKey(t *testing.T) {
	kv := newTestKV(t)

	value, ok, err := kv.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestKVSaveLoadRoundtrip(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Save(ctx, "greeting", []byte(`{"hello":"world"}`)))

	value, ok, err := kv.Load(ctx, "greeting")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"hello":"world"}`, string(value))

	// Saving the same key again overwrites.
	require.NoError(t, kv.Save(ctx, "greeting", []byte(`{"hello":"again"}`)))
	value, _, err = kv.Load(ctx, "greeting")
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"again"}`, string(value))
}

func TestReminderStoreAppendCompleteDelete(t *testing.T) {
	kv := newTestKV(t)
	store := NewReminderStore(kv)
	ctx := context.Background()

	events, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	batch := []model.ReminderEvent{
		{ID: "e1", Date: "2024-05-10", Title: "Pills", Type: model.EventMedication, PetID: "p1", Time: "09:00"},
		{ID: "e2", Date: "2024-05-11", Title: "Walk", Type: model.EventPlay, PetID: "p1", Time: "14:00"},
	}
	require.NoError(t, store.Append(ctx, batch))

	require.NoError(t, store.SetCompleted(ctx, "e1", true))
	events, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].Completed)
	assert.False(t, events[1].Completed)

	require.NoError(t, store.Delete(ctx, "e2"))
	events, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)

	assert.ErrorIs(t, store.Delete(ctx, "e2"), ErrNotFound)
	assert.ErrorIs(t, store.SetCompleted(ctx, "nope", true), ErrNotFound)
}

func TestPetStorePrimaryIsFirstRegistered(t *testing.T) {
	kv := newTestKV(t)
	store := NewPetStore(kv)
	ctx := context.Background()

	_, err := store.Primary(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Add(ctx, model.Pet{ID: "p1", Name: "Rex", Species: "dog"}))
	require.NoError(t, store.Add(ctx, model.Pet{ID: "p2", Name: "Whiskers", Species: "cat"}))

	primary, err := store.Primary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p1", primary.ID)

	byName, err := store.FindByName(ctx, "whiskers")
	require.NoError(t, err)
	assert.Equal(t, "p2", byName.ID)
}

func TestMoodStoreLogAndHistory(t *testing.T) {
	kv := newTestKV(t)
	store := NewMoodStore(kv)
	ctx := context.Background()

	require.NoError(t, store.Log(ctx, "2024-05-10", "p1", model.MoodHappy))
	require.NoError(t, store.Log(ctx, "2024-05-10", "p2", model.MoodSick))
	// Same day, same pet: overwrite.
	require.NoError(t, store.Log(ctx, "2024-05-10", "p1", model.MoodSleepy))

	history, err := store.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.MoodSleepy, history["2024-05-10"]["p1"])
	assert.Equal(t, model.MoodSick, history["2024-05-10"]["p2"])
}
