package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetflow/navigator/backend/internal/store"
	"github.com/fleetflow/navigator/backend/testutil"
)

func TestSQLiteKV_PutGet_RoundTrip(t *testing.T) {
	kv := testutil.NewKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "trips", []byte(`[{"id":"TRIP-1"}]`)))

	got, err := kv.Get(ctx, "trips")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"TRIP-1"}]`, string(got))
}

func TestSQLiteKV_Get_AbsentKey_ErrNoKey(t *testing.T) {
	kv := testutil.NewKV(t)

	_, err := kv.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, store.ErrNoKey)
}

func TestSQLiteKV_Put_ReplacesExisting(t *testing.T) {
	kv := testutil.NewKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "pref/darkmode/driver1", []byte("true")))
	require.NoError(t, kv.Put(ctx, "pref/darkmode/driver1", []byte("false")))

	got, err := kv.Get(ctx, "pref/darkmode/driver1")
	require.NoError(t, err)
	assert.Equal(t, "false", string(got))
}

func TestSQLiteKV_Delete_RemovesKey(t *testing.T) {
	kv := testutil.NewKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "session/abc", []byte(`{}`)))
	require.NoError(t, kv.Delete(ctx, "session/abc"))

	_, err := kv.Get(ctx, "session/abc")
	assert.ErrorIs(t, err, store.ErrNoKey)
}

func TestSQLiteKV_Delete_AbsentKey_NoError(t *testing.T) {
	kv := testutil.NewKV(t)

	assert.NoError(t, kv.Delete(context.Background(), "never-existed"))
}
