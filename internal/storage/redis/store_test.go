package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, 24*time.Hour), mr
}

func TestStore_ReadExisting(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("session:s1:cart", `{"items":[]}`))

	val, ok, err := store.Read(context.Background(), "session:s1:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"items":[]}`, val)
}

func TestStore_ReadMissingIsNotAnError(t *testing.T) {
	store, _ := setupTestRedis(t)

	val, ok, err := store.Read(context.Background(), "session:s1:missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, val)
}

func TestStore_WriteSetsTTL(t *testing.T) {
	store, mr := setupTestRedis(t)

	require.NoError(t, store.Write(context.Background(), "session:s1:user_id", "42"))

	assert.True(t, mr.Exists("session:s1:user_id"))
	mr.CheckGet(t, "session:s1:user_id", "42")
	assert.Greater(t, mr.TTL("session:s1:user_id"), time.Duration(0))
}

func TestStore_WriteOverwrites(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("session:s1:user_id", "1"))

	require.NoError(t, store.Write(context.Background(), "session:s1:user_id", "2"))
	mr.CheckGet(t, "session:s1:user_id", "2")
}

func TestStore_Remove(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("session:s1:cart", "x"))

	require.NoError(t, store.Remove(context.Background(), "session:s1:cart"))
	assert.False(t, mr.Exists("session:s1:cart"))
}

func TestStore_RemoveMissingIsNoop(t *testing.T) {
	store, _ := setupTestRedis(t)
	assert.NoError(t, store.Remove(context.Background(), "session:s1:nothing"))
}
