package lib

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSlot(t *testing.T) {
	db, mock := redismock.NewClientMock()
	slot := NewRedisSlot(db, time.Hour)
	ctx := context.Background()
	key := SlotKey("abc", "auth.jwt")
	assert.Equal(t, "session:abc:auth.jwt", key)

	mock.ExpectGet(key).RedisNil()
	_, ok, err := slot.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectSet(key, "token", time.Hour).SetVal("OK")
	require.NoError(t, slot.Set(ctx, key, "token"))

	mock.ExpectGet(key).SetVal("token")
	v, ok, err := slot.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "token", v)

	mock.ExpectDel(key).SetVal(1)
	require.NoError(t, slot.Delete(ctx, key))

	mock.ExpectGet(key).SetErr(errors.New("connection reset"))
	_, _, err = slot.Get(ctx, key)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemorySlot(t *testing.T) {
	slot := NewMemorySlot()
	ctx := context.Background()

	_, ok, _ := slot.Get(ctx, "k")
	assert.False(t, ok)
	require.NoError(t, slot.Set(ctx, "k", "v"))
	v, ok, _ := slot.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	require.NoError(t, slot.Delete(ctx, "k"))
	_, ok, _ = slot.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNewRedisClientOverridesSingleton(t *testing.T) {
	c := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer NewRedisClient(nil)
	assert.Same(t, c, NewRedisClient(c))
	assert.Same(t, c, GetRedisClient())
}
