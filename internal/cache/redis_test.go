package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore поднимает miniredis и подключённый к нему стор.
func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, s.Connect(context.Background()))
	t.Cleanup(func() { _ = s.Disconnect() })
	return s, mr
}

func TestRedisStore_SetGetExists(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "k1", []byte(`{"a":1}`), TTLShort))
	got, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	ok, err := s.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	// TTL истёк - промах
	mr.FastForward(TTLShort + time.Second)
	_, err = s.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_DeleteByPattern(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	keys := []string{
		"notes:list:page=1",
		"notes:list:page=2",
		"note:n1:detail",
		"note:n1:comments",
		"note:n2:comments",
		"tags:list",
	}
	for _, k := range keys {
		require.NoError(t, s.Set(ctx, k, []byte("x"), TTLMedium))
	}

	n, err := s.DeleteByPattern(ctx, "note:*:comments")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("note:n1:detail"))
	assert.False(t, mr.Exists("note:n1:comments"))

	n, err = s.DeleteByPattern(ctx, "notes:*")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("tags:list"))

	require.NoError(t, s.Delete(ctx, "tags:list"))
	assert.False(t, mr.Exists("tags:list"))
}

func TestRedisStore_ManyKeysAcrossScanPages(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3*scanBatch+7; i++ {
		require.NoError(t, s.Set(ctx, "notes:list:"+strconv.Itoa(i), []byte("x"), TTLMedium))
	}
	n, err := s.DeleteByPattern(ctx, "notes:*")
	require.NoError(t, err)
	assert.Equal(t, 3*scanBatch+7, n)
}

func TestRedisStore_NotConnectedIsNoop(t *testing.T) {
	s := NewRedisStore("redis://127.0.0.1:1")
	ctx := context.Background()
	assert.False(t, s.Connected())

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, s.Set(ctx, "k", []byte("v"), TTLShort))
	assert.NoError(t, s.Delete(ctx, "k"))
	n, err := s.DeleteByPattern(ctx, "*")
	assert.NoError(t, err)
	assert.Zero(t, n)
	ok, err := s.Exists(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, s.Disconnect())
}

func TestRedisStore_ConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	s := NewRedisStore("redis://" + addr)
	assert.Error(t, s.Connect(context.Background()))
	assert.False(t, s.Connected())

	bad := NewRedisStore("invalid://url")
	assert.Error(t, bad.Connect(context.Background()))
}

func TestRedisStore_ServerGoneAfterConnect(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("v"), TTLShort))

	mr.Close()

	// ошибка транспорта не маскируется под промах, но и не паникует
	_, err := s.Get(ctx, "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
	assert.Error(t, s.Ping(ctx))
}
