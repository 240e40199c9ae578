package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBackend_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := New(NewRedisBackend(rdb))
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, KeyMovies, []rec{{7, "seven"}}))
	assert.True(t, mr.Exists(DefaultPrefix+KeyMovies))

	got, err := Load[rec](ctx, s, KeyMovies)
	require.NoError(t, err)
	assert.Equal(t, []rec{{7, "seven"}}, got)

	require.NoError(t, s.SetScalar(ctx, KeyCurrentUser, `{"id":1}`))
	v, ok, err := s.GetScalar(ctx, KeyCurrentUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":1}`, v)

	require.NoError(t, s.DeleteScalar(ctx, KeyCurrentUser))
	_, ok, err = s.GetScalar(ctx, KeyCurrentUser)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBackend_CorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := New(NewRedisBackend(rdb))
	defer s.Close()

	require.NoError(t, mr.Set(DefaultPrefix+KeyBookings, "]["))

	got, err := Load[rec](context.Background(), s, KeyBookings)
	require.NoError(t, err)
	assert.Empty(t, got)
}
