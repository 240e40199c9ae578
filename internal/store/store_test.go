package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestStore_AbsentCollectionIsEmpty(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	got, err := Load[rec](ctx, s, KeyMovies)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	ok, err := s.Exists(ctx, KeyMovies)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PutReplacesWholeCollection(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, KeyMovies, []rec{{1, "a"}, {2, "b"}, {3, "c"}}))
	require.NoError(t, s.Put(ctx, KeyMovies, []rec{{9, "z"}}))

	got, err := Load[rec](ctx, s, KeyMovies)
	require.NoError(t, err)
	assert.Equal(t, []rec{{9, "z"}}, got)
}

func TestStore_NilSliceStoredAsEmptyArray(t *testing.T) {
	b := NewMemoryBackend()
	s := New(b)
	ctx := context.Background()

	var none []rec
	require.NoError(t, s.Put(ctx, KeyBookings, none))

	raw, err := b.Read(ctx, DefaultPrefix+KeyBookings)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestStore_CorruptPayloadReadsEmpty(t *testing.T) {
	b := NewMemoryBackend()
	s := New(b)
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, DefaultPrefix+KeyCinemas, []byte("{not json")))

	got, err := Load[rec](ctx, s, KeyCinemas)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_CorruptRecordSkipped(t *testing.T) {
	b := NewMemoryBackend()
	s := New(b)
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, DefaultPrefix+KeyUsers, []byte(`[{"id":1,"name":"a"},"oops",{"id":2,"name":"b"}]`)))

	got, err := Load[rec](ctx, s, KeyUsers)
	require.NoError(t, err)
	assert.Equal(t, []rec{{1, "a"}, {2, "b"}}, got)
}

func TestStore_Scalars(t *testing.T) {
	s := NewMemory(WithPrefix("test_"))
	ctx := context.Background()

	_, ok, err := s.GetScalar(ctx, KeyMoviesLastFetch)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetScalar(ctx, KeyMoviesLastFetch, "1700000000000"))
	v, ok, err := s.GetScalar(ctx, KeyMoviesLastFetch)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1700000000000", v)

	require.NoError(t, s.DeleteScalar(ctx, KeyMoviesLastFetch))
	require.NoError(t, s.DeleteScalar(ctx, KeyMoviesLastFetch))
	_, ok, err = s.GetScalar(ctx, KeyMoviesLastFetch)
	require.NoError(t, err)
	assert.False(t, ok)
}
