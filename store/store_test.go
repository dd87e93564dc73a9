package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicee/domain"
	"musicee/errs"
)

// TestStoreConformance runs the same behavioral suite against every
// backend that can run without external services. The gorm backend
// shares matches and applyPatch with these two, so filter semantics are
// covered for it as well.
func TestStoreConformance(t *testing.T) {
	backends := map[string]func(t *testing.T) domain.Store{
		"memory": func(t *testing.T) domain.Store {
			return NewMemory()
		},
		"badger": func(t *testing.T) domain.Store {
			s, err := OpenBadger("")
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			t.Run("GetAndFind", func(t *testing.T) { testGetAndFind(t, open(t)) })
			t.Run("ArrayContains", func(t *testing.T) { testArrayContains(t, open(t)) })
			t.Run("UpdateOne", func(t *testing.T) { testUpdateOne(t, open(t)) })
			t.Run("DeleteOne", func(t *testing.T) { testDeleteOne(t, open(t)) })
			t.Run("Count", func(t *testing.T) { testCount(t, open(t)) })
			t.Run("InsertOverwritesSameKey", func(t *testing.T) { testInsertOverwrites(t, open(t)) })
		})
	}
}

func testGetAndFind(t *testing.T, s domain.Store) {
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, domain.ColUsers, map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
	}))
	require.NoError(t, s.Insert(ctx, domain.ColUsers, map[string]any{
		"username": "bob",
		"email":    "bob@example.com",
	}))

	raw, err := s.Get(ctx, domain.ColUsers, domain.Filter{"username": "alice"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "alice@example.com")

	_, err = s.Get(ctx, domain.ColUsers, domain.Filter{"username": "carol"})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	all, err := s.Find(ctx, domain.ColUsers, domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := s.Find(ctx, domain.ColUsers, domain.Filter{"email": "nobody@example.com"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testArrayContains(t *testing.T, s domain.Store) {
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, domain.ColTracks, map[string]any{
		"track_id":     "t1",
		"track_artist": []string{"Nina", "Miles"},
	}))
	require.NoError(t, s.Insert(ctx, domain.ColTracks, map[string]any{
		"track_id":     "t2",
		"track_artist": []string{"Miles"},
	}))

	hits, err := s.Find(ctx, domain.ColTracks, domain.Filter{"track_artist": "Miles"})
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = s.Find(ctx, domain.ColTracks, domain.Filter{"track_artist": "Nina"})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func testUpdateOne(t *testing.T, s domain.Store) {
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, domain.ColTracks, map[string]any{
		"track_id":   "t1",
		"track_name": "Old Name",
		"genre":      "jazz",
	}))

	raw, err := s.UpdateOne(ctx, domain.ColTracks,
		domain.Filter{"track_id": "t1"},
		domain.Filter{"track_name": "New Name"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "New Name")

	// Patches replace only the named fields.
	raw, err = s.Get(ctx, domain.ColTracks, domain.Filter{"track_id": "t1"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "jazz")
	assert.NotContains(t, string(raw), "Old Name")

	_, err = s.UpdateOne(ctx, domain.ColTracks,
		domain.Filter{"track_id": "missing"},
		domain.Filter{"track_name": "x"})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func testDeleteOne(t *testing.T, s domain.Store) {
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, domain.ColTracks, map[string]any{"track_id": "t1"}))

	require.NoError(t, s.DeleteOne(ctx, domain.ColTracks, domain.Filter{"track_id": "t1"}))

	_, err := s.Get(ctx, domain.ColTracks, domain.Filter{"track_id": "t1"})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	err = s.DeleteOne(ctx, domain.ColTracks, domain.Filter{"track_id": "t1"})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func testCount(t *testing.T, s domain.Store) {
	ctx := context.Background()
	require.NoError(t, s.InsertMany(ctx, domain.ColTracks, []any{
		map[string]any{"track_id": "t1", "genre": "jazz"},
		map[string]any{"track_id": "t2", "genre": "jazz"},
		map[string]any{"track_id": "t3", "genre": "rock"},
	}))

	n, err := s.Count(ctx, domain.ColTracks, domain.Filter{"genre": "jazz"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Count(ctx, domain.ColTracks, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func testInsertOverwrites(t *testing.T, s domain.Store) {
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, domain.ColUsers, map[string]any{
		"username": "alice", "email": "old@example.com",
	}))
	require.NoError(t, s.Insert(ctx, domain.ColUsers, map[string]any{
		"username": "alice", "email": "new@example.com",
	}))

	n, err := s.Count(ctx, domain.ColUsers, domain.Filter{"username": "alice"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	raw, err := s.Get(ctx, domain.ColUsers, domain.Filter{"username": "alice"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "new@example.com")
}

func TestMatches(t *testing.T) {
	doc := map[string]any{
		"username": "alice",
		"age":      float64(30),
		"friends":  []any{"bob", "carol"},
	}

	assert.True(t, matches(doc, domain.Filter{}))
	assert.True(t, matches(doc, domain.Filter{"username": "alice"}))
	assert.False(t, matches(doc, domain.Filter{"username": "bob"}))
	assert.False(t, matches(doc, domain.Filter{"missing": "x"}))

	// Array fields match on membership.
	assert.True(t, matches(doc, domain.Filter{"friends": "bob"}))
	assert.False(t, matches(doc, domain.Filter{"friends": "dave"}))

	// JSON numbers decode as float64; filters may carry ints.
	assert.True(t, matches(doc, domain.Filter{"age": 30}))
	assert.False(t, matches(doc, domain.Filter{"age": 31}))
}

func TestApplyPatch(t *testing.T) {
	doc := map[string]any{
		"track_id":   "t1",
		"track_name": "Old",
		"genre":      "jazz",
	}
	applyPatch(doc, domain.Filter{"track_name": "New", "like_list": []string{"alice"}})

	assert.Equal(t, "New", doc["track_name"])
	assert.Equal(t, "jazz", doc["genre"])
	assert.Equal(t, []string{"alice"}, doc["like_list"])
}
