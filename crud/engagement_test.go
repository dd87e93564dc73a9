package crud

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicee/domain"
	"musicee/errs"
	"musicee/store"
)

// engagementFixture wires the services every engagement test needs onto
// one shared memory store, with a pinned clock.
type engagementFixture struct {
	us  *UserService
	ts  *TrackService
	es  *EngagementService
	now time.Time
}

func newEngagementFixture(t *testing.T) *engagementFixture {
	t.Helper()
	st := store.NewMemory()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
	return &engagementFixture{
		us:  NewUserService(st),
		ts:  NewTrackService(st),
		es:  NewEngagementService(st, func() time.Time { return now }),
		now: now,
	}
}

func (f *engagementFixture) user(t *testing.T, username string) {
	t.Helper()
	require.NoError(t, f.us.Create(context.Background(), newTestUser(username)))
}

func (f *engagementFixture) track(t *testing.T, name string) string {
	t.Helper()
	track := newTestTrack(name)
	require.NoError(t, f.ts.Create(context.Background(), track))
	return track.ID
}

func TestEngagementService_ToggleLike(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	f.user(t, "alice")
	trackID := f.track(t, "Sinnerman")

	liked, err := f.es.ToggleLike(ctx, "alice", trackID)
	require.NoError(t, err)
	assert.True(t, liked)

	// The like lands on both sides with a stamped timestamp.
	alice, err := f.us.ByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{trackID}, alice.LikedSongs)
	require.Len(t, alice.LikedDates, 1)
	assert.Equal(t, trackID, alice.LikedDates[0].TrackID)
	assert.Equal(t, f.now.Format(domain.LikeTimeLayout), alice.LikedDates[0].LikedAt)

	count, err := f.es.LikeCount(ctx, trackID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The second toggle undoes the first completely.
	liked, err = f.es.ToggleLike(ctx, "alice", trackID)
	require.NoError(t, err)
	assert.False(t, liked)

	alice, err = f.us.ByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, alice.LikedSongs)
	assert.Empty(t, alice.LikedDates)

	count, err = f.es.LikeCount(ctx, trackID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestEngagementService_ToggleLikeUnknown(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	f.user(t, "alice")
	trackID := f.track(t, "Sinnerman")

	_, err := f.es.ToggleLike(ctx, "ghost", trackID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	_, err = f.es.ToggleLike(ctx, "alice", "missing")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestEngagementService_LikedSince(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	f.user(t, "alice")
	recent := f.track(t, "Recent")
	stale := f.track(t, "Stale")

	_, err := f.es.ToggleLike(ctx, "alice", recent)
	require.NoError(t, err)
	_, err = f.es.ToggleLike(ctx, "alice", stale)
	require.NoError(t, err)

	// Backdate one like past the default window, keep one inside it.
	stamps := []domain.LikeStamp{
		{TrackID: recent, LikedAt: f.now.Add(-10 * 24 * time.Hour).Format(domain.LikeTimeLayout)},
		{TrackID: stale, LikedAt: f.now.Add(-200 * 24 * time.Hour).Format(domain.LikeTimeLayout)},
	}
	_, err = f.es.store.UpdateOne(ctx, domain.ColUsers,
		domain.Filter{"username": "alice"},
		domain.Filter{"liked_songs_date": stamps})
	require.NoError(t, err)

	ids, err := f.es.LikedSince(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{recent}, ids)

	// A wider window picks the stale like back up.
	ids, err = f.es.LikedSince(ctx, "alice", 365*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{recent, stale}, ids)
}

func TestEngagementService_LikedSinceSkipsBadStamps(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	f.user(t, "alice")

	stamps := []domain.LikeStamp{
		{TrackID: "t1", LikedAt: "not a timestamp"},
		{TrackID: "t2", LikedAt: f.now.Format(domain.LikeTimeLayout)},
	}
	_, err := f.es.store.UpdateOne(ctx, domain.ColUsers,
		domain.Filter{"username": "alice"},
		domain.Filter{"liked_songs_date": stamps})
	require.NoError(t, err)

	ids, err := f.es.LikedSince(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, ids)
}

func TestEngagementService_TogglePlaylist(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	f.user(t, "alice")
	trackID := f.track(t, "Sinnerman")

	in, err := f.es.TogglePlaylist(ctx, "alice", trackID)
	require.NoError(t, err)
	assert.True(t, in)

	alice, err := f.us.ByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{trackID}, alice.Playlist)

	in, err = f.es.TogglePlaylist(ctx, "alice", trackID)
	require.NoError(t, err)
	assert.False(t, in)

	alice, err = f.us.ByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, alice.Playlist)
}

func TestEngagementService_PostComment(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	f.user(t, "alice")
	trackID := f.track(t, "Sinnerman")

	id, err := f.es.PostComment(ctx, "alice", trackID, "timeless")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	// The same comment, same id, shows up on both documents.
	alice, err := f.us.ByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, alice.Comments, 1)
	assert.Equal(t, id, alice.Comments[0].ID)
	assert.Equal(t, "timeless", alice.Comments[0].Text)

	track, err := f.ts.ByID(ctx, trackID)
	require.NoError(t, err)
	require.Len(t, track.Comments, 1)
	assert.Equal(t, id, track.Comments[0].ID)
	assert.Equal(t, "alice", track.Comments[0].Username)
}

func TestEngagementService_PostCommentEmpty(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	f.user(t, "alice")
	trackID := f.track(t, "Sinnerman")

	_, err := f.es.PostComment(ctx, "alice", trackID, "")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}
