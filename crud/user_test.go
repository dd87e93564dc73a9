package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicee/domain"
	"musicee/errs"
	"musicee/store"
)

func newTestUser(username string) *domain.User {
	return &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	us := NewUserService(store.NewMemory())

	require.NoError(t, us.Create(ctx, newTestUser("alice")))

	user, err := us.ByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	// All engagement lists start as empty arrays, never null.
	assert.NotNil(t, user.Friends)
	assert.NotNil(t, user.LikedSongs)
	assert.NotNil(t, user.LikedDates)
	assert.NotNil(t, user.Playlist)
	assert.NotNil(t, user.Comments)
}

func TestUserService_CreateValidations(t *testing.T) {
	ctx := context.Background()
	us := NewUserService(store.NewMemory())
	require.NoError(t, us.Create(ctx, newTestUser("alice")))

	tests := []struct {
		name string
		user *domain.User
		code string
	}{
		{"TakenUsername", newTestUser("alice"), errs.ECONFLICT},
		{"MissingUsername", &domain.User{Email: "x@example.com", PasswordHash: "h"}, errs.EINVALID},
		{"MissingEmail", &domain.User{Username: "bob", PasswordHash: "h"}, errs.EINVALID},
		{"BadEmail", &domain.User{Username: "bob", Email: "not-an-email", PasswordHash: "h"}, errs.EINVALID},
		{"MissingPassword", &domain.User{Username: "bob", Email: "bob@example.com"}, errs.EINVALID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := us.Create(ctx, tt.user)
			assert.Equal(t, tt.code, errs.ErrorCode(err))
		})
	}
}

func TestUserService_CreateNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	us := NewUserService(store.NewMemory())

	user := &domain.User{
		Username:     "alice",
		Email:        "  Alice@Example.COM ",
		PasswordHash: "h",
	}
	require.NoError(t, us.Create(ctx, user))

	got, err := us.ByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestUserService_AddFriend(t *testing.T) {
	ctx := context.Background()
	us := NewUserService(store.NewMemory())
	require.NoError(t, us.Create(ctx, newTestUser("alice")))
	require.NoError(t, us.Create(ctx, newTestUser("bob")))

	require.NoError(t, us.AddFriend(ctx, "alice", "bob"))

	// The edge lands on both documents.
	aliceFriends, err := us.Friends(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, aliceFriends)

	bobFriends, err := us.Friends(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, bobFriends)

	// Repeating the edge in either direction conflicts.
	err = us.AddFriend(ctx, "alice", "bob")
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
	err = us.AddFriend(ctx, "bob", "alice")
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
}

func TestUserService_AddFriendSelf(t *testing.T) {
	ctx := context.Background()
	us := NewUserService(store.NewMemory())
	require.NoError(t, us.Create(ctx, newTestUser("alice")))

	err := us.AddFriend(ctx, "alice", "alice")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestUserService_AddFriendUnknownUser(t *testing.T) {
	ctx := context.Background()
	us := NewUserService(store.NewMemory())
	require.NoError(t, us.Create(ctx, newTestUser("alice")))

	err := us.AddFriend(ctx, "alice", "ghost")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	err = us.AddFriend(ctx, "ghost", "alice")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	// A failed attempt must not leave a half-written edge.
	friends, err := us.Friends(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestUserService_Details(t *testing.T) {
	ctx := context.Background()
	us := NewUserService(store.NewMemory())
	require.NoError(t, us.Create(ctx, newTestUser("alice")))

	profile, err := us.Details(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "alice@example.com", profile.Email)

	_, err = us.Details(ctx, "ghost")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestUserService_All(t *testing.T) {
	ctx := context.Background()
	us := NewUserService(store.NewMemory())
	require.NoError(t, us.Create(ctx, newTestUser("alice")))
	require.NoError(t, us.Create(ctx, newTestUser("bob")))

	users, err := us.All(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
