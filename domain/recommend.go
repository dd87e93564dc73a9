package domain

import (
	"context"
)

// RecommendService derives track suggestions from a user's own likes,
// their friends' likes, and genre/artist co-occurrence. All methods are
// pure reads over the store; none of them mutate anything.
//
// The genre and artist paths differ: ByGenre returns a
// deduplicated set of track ids, ByArtist returns track names and may
// contain duplicates.
type RecommendService interface {
	ByGenre(ctx context.Context, username string) ([]string, error)
	ByArtist(ctx context.Context, username string) ([]string, error)
	// FromFriends fails when the user has no friends at all; an empty
	// friends list is an error condition, not an empty result.
	FromFriends(ctx context.Context, username string) ([]string, error)
	LikesPerArtist(ctx context.Context, username string) (map[string]int, error)
	LikesPerGenre(ctx context.Context, username string) (map[string]int, error)
	LikesPerFriend(ctx context.Context, username string) (map[string]int, error)
	TopTracksPerGenre(ctx context.Context, n int) (map[string][]*Track, error)
}
