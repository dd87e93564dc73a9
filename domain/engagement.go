package domain

import (
	"context"
	"time"
)

// LikedSinceDefault is the trailing window LikedSince uses when the
// caller does not care to pick one.
const LikedSinceDefault = 180 * 24 * time.Hour

// EngagementService records what users do with tracks: liking, playlist
// membership and comments. Likes and comments are mirrored on both the
// user and the track document, so each mutation here is a dual write.
type EngagementService interface {
	// ToggleLike flips the like state of (username, trackID) on both
	// sides and reports the state after the call.
	ToggleLike(ctx context.Context, username, trackID string) (liked bool, err error)
	LikeCount(ctx context.Context, trackID string) (int, error)
	// LikedSince returns the ids of tracks the user liked within the
	// trailing window, judged against the wall clock at call time.
	LikedSince(ctx context.Context, username string, window time.Duration) ([]string, error)
	// TogglePlaylist flips playlist membership. Unlike likes this only
	// touches the user document.
	TogglePlaylist(ctx context.Context, username, trackID string) (inPlaylist bool, err error)
	PostComment(ctx context.Context, username, trackID, text string) (commentID string, err error)
}
