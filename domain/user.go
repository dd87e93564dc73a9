package domain

import (
	"context"
)

// User represents a registered listener. The username doubles as the
// document key and never changes once set. Friendships are stored as a
// plain list of usernames on both sides of the edge, so the friends lists
// of two users must always mirror each other.
type User struct {
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"password"`
	Friends      []string    `json:"friends"`
	LikedSongs   []string    `json:"liked_songs"`
	LikedDates   []LikeStamp `json:"liked_songs_date"`
	Playlist     []string    `json:"playlist"`
	Comments     []Comment   `json:"comments"`
}

// LikeStamp records a single like event. LikedAt keeps the formatted
// local timestamp layout of the existing stored records.
type LikeStamp struct {
	TrackID string `json:"track_id"`
	LikedAt string `json:"liked_at"`
}

// LikeTimeLayout is the timestamp layout of LikeStamp.LikedAt.
const LikeTimeLayout = "2006-01-02 15:04:05"

// Profile is a read-only projection of a User, safe to hand out
// because it omits the password hash.
type Profile struct {
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Friends    []string    `json:"friends"`
	LikedSongs []string    `json:"liked_songs"`
	LikedDates []LikeStamp `json:"liked_songs_date"`
	Playlist   []string    `json:"playlist"`
	Comments   []Comment   `json:"comments"`
}

// UserService is a set of methods to manipulate and work with the User model
// and the friendship graph between users.
type UserService interface {
	Create(ctx context.Context, user *User) error
	ByUsername(ctx context.Context, username string) (*User, error)
	All(ctx context.Context) ([]*User, error)
	AddFriend(ctx context.Context, username, friendUsername string) error
	Friends(ctx context.Context, username string) ([]string, error)
	Details(ctx context.Context, username string) (*Profile, error)
}
