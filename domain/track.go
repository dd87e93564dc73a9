package domain

import (
	"context"
)

// Track represents a song in the catalog. The ID is a short URL-safe
// random token generated at creation, never supplied by the caller.
// A track may credit several artists. LikeList holds the usernames of
// everyone who currently likes the track and must stay consistent with
// each of those users' liked_songs lists.
type Track struct {
	ID          string    `json:"track_id"`
	Name        string    `json:"track_name"`
	Artists     []string  `json:"track_artist"`
	Album       string    `json:"track_album"`
	Genre       string    `json:"genre"`
	ReleaseYear int       `json:"track_release_year"`
	LikeList    []string  `json:"like_list"`
	Comments    []Comment `json:"comments"`
}

// TrackUpdate holds the mutable metadata fields of a Track. Updating a
// track never touches its like list or comments.
type TrackUpdate struct {
	Name        string   `json:"track_name"`
	Artists     []string `json:"track_artist"`
	Album       string   `json:"track_album"`
	Genre       string   `json:"genre"`
	ReleaseYear int      `json:"track_release_year"`
}

// TrackService is a set of methods to manipulate and work with the Track model.
type TrackService interface {
	Create(ctx context.Context, track *Track) error
	Update(ctx context.Context, id string, upd *TrackUpdate) error
	// Delete removes the track and strips its id from every user's
	// liked songs, like history and comments.
	Delete(ctx context.Context, id string) error
	ByID(ctx context.Context, id string) (*Track, error)
	All(ctx context.Context) ([]*Track, error)
	Name(ctx context.Context, id string) (string, error)
	// BulkImport creates tracks one by one. A bad record skips that
	// record only; the number of tracks actually created is returned.
	BulkImport(ctx context.Context, tracks []*Track) (int, error)
	ByGenre(ctx context.Context, genre string) ([]*Track, error)
	ByArtist(ctx context.Context, artist string) ([]*Track, error)
	ByAlbum(ctx context.Context, album string) ([]*Track, error)
}
