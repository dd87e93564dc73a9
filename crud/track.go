package crud

import (
	"context"

	"musicee/domain"
	"musicee/errs"
)

// TrackService manages the track catalog.
// It implements the domain.TrackService interface.
type TrackService struct {
	trackValidator
}

// trackValidator runs validations on incoming Track data.
// On success, it passes the data on to trackStore.
// Otherwise, it returns the error of the validation that has failed.
type trackValidator struct {
	trackStore
}

// trackStore runs CRUD operations on the document store using incoming
// Track data. It assumes that data has been validated.
type trackStore struct {
	store domain.Store
}

// NewTrackService returns an instance of TrackService.
func NewTrackService(store domain.Store) *TrackService {
	return &TrackService{
		trackValidator{
			trackStore{
				store: store,
			},
		},
	}
}

// Ensure the TrackService struct properly implements the domain.TrackService
// interface. If it does not, then this expression becomes invalid and won't compile.
var _ domain.TrackService = &TrackService{}

// Create runs validations needed for creating new Track documents.
func (tv *trackValidator) Create(ctx context.Context, track *domain.Track) error {
	err := runTrackValFns(track,
		tv.nameRequired,
		tv.artistRequired,
		tv.albumRequired,
		tv.genreRequired,
		tv.releaseYearValid)
	if err != nil {
		return err
	}
	return tv.trackStore.Create(ctx, track)
}

// Update runs validations needed for updating Track metadata.
func (tv *trackValidator) Update(ctx context.Context, id string, upd *domain.TrackUpdate) error {
	track := domain.Track{
		Name:        upd.Name,
		Artists:     upd.Artists,
		Album:       upd.Album,
		Genre:       upd.Genre,
		ReleaseYear: upd.ReleaseYear,
	}
	err := runTrackValFns(&track,
		tv.nameRequired,
		tv.artistRequired,
		tv.albumRequired,
		tv.genreRequired,
		tv.releaseYearValid)
	if err != nil {
		return err
	}
	return tv.trackStore.Update(ctx, id, upd)
}

// BulkImport applies the creation path per element. A record that fails
// validation is skipped; only a store failure aborts the batch.
func (tv *trackValidator) BulkImport(ctx context.Context, tracks []*domain.Track) (int, error) {
	imported := 0
	for _, track := range tracks {
		if err := tv.Create(ctx, track); err != nil {
			if errs.ErrorCode(err) == errs.EINVALID {
				continue
			}
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// runTrackValFns runs any number of functions of type trackValFn on the
// passed in Track object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runTrackValFns(track *domain.Track, fns ...trackValFn) error {
	for _, fn := range fns {
		if err := fn(track); err != nil {
			return err
		}
	}
	return nil
}

// A trackValFn is any function that takes in a pointer to a domain.Track
// object and returns an error.
type trackValFn func(track *domain.Track) error

// nameRequired ensures the track name is not empty.
func (tv *trackValidator) nameRequired(track *domain.Track) error {
	if track.Name == "" {
		return errs.Errorf(errs.EINVALID, "A track name is required.")
	}
	return nil
}

// artistRequired ensures at least one non-empty artist is credited.
func (tv *trackValidator) artistRequired(track *domain.Track) error {
	if len(track.Artists) == 0 {
		return errs.Errorf(errs.EINVALID, "At least one artist is required.")
	}
	for _, artist := range track.Artists {
		if artist == "" {
			return errs.Errorf(errs.EINVALID, "An artist name must not be empty.")
		}
	}
	return nil
}

// albumRequired ensures the album name is not empty.
func (tv *trackValidator) albumRequired(track *domain.Track) error {
	if track.Album == "" {
		return errs.Errorf(errs.EINVALID, "An album name is required.")
	}
	return nil
}

// genreRequired ensures the genre is not empty.
func (tv *trackValidator) genreRequired(track *domain.Track) error {
	if track.Genre == "" {
		return errs.Errorf(errs.EINVALID, "A genre is required.")
	}
	return nil
}

// releaseYearValid ensures the release year is plausible.
func (tv *trackValidator) releaseYearValid(track *domain.Track) error {
	if track.ReleaseYear <= 0 {
		return errs.Errorf(errs.EINVALID, "A release year is required.")
	}
	return nil
}

// Create stores a new track document under a freshly generated id.
// On the negligible chance of an id collision it simply draws again.
func (ts *trackStore) Create(ctx context.Context, track *domain.Track) error {
	for {
		id, err := generateID()
		if err != nil {
			return err
		}
		count, err := ts.store.Count(ctx, domain.ColTracks, domain.Filter{"track_id": id})
		if err != nil {
			return err
		}
		if count == 0 {
			track.ID = id
			break
		}
	}
	track.LikeList = []string{}
	track.Comments = []domain.Comment{}
	return ts.store.Insert(ctx, domain.ColTracks, track)
}

// Update replaces the mutable metadata fields of a track. The existence
// check comes first so an absent id fails loudly instead of no-opping.
func (ts *trackStore) Update(ctx context.Context, id string, upd *domain.TrackUpdate) error {
	if _, err := ts.ByID(ctx, id); err != nil {
		return err
	}
	_, err := ts.store.UpdateOne(ctx, domain.ColTracks,
		domain.Filter{"track_id": id},
		domain.Filter{
			"track_name":         upd.Name,
			"track_artist":       upd.Artists,
			"track_album":        upd.Album,
			"genre":              upd.Genre,
			"track_release_year": upd.ReleaseYear,
		})
	return err
}

// Delete removes a track and then fans out over every user document,
// stripping the id from liked songs, like history and comments. The
// fan-out is best-effort per user; a failure surfaces but earlier users
// stay cleaned, and re-running the cascade is harmless.
func (ts *trackStore) Delete(ctx context.Context, id string) error {
	if _, err := ts.ByID(ctx, id); err != nil {
		return err
	}
	if err := ts.store.DeleteOne(ctx, domain.ColTracks, domain.Filter{"track_id": id}); err != nil {
		return err
	}

	users, err := ts.allUsers(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		if !ts.references(user, id) {
			continue
		}
		stamps := make([]domain.LikeStamp, 0, len(user.LikedDates))
		for _, stamp := range user.LikedDates {
			if stamp.TrackID != id {
				stamps = append(stamps, stamp)
			}
		}
		comments := make([]domain.Comment, 0, len(user.Comments))
		for _, comment := range user.Comments {
			if comment.TrackID != id {
				comments = append(comments, comment)
			}
		}
		_, err := ts.store.UpdateOne(ctx, domain.ColUsers,
			domain.Filter{"username": user.Username},
			domain.Filter{
				"liked_songs":      removeString(user.LikedSongs, id),
				"liked_songs_date": stamps,
				"playlist":         removeString(user.Playlist, id),
				"comments":         comments,
			})
		if err != nil {
			return err
		}
	}
	return nil
}

// references reports whether a user document mentions the track at all.
func (ts *trackStore) references(user *domain.User, id string) bool {
	if containsString(user.LikedSongs, id) || containsString(user.Playlist, id) {
		return true
	}
	for _, stamp := range user.LikedDates {
		if stamp.TrackID == id {
			return true
		}
	}
	for _, comment := range user.Comments {
		if comment.TrackID == id {
			return true
		}
	}
	return false
}

func (ts *trackStore) allUsers(ctx context.Context) ([]*domain.User, error) {
	raws, err := ts.store.Find(ctx, domain.ColUsers, domain.Filter{})
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(raws))
	for _, raw := range raws {
		user, err := decodeUser(raw)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// ByID fetches a single track document.
func (ts *trackStore) ByID(ctx context.Context, id string) (*domain.Track, error) {
	raw, err := ts.store.Get(ctx, domain.ColTracks, domain.Filter{"track_id": id})
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil, errs.Errorf(errs.ENOTFOUND, "Track with ID %s does not exist.", id)
		}
		return nil, err
	}
	return decodeTrack(raw)
}

// All returns every track document.
func (ts *trackStore) All(ctx context.Context) ([]*domain.Track, error) {
	return ts.find(ctx, domain.Filter{})
}

// Name returns just the name of a track.
func (ts *trackStore) Name(ctx context.Context, id string) (string, error) {
	track, err := ts.ByID(ctx, id)
	if err != nil {
		return "", err
	}
	return track.Name, nil
}

// ByGenre returns all tracks of a genre.
func (ts *trackStore) ByGenre(ctx context.Context, genre string) ([]*domain.Track, error) {
	return ts.find(ctx, domain.Filter{"genre": genre})
}

// ByArtist returns all tracks crediting the artist, alone or among others.
func (ts *trackStore) ByArtist(ctx context.Context, artist string) ([]*domain.Track, error) {
	return ts.find(ctx, domain.Filter{"track_artist": artist})
}

// ByAlbum returns all tracks of an album.
func (ts *trackStore) ByAlbum(ctx context.Context, album string) ([]*domain.Track, error) {
	return ts.find(ctx, domain.Filter{"track_album": album})
}

func (ts *trackStore) find(ctx context.Context, filter domain.Filter) ([]*domain.Track, error) {
	raws, err := ts.store.Find(ctx, domain.ColTracks, filter)
	if err != nil {
		return nil, err
	}
	tracks := make([]*domain.Track, 0, len(raws))
	for _, raw := range raws {
		track, err := decodeTrack(raw)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}
