package crud

import (
	"context"
	"time"

	"musicee/domain"
	"musicee/errs"
)

// EngagementService records likes, playlist membership and comments.
// It implements the domain.EngagementService interface.
//
// Likes and comments live on both the user and the track document. The
// two writes happen in sequence without a cross-document transaction, so
// a failure in between leaves a half-applied event. Every operation
// re-checks membership before writing, which keeps retries safe.
type EngagementService struct {
	store domain.Store
	now   func() time.Time
}

// NewEngagementService returns an instance of EngagementService. The clock
// is injected so tests can pin "now".
func NewEngagementService(store domain.Store, now func() time.Time) *EngagementService {
	return &EngagementService{
		store: store,
		now:   now,
	}
}

// Ensure the EngagementService struct properly implements the
// domain.EngagementService interface.
var _ domain.EngagementService = &EngagementService{}

// ToggleLike flips the like state of (username, trackID). A like appends
// the track to the user's liked songs, stamps the like history, and adds
// the username to the track's like list; an unlike reverses all three.
func (es *EngagementService) ToggleLike(ctx context.Context, username, trackID string) (bool, error) {
	user, err := es.user(ctx, username)
	if err != nil {
		return false, err
	}
	track, err := es.track(ctx, trackID)
	if err != nil {
		return false, err
	}

	if containsString(user.LikedSongs, trackID) {
		stamps := make([]domain.LikeStamp, 0, len(user.LikedDates))
		for _, stamp := range user.LikedDates {
			if stamp.TrackID != trackID {
				stamps = append(stamps, stamp)
			}
		}
		_, err = es.store.UpdateOne(ctx, domain.ColUsers,
			domain.Filter{"username": username},
			domain.Filter{
				"liked_songs":      removeString(user.LikedSongs, trackID),
				"liked_songs_date": stamps,
			})
		if err != nil {
			return false, err
		}
		_, err = es.store.UpdateOne(ctx, domain.ColTracks,
			domain.Filter{"track_id": trackID},
			domain.Filter{"like_list": removeString(track.LikeList, username)})
		if err != nil {
			return false, errs.Errorf(errs.EINTERNAL, "Unlike of track %s was only partially written.", trackID)
		}
		return false, nil
	}

	stamp := domain.LikeStamp{
		TrackID: trackID,
		LikedAt: es.now().Format(domain.LikeTimeLayout),
	}
	_, err = es.store.UpdateOne(ctx, domain.ColUsers,
		domain.Filter{"username": username},
		domain.Filter{
			"liked_songs":      append(user.LikedSongs, trackID),
			"liked_songs_date": append(user.LikedDates, stamp),
		})
	if err != nil {
		return false, err
	}
	_, err = es.store.UpdateOne(ctx, domain.ColTracks,
		domain.Filter{"track_id": trackID},
		domain.Filter{"like_list": append(track.LikeList, username)})
	if err != nil {
		return false, errs.Errorf(errs.EINTERNAL, "Like of track %s was only partially written.", trackID)
	}
	return true, nil
}

// LikeCount returns how many users currently like the track.
func (es *EngagementService) LikeCount(ctx context.Context, trackID string) (int, error) {
	track, err := es.track(ctx, trackID)
	if err != nil {
		return 0, err
	}
	return len(track.LikeList), nil
}

// LikedSince returns the ids of tracks the user liked within the trailing
// window. Entries whose timestamp does not parse are skipped.
func (es *EngagementService) LikedSince(ctx context.Context, username string, window time.Duration) ([]string, error) {
	if window <= 0 {
		window = domain.LikedSinceDefault
	}
	user, err := es.user(ctx, username)
	if err != nil {
		return nil, err
	}
	cutoff := es.now().Add(-window)
	ids := []string{}
	for _, stamp := range user.LikedDates {
		likedAt, err := time.ParseInLocation(domain.LikeTimeLayout, stamp.LikedAt, time.Local)
		if err != nil {
			continue
		}
		if !likedAt.Before(cutoff) {
			ids = append(ids, stamp.TrackID)
		}
	}
	return ids, nil
}

// TogglePlaylist flips playlist membership of the track for the user.
// The playlist only lives on the user document, so this is a single write.
func (es *EngagementService) TogglePlaylist(ctx context.Context, username, trackID string) (bool, error) {
	user, err := es.user(ctx, username)
	if err != nil {
		return false, err
	}
	inPlaylist := !containsString(user.Playlist, trackID)
	playlist := removeString(user.Playlist, trackID)
	if inPlaylist {
		playlist = append(user.Playlist, trackID)
	}
	_, err = es.store.UpdateOne(ctx, domain.ColUsers,
		domain.Filter{"username": username},
		domain.Filter{"playlist": playlist})
	if err != nil {
		return false, err
	}
	return inPlaylist, nil
}

// PostComment appends the comment to the author's comment list and to the
// track's comment list. Both copies carry the same generated id.
func (es *EngagementService) PostComment(ctx context.Context, username, trackID, text string) (string, error) {
	if text == "" {
		return "", errs.Errorf(errs.EINVALID, "A comment text is required.")
	}
	user, err := es.user(ctx, username)
	if err != nil {
		return "", err
	}
	track, err := es.track(ctx, trackID)
	if err != nil {
		return "", err
	}
	id, err := generateID()
	if err != nil {
		return "", err
	}
	comment := domain.Comment{
		ID:       id,
		Username: username,
		TrackID:  trackID,
		Text:     text,
	}
	_, err = es.store.UpdateOne(ctx, domain.ColUsers,
		domain.Filter{"username": username},
		domain.Filter{"comments": append(user.Comments, comment)})
	if err != nil {
		return "", err
	}
	_, err = es.store.UpdateOne(ctx, domain.ColTracks,
		domain.Filter{"track_id": trackID},
		domain.Filter{"comments": append(track.Comments, comment)})
	if err != nil {
		return "", errs.Errorf(errs.EINTERNAL, "Comment %s was only written to its author.", id)
	}
	return id, nil
}

func (es *EngagementService) user(ctx context.Context, username string) (*domain.User, error) {
	raw, err := es.store.Get(ctx, domain.ColUsers, domain.Filter{"username": username})
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil, errs.Errorf(errs.ENOTFOUND, "User with username %s not found.", username)
		}
		return nil, err
	}
	return decodeUser(raw)
}

func (es *EngagementService) track(ctx context.Context, trackID string) (*domain.Track, error) {
	raw, err := es.store.Get(ctx, domain.ColTracks, domain.Filter{"track_id": trackID})
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil, errs.Errorf(errs.ENOTFOUND, "Track with ID %s does not exist.", trackID)
		}
		return nil, err
	}
	return decodeTrack(raw)
}
