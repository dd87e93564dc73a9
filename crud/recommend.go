package crud

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"musicee/domain"
	"musicee/errs"
)

// RecommendService derives track suggestions from likes, friendships and
// genre/artist co-occurrence. It implements the domain.RecommendService
// interface. All methods are reads; nothing here mutates the store.
type RecommendService struct {
	store domain.Store

	// rng guarded by mu; *rand.Rand is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRecommendService returns an instance of RecommendService using the
// given sampling source.
func NewRecommendService(store domain.Store, rng *rand.Rand) *RecommendService {
	return &RecommendService{
		store: store,
		rng:   rng,
	}
}

// Ensure the RecommendService struct properly implements the
// domain.RecommendService interface.
var _ domain.RecommendService = &RecommendService{}

// ByGenre suggests tracks sharing a genre with the user's liked tracks.
// Per liked track it samples from the genre's other tracks: none when the
// genre has no others, as many as there are when it has one or two, and
// exactly three otherwise, drawn with replacement. The combined result is
// a deduplicated set of track ids.
func (rs *RecommendService) ByGenre(ctx context.Context, username string) ([]string, error) {
	user, err := rs.user(ctx, username)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	result := []string{}
	for _, likedID := range user.LikedSongs {
		liked, err := rs.track(ctx, likedID)
		if err != nil {
			if errs.ErrorCode(err) == errs.ENOTFOUND {
				continue
			}
			return nil, err
		}
		sameGenre, err := rs.tracks(ctx, domain.Filter{"genre": liked.Genre})
		if err != nil {
			return nil, err
		}
		candidates := []string{}
		for _, track := range sameGenre {
			if track.ID != likedID {
				candidates = append(candidates, track.ID)
			}
		}
		k := len(candidates)
		if k == 0 {
			continue
		}
		if k > 3 {
			k = 3
		}
		for _, id := range rs.choices(candidates, k) {
			if !seen[id] {
				seen[id] = true
				result = append(result, id)
			}
		}
	}
	return result, nil
}

// ByArtist suggests tracks sharing at least one credited artist with the
// user's liked tracks, up to three per liked track, drawn without
// replacement. It returns track names, concatenated across liked tracks
// with no final dedup pass; the same name can appear more than once.
func (rs *RecommendService) ByArtist(ctx context.Context, username string) ([]string, error) {
	user, err := rs.user(ctx, username)
	if err != nil {
		return nil, err
	}

	result := []string{}
	for _, likedID := range user.LikedSongs {
		liked, err := rs.track(ctx, likedID)
		if err != nil {
			if errs.ErrorCode(err) == errs.ENOTFOUND {
				continue
			}
			return nil, err
		}
		seen := map[string]bool{likedID: true}
		names := []string{}
		for _, artist := range liked.Artists {
			sameArtist, err := rs.tracks(ctx, domain.Filter{"track_artist": artist})
			if err != nil {
				return nil, err
			}
			for _, track := range sameArtist {
				if !seen[track.ID] {
					seen[track.ID] = true
					names = append(names, track.Name)
				}
			}
		}
		if len(names) == 0 {
			continue
		}
		k := len(names)
		if k > 3 {
			k = 3
		}
		result = append(result, rs.sample(names, k)...)
	}
	return result, nil
}

// FromFriends suggests tracks the user's friends like. A friend with no
// likes contributes nothing, a friend with exactly one like contributes
// that track, and a friend with more gets sampled five times with
// replacement. The running result is a set, so dupes across friends drop.
func (rs *RecommendService) FromFriends(ctx context.Context, username string) ([]string, error) {
	user, err := rs.user(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(user.Friends) == 0 {
		return nil, errs.Errorf(errs.EINVALID, "User %s has no friends.", username)
	}

	seen := map[string]bool{}
	result := []string{}
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	for _, friendName := range user.Friends {
		friend, err := rs.user(ctx, friendName)
		if err != nil {
			if errs.ErrorCode(err) == errs.ENOTFOUND {
				continue
			}
			return nil, err
		}
		switch len(friend.LikedSongs) {
		case 0:
		case 1:
			add(friend.LikedSongs[0])
		default:
			for _, id := range rs.choices(friend.LikedSongs, 5) {
				add(id)
			}
		}
	}
	return result, nil
}

// LikesPerArtist counts the user's likes per credited artist. A track
// crediting several artists counts once for each of them.
func (rs *RecommendService) LikesPerArtist(ctx context.Context, username string) (map[string]int, error) {
	counts := map[string]int{}
	err := rs.eachLikedTrack(ctx, username, func(track *domain.Track) {
		for _, artist := range track.Artists {
			counts[artist]++
		}
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// LikesPerGenre counts the user's likes per genre.
func (rs *RecommendService) LikesPerGenre(ctx context.Context, username string) (map[string]int, error) {
	counts := map[string]int{}
	err := rs.eachLikedTrack(ctx, username, func(track *domain.Track) {
		counts[track.Genre]++
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// LikesPerFriend reports each friend's total liked-song count, a plain
// popularity snapshot rather than an overlap with the caller.
func (rs *RecommendService) LikesPerFriend(ctx context.Context, username string) (map[string]int, error) {
	user, err := rs.user(ctx, username)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, friendName := range user.Friends {
		friend, err := rs.user(ctx, friendName)
		if err != nil {
			if errs.ErrorCode(err) == errs.ENOTFOUND {
				continue
			}
			return nil, err
		}
		counts[friendName] = len(friend.LikedSongs)
	}
	return counts, nil
}

// TopTracksPerGenre groups the whole catalog by genre and keeps the n most
// liked tracks of each, in descending like-count order. n defaults to 3.
func (rs *RecommendService) TopTracksPerGenre(ctx context.Context, n int) (map[string][]*domain.Track, error) {
	if n <= 0 {
		n = 3
	}
	tracks, err := rs.tracks(ctx, domain.Filter{})
	if err != nil {
		return nil, err
	}
	byGenre := map[string][]*domain.Track{}
	for _, track := range tracks {
		byGenre[track.Genre] = append(byGenre[track.Genre], track)
	}
	for genre, group := range byGenre {
		sort.SliceStable(group, func(i, j int) bool {
			return len(group[i].LikeList) > len(group[j].LikeList)
		})
		if len(group) > n {
			byGenre[genre] = group[:n]
		}
	}
	return byGenre, nil
}

// eachLikedTrack loads the user's liked tracks one by one, skipping ids
// that no longer resolve.
func (rs *RecommendService) eachLikedTrack(ctx context.Context, username string, fn func(*domain.Track)) error {
	user, err := rs.user(ctx, username)
	if err != nil {
		return err
	}
	for _, likedID := range user.LikedSongs {
		track, err := rs.track(ctx, likedID)
		if err != nil {
			if errs.ErrorCode(err) == errs.ENOTFOUND {
				continue
			}
			return err
		}
		fn(track)
	}
	return nil
}

// choices draws k elements with replacement.
func (rs *RecommendService) choices(list []string, k int) []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]string, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, list[rs.rng.Intn(len(list))])
	}
	return out
}

// sample draws k elements without replacement.
func (rs *RecommendService) sample(list []string, k int) []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]string, 0, k)
	for _, i := range rs.rng.Perm(len(list))[:k] {
		out = append(out, list[i])
	}
	return out
}

func (rs *RecommendService) user(ctx context.Context, username string) (*domain.User, error) {
	raw, err := rs.store.Get(ctx, domain.ColUsers, domain.Filter{"username": username})
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil, errs.Errorf(errs.ENOTFOUND, "User with username %s not found.", username)
		}
		return nil, err
	}
	return decodeUser(raw)
}

func (rs *RecommendService) track(ctx context.Context, id string) (*domain.Track, error) {
	raw, err := rs.store.Get(ctx, domain.ColTracks, domain.Filter{"track_id": id})
	if err != nil {
		return nil, err
	}
	return decodeTrack(raw)
}

func (rs *RecommendService) tracks(ctx context.Context, filter domain.Filter) ([]*domain.Track, error) {
	raws, err := rs.store.Find(ctx, domain.ColTracks, filter)
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
