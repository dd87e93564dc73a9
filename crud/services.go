package crud

import (
	"math/rand"
	"time"

	"musicee/domain"
)

// A ServicesConfig is any function that takes in a pointer to a Services
// object and returns an error. It's basically just wrapping the constructor
// method of any given crud service. It exists to be able to easily create
// the crud services using functional options in main.go.
type ServicesConfig func(*Services) error

// Services is a container object holding pointers to all the crud services.
// The crud services all share the document store provided by Services.
type Services struct {
	store      domain.Store
	User       *UserService
	Track      *TrackService
	Engagement *EngagementService
	Recommend  *RecommendService
}

// NewServices returns a new Services object, containing any crud services
// it's told to create by one of the passed in ServicesConfig functions.
// It shares the passed in document store with any crud service it creates.
func NewServices(store domain.Store, cfgs ...ServicesConfig) (*Services, error) {
	s := Services{
		store: store,
	}
	for _, cfg := range cfgs {
		if err := cfg(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// WithUser wraps the constructor of UserService, NewUserService.
func WithUser() ServicesConfig {
	return func(s *Services) error {
		s.User = NewUserService(s.store)
		return nil
	}
}

// WithTrack wraps the constructor of TrackService, NewTrackService.
func WithTrack() ServicesConfig {
	return func(s *Services) error {
		s.Track = NewTrackService(s.store)
		return nil
	}
}

// WithEngagement wraps the constructor of EngagementService, NewEngagementService.
func WithEngagement() ServicesConfig {
	return func(s *Services) error {
		s.Engagement = NewEngagementService(s.store, time.Now)
		return nil
	}
}

// WithRecommend wraps the constructor of RecommendService, NewRecommendService.
// The sampling source is seeded from the wall clock here; tests construct
// the service directly with a fixed seed.
func WithRecommend() ServicesConfig {
	return func(s *Services) error {
		s.Recommend = NewRecommendService(s.store, rand.New(rand.NewSource(time.Now().UnixNano())))
		return nil
	}
}
