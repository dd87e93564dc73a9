package crud

import (
	"context"
	"regexp"
	"strings"

	"musicee/domain"
	"musicee/errs"
)

// UserService manages Users and the friendship graph between them.
// It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userStore.
// Otherwise, it returns the error of the validation that has failed.
type userValidator struct {
	emailRegex *regexp.Regexp
	userStore
}

// userStore runs CRUD operations on the document store using incoming User
// data. It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type userStore struct {
	store domain.Store
}

// NewUserService returns an instance of UserService.
func NewUserService(store domain.Store) *UserService {
	return &UserService{
		userValidator{
			emailRegex: regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,16}$`),
			userStore: userStore{
				store: store,
			},
		},
	}
}

// Ensure the UserService struct properly implements the domain.UserService
// interface. If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// Create runs validations needed for creating new User documents.
// The password hash must already be set; hashing is the auth package's job.
func (uv *userValidator) Create(ctx context.Context, user *domain.User) error {
	err := runUserValFns(ctx, user,
		uv.usernameRequired,
		uv.usernameIsAvail,
		uv.emailNormalize,
		uv.emailRequired,
		uv.emailFormat,
		uv.passwordHashRequired)
	if err != nil {
		return err
	}
	return uv.userStore.Create(ctx, user)
}

// AddFriend validates the edge before writing it: no self-friending, both
// users must exist, and the edge must not already be there. The second
// check doubles as the idempotency guard that makes retries safe.
func (uv *userValidator) AddFriend(ctx context.Context, username, friendUsername string) error {
	if username == friendUsername {
		return errs.Errorf(errs.EINVALID, "You cannot add yourself as a friend.")
	}
	user, err := uv.userStore.ByUsername(ctx, username)
	if err != nil {
		return err
	}
	friend, err := uv.userStore.ByUsername(ctx, friendUsername)
	if err != nil {
		return err
	}
	if containsString(user.Friends, friendUsername) {
		return errs.Errorf(errs.ECONFLICT, "'%s' is already in the friend list of '%s'.", friendUsername, username)
	}
	return uv.userStore.addFriend(ctx, user, friend)
}

// runUserValFns runs any number of functions of type userValFn on the passed
// in User object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runUserValFns(ctx context.Context, user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

// A userValFn is any function that takes in a pointer to a domain.User
// object and returns an error.
type userValFn func(ctx context.Context, user *domain.User) error

// usernameRequired ensures the username is not empty.
func (uv *userValidator) usernameRequired(_ context.Context, user *domain.User) error {
	if user.Username == "" {
		return errs.Errorf(errs.EINVALID, "A username is required.")
	}
	return nil
}

// usernameIsAvail makes sure the username is not already taken.
func (uv *userValidator) usernameIsAvail(ctx context.Context, user *domain.User) error {
	count, err := uv.store.Count(ctx, domain.ColUsers, domain.Filter{"username": user.Username})
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.Errorf(errs.ECONFLICT, "The username is already taken.")
	}
	return nil
}

// emailNormalize lowercases and trims the email address.
func (uv *userValidator) emailNormalize(_ context.Context, user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return nil
}

// emailRequired ensures the email address is not empty.
func (uv *userValidator) emailRequired(_ context.Context, user *domain.User) error {
	if user.Email == "" {
		return errs.Errorf(errs.EINVALID, "An email address is required.")
	}
	return nil
}

// emailFormat checks the email address against a basic pattern.
func (uv *userValidator) emailFormat(_ context.Context, user *domain.User) error {
	if !uv.emailRegex.MatchString(user.Email) {
		return errs.Errorf(errs.EINVALID, "The email address is not valid.")
	}
	return nil
}

// passwordHashRequired ensures a password hash has been set.
func (uv *userValidator) passwordHashRequired(_ context.Context, user *domain.User) error {
	if user.PasswordHash == "" {
		return errs.Errorf(errs.EINVALID, "A password is required.")
	}
	return nil
}

// Create stores a new user document with all engagement lists initialized
// to empty, never null, so existing readers of the records see arrays.
func (us *userStore) Create(ctx context.Context, user *domain.User) error {
	if user.Friends == nil {
		user.Friends = []string{}
	}
	if user.LikedSongs == nil {
		user.LikedSongs = []string{}
	}
	if user.LikedDates == nil {
		user.LikedDates = []domain.LikeStamp{}
	}
	if user.Playlist == nil {
		user.Playlist = []string{}
	}
	if user.Comments == nil {
		user.Comments = []domain.Comment{}
	}
	return us.store.Insert(ctx, domain.ColUsers, user)
}

// ByUsername fetches a single user document.
func (us *userStore) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	raw, err := us.store.Get(ctx, domain.ColUsers, domain.Filter{"username": username})
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil, errs.Errorf(errs.ENOTFOUND, "User with username %s not found.", username)
		}
		return nil, err
	}
	return decodeUser(raw)
}

// All returns every user document.
func (us *userStore) All(ctx context.Context) ([]*domain.User, error) {
	raws, err := us.store.Find(ctx, domain.ColUsers, domain.Filter{})
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

// addFriend writes the edge to both user documents. The two writes are
// not transactional; if the second one fails the edge is half-written and
// the error says so. Retrying the operation is safe either way.
func (us *userStore) addFriend(ctx context.Context, user, friend *domain.User) error {
	_, err := us.store.UpdateOne(ctx, domain.ColUsers,
		domain.Filter{"username": user.Username},
		domain.Filter{"friends": append(user.Friends, friend.Username)})
	if err != nil {
		return err
	}
	_, err = us.store.UpdateOne(ctx, domain.ColUsers,
		domain.Filter{"username": friend.Username},
		domain.Filter{"friends": append(friend.Friends, user.Username)})
	if err != nil {
		return errs.Errorf(errs.EINTERNAL, "Friendship between '%s' and '%s' was only partially written.", user.Username, friend.Username)
	}
	return nil
}

// Friends returns the friend list of a user.
func (us *userStore) Friends(ctx context.Context, username string) ([]string, error) {
	user, err := us.ByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Friends, nil
}

// Details returns the read-only projection of a user.
func (us *userStore) Details(ctx context.Context, username string) (*domain.Profile, error) {
	user, err := us.ByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{
		Username:   user.Username,
		Email:      user.Email,
		Friends:    user.Friends,
		LikedSongs: user.LikedSongs,
		LikedDates: user.LikedDates,
		Playlist:   user.Playlist,
		Comments:   user.Comments,
	}, nil
}
