package http

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"musicee/domain"
	"musicee/errs"
)

func (s *Server) registerUserRoutes(r *mux.Router) {
	// Get the profile data of all users.
	r.HandleFunc("/users/all", s.handleGetAllUsers).Methods("GET")

	// Add a friend by username, in both directions.
	r.HandleFunc("/users/add_friend/{username}/{friend_username}", s.handleAddFriend).Methods("PUT")

	// List all friends of a user.
	r.HandleFunc("/users/list_friends/{username}", s.handleListFriends).Methods("GET")

	// Get the profile data of a specific user.
	r.HandleFunc("/users/get_user_details/{username}", s.handleGetUserDetails).Methods("GET")
}

// handleGetAllUsers handles the route "GET /users/all".
// It returns every user as a read-only profile, password hashes excluded.
func (s *Server) handleGetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.us.All(r.Context())
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	profiles := make([]*domain.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, &domain.Profile{
			Username:   user.Username,
			Email:      user.Email,
			Friends:    user.Friends,
			LikedSongs: user.LikedSongs,
			LikedDates: user.LikedDates,
			Playlist:   user.Playlist,
			Comments:   user.Comments,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(profiles); err != nil {
		errs.LogError(r, err)
	}
}

// handleAddFriend handles the route "PUT /users/add_friend/{username}/{friend_username}".
func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	routeParams := mux.Vars(r)
	username := routeParams["username"]
	friendUsername := routeParams["friend_username"]

	if err := s.us.AddFriend(r.Context(), username, friendUsername); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := map[string]string{
		"message": "User '" + username + "' added '" + friendUsername + "' as a friend.",
	}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// handleListFriends handles the route "GET /users/list_friends/{username}".
func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.us.Friends(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if friends == nil {
		friends = []string{}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(friends); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetUserDetails handles the route "GET /users/get_user_details/{username}".
func (s *Server) handleGetUserDetails(w http.ResponseWriter, r *http.Request) {
	profile, err := s.us.Details(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(profile); err != nil {
		errs.LogError(r, err)
	}
}
