package http

import (
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"musicee/errs"
)

func (s *Server) registerRecommendRoutes(r *mux.Router) {
	r.HandleFunc("/tracks/recommend_track", s.handleRecommendTrack).Methods("POST")
	r.HandleFunc("/tracks/recommend_friend_track", s.handleRecommendFriendTrack).Methods("POST")
	r.HandleFunc("/tracks/recommend_artist_track", s.handleRecommendArtistTrack).Methods("POST")
	r.HandleFunc("/tracks/top_tracks_per_genre", s.handleTopTracksPerGenre).Methods("GET")
	r.HandleFunc("/users/likes_per_artist/{username}", s.handleLikesPerArtist).Methods("GET")
	r.HandleFunc("/users/likes_per_genre/{username}", s.handleLikesPerGenre).Methods("GET")
	r.HandleFunc("/users/likes_per_friend/{username}", s.handleLikesPerFriend).Methods("GET")
}

// handleRecommendTrack handles the route "POST /tracks/recommend_track".
// It suggests track ids sharing a genre with the user's liked tracks.
func (s *Server) handleRecommendTrack(w http.ResponseWriter, r *http.Request) {
	ids, err := s.rs.ByGenre(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ids); err != nil {
		errs.LogError(r, err)
	}
}

// handleRecommendFriendTrack handles the route "POST /tracks/recommend_friend_track".
func (s *Server) handleRecommendFriendTrack(w http.ResponseWriter, r *http.Request) {
	ids, err := s.rs.FromFriends(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ids); err != nil {
		errs.LogError(r, err)
	}
}

// handleRecommendArtistTrack handles the route "POST /tracks/recommend_artist_track".
// Unlike the genre variant this returns track names and may repeat them.
func (s *Server) handleRecommendArtistTrack(w http.ResponseWriter, r *http.Request) {
	names, err := s.rs.ByArtist(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(names); err != nil {
		errs.LogError(r, err)
	}
}

// handleTopTracksPerGenre handles the route "GET /tracks/top_tracks_per_genre".
// The "n" query parameter caps the group size and defaults to 3.
func (s *Server) handleTopTracksPerGenre(w http.ResponseWriter, r *http.Request) {
	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid value for n."))
			return
		}
		n = parsed
	}

	top, err := s.rs.TopTracksPerGenre(r.Context(), n)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(top); err != nil {
		errs.LogError(r, err)
	}
}

// handleLikesPerArtist handles the route "GET /users/likes_per_artist/{username}".
func (s *Server) handleLikesPerArtist(w http.ResponseWriter, r *http.Request) {
	counts, err := s.rs.LikesPerArtist(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(counts); err != nil {
		errs.LogError(r, err)
	}
}

// handleLikesPerGenre handles the route "GET /users/likes_per_genre/{username}".
func (s *Server) handleLikesPerGenre(w http.ResponseWriter, r *http.Request) {
	counts, err := s.rs.LikesPerGenre(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(counts); err != nil {
		errs.LogError(r, err)
	}
}

// handleLikesPerFriend handles the route "GET /users/likes_per_friend/{username}".
func (s *Server) handleLikesPerFriend(w http.ResponseWriter, r *http.Request) {
	counts, err := s.rs.LikesPerFriend(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(counts); err != nil {
		errs.LogError(r, err)
	}
}
