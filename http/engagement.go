package http

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"musicee/domain"
	"musicee/errs"
)

func (s *Server) registerEngagementRoutes(r *mux.Router) {
	r.HandleFunc("/tracks/like_track", s.handleLikeTrack).Methods("POST")
	r.HandleFunc("/tracks/get_like/{track_id}", s.handleGetLike).Methods("POST")
	r.HandleFunc("/tracks/playlist_track", s.handlePlaylistTrack).Methods("POST")
	r.HandleFunc("/tracks/comment_track", s.handleCommentTrack).Methods("POST")
	r.HandleFunc("/users/liked_songs_past_6_months/{username}", s.handleLikedPast6Months).Methods("GET")
}

// handleLikeTrack handles the route "POST /tracks/like_track".
// Calling it twice for the same pair returns the user to where they started.
func (s *Server) handleLikeTrack(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	trackID := r.URL.Query().Get("track_id")

	liked, err := s.es.ToggleLike(r.Context(), username, trackID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	message := "Track " + trackID + " unliked."
	if liked {
		message = "Track " + trackID + " liked."
	}

	w.WriteHeader(http.StatusOK)
	response := map[string]any{
		"message": message,
		"liked":   liked,
	}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetLike handles the route "POST /tracks/get_like/{track_id}".
func (s *Server) handleGetLike(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["track_id"]

	count, err := s.es.LikeCount(r.Context(), trackID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := map[string]any{
		"like_num": count,
		"message":  "number of like for track " + trackID,
	}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// handlePlaylistTrack handles the route "POST /tracks/playlist_track".
// Same toggle discipline as liking, but only the user document changes.
func (s *Server) handlePlaylistTrack(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	trackID := r.URL.Query().Get("track_id")

	inPlaylist, err := s.es.TogglePlaylist(r.Context(), username, trackID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	message := "Track " + trackID + " removed from playlist."
	if inPlaylist {
		message = "Track " + trackID + " added to playlist."
	}

	w.WriteHeader(http.StatusOK)
	response := map[string]any{
		"message":     message,
		"in_playlist": inPlaylist,
	}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// commentRequest is the json body of "POST /tracks/comment_track".
type commentRequest struct {
	Username string `json:"username"`
	TrackID  string `json:"track_id"`
	Text     string `json:"text"`
}

// handleCommentTrack handles the route "POST /tracks/comment_track".
func (s *Server) handleCommentTrack(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid comment data."))
		return
	}

	commentID, err := s.es.PostComment(r.Context(), req.Username, req.TrackID, req.Text)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := map[string]string{
		"message":    "Comment added successfully.",
		"comment_id": commentID,
	}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// handleLikedPast6Months handles the route "GET /users/liked_songs_past_6_months/{username}".
func (s *Server) handleLikedPast6Months(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	ids, err := s.es.LikedSince(r.Context(), username, domain.LikedSinceDefault)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := map[string]any{
		"username":                  username,
		"liked_songs_past_6_months": ids,
	}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}
