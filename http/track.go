package http

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"musicee/domain"
	"musicee/errs"
)

func (s *Server) registerTrackRoutes(r *mux.Router) {
	r.HandleFunc("/tracks/get_tracks", s.handleGetTracks).Methods("GET")
	r.HandleFunc("/tracks/add_track", s.handleAddTrack).Methods("POST")
	r.HandleFunc("/tracks/update_track/{track_id}", s.handleUpdateTrack).Methods("PUT")
	r.HandleFunc("/tracks/delete_track/{track_id}", s.handleDeleteTrack).Methods("DELETE")
	r.HandleFunc("/tracks/get_track_name/{track_id}", s.handleGetTrackName).Methods("POST")
	r.HandleFunc("/tracks/get_track_details/{track_id}", s.handleGetTrackDetails).Methods("POST")
	r.HandleFunc("/tracks/upload_track_file", s.handleUploadTrackFile).Methods("POST")
}

// handleGetTracks handles the route "GET /tracks/get_tracks".
func (s *Server) handleGetTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.ts.All(r.Context())
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(tracks); err != nil {
		errs.LogError(r, err)
	}
}

// handleAddTrack handles the route "POST /tracks/add_track".
// It reads track metadata from the json body, creates the track, and
// returns the generated track id.
func (s *Server) handleAddTrack(w http.ResponseWriter, r *http.Request) {
	var upd domain.TrackUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Please check track information!"))
		return
	}

	track := domain.Track{
		Name:        upd.Name,
		Artists:     upd.Artists,
		Album:       upd.Album,
		Genre:       upd.Genre,
		ReleaseYear: upd.ReleaseYear,
	}
	if err := s.ts.Create(r.Context(), &track); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := map[string]string{
		"message":  "Track added successfully.",
		"track_id": track.ID,
	}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// handleUpdateTrack handles the route "PUT /tracks/update_track/{track_id}".
func (s *Server) handleUpdateTrack(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["track_id"]

	var upd domain.TrackUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Please check track information!"))
		return
	}

	if err := s.ts.Update(r.Context(), trackID, &upd); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := map[string]string{"message": "Track with ID " + trackID + " has been updated."}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteTrack handles the route "DELETE /tracks/delete_track/{track_id}".
// The delete cascades into every user record before the response goes out.
func (s *Server) handleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["track_id"]

	if err := s.ts.Delete(r.Context(), trackID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := map[string]string{"message": "Track with ID " + trackID + " has been deleted."}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetTrackName handles the route "POST /tracks/get_track_name/{track_id}".
func (s *Server) handleGetTrackName(w http.ResponseWriter, r *http.Request) {
	name, err := s.ts.Name(r.Context(), mux.Vars(r)["track_id"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(name); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetTrackDetails handles the route "POST /tracks/get_track_details/{track_id}".
func (s *Server) handleGetTrackDetails(w http.ResponseWriter, r *http.Request) {
	track, err := s.ts.ByID(r.Context(), mux.Vars(r)["track_id"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(track); err != nil {
		errs.LogError(r, err)
	}
}

// handleUploadTrackFile handles the route "POST /tracks/upload_track_file".
// It expects a multipart file field named "file" holding a json array of
// track metadata and imports the records through the regular creation
// path. Bad records are skipped, not fatal.
func (s *Server) handleUploadTrackFile(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "A track file is required."))
		return
	}
	defer file.Close()

	var metas []domain.TrackUpdate
	if err := json.NewDecoder(file).Decode(&metas); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "The track file is not valid json."))
		return
	}

	tracks := make([]*domain.Track, 0, len(metas))
	for _, meta := range metas {
		tracks = append(tracks, &domain.Track{
			Name:        meta.Name,
			Artists:     meta.Artists,
			Album:       meta.Album,
			Genre:       meta.Genre,
			ReleaseYear: meta.ReleaseYear,
		})
	}

	imported, err := s.ts.BulkImport(r.Context(), tracks)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := map[string]any{
		"message":  "Track file imported successfully.",
		"imported": imported,
	}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}
