package http

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"musicee/auth"
	"musicee/domain"
	"musicee/errs"
)

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/user/signup", s.handleSignup).Methods("POST")
	r.HandleFunc("/user/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/user/me", s.requireAuth(s.handleMe)).Methods("GET")
}

// signupRequest is the json body of "POST /user/signup".
type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignup handles the route "POST /user/signup".
// It hashes the submitted password and creates the user record.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid signup data."))
		return
	}
	if req.Password == "" {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "A password is required."))
		return
	}

	hash, err := s.auth.Hash(req.Password)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user := domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.us.Create(r.Context(), &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"username": user.Username,
		"email":    user.Email,
	}); err != nil {
		errs.LogError(r, err)
	}
}

// loginRequest is the json body of "POST /user/login".
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse carries a fresh token pair back to the client.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// handleLogin handles the route "POST /user/login".
// A wrong username and a wrong password produce the same response, so the
// endpoint doesn't leak which usernames exist.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid login data."))
		return
	}

	user, err := s.us.ByUsername(r.Context(), req.Username)
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Incorrect email or password."))
		return
	}
	if err := s.auth.Verify(req.Password, user.PasswordHash); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	access, err := s.auth.IssueAccessToken(user.Username)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	refresh, err := s.auth.IssueRefreshToken(user.Username)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}); err != nil {
		errs.LogError(r, err)
	}
}

// handleMe handles the route "GET /user/me".
// It returns the profile of the authenticated user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	profile, err := s.us.Details(r.Context(), user.Username)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(profile); err != nil {
		errs.LogError(r, err)
	}
}
