package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"musicee/auth"
	"musicee/crud"
	"musicee/domain"
)

// Server provides the http functionality of this app, namely routing,
// request handling, and middleware. It performs authentication before
// handing things over to one of the crud services.
type Server struct {
	router *mux.Router
	logger *log.Logger
	auth   *auth.Service
	us     domain.UserService
	ts     domain.TrackService
	es     domain.EngagementService
	rs     domain.RecommendService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(
	logger *log.Logger,
	authService *auth.Service,
	us *crud.UserService,
	ts *crud.TrackService,
	es *crud.EngagementService,
	rs *crud.RecommendService,
) *Server {

	// Construct a new Server with a gorilla router and the services passed in.
	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
		auth:   authService,
		us:     us,
		ts:     ts,
		es:     es,
		rs:     rs,
	}

	s.router.HandleFunc("/api/health", s.handleHealth).Methods("GET")

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)

	// Register routes of the crud system.
	s.registerUserRoutes(s.router)
	s.registerTrackRoutes(s.router)
	s.registerEngagementRoutes(s.router)
	s.registerRecommendRoutes(s.router)

	// Set up middleware that needs to run on every request.
	s.router.Use(setContentTypeJSON, s.logRequests, s.checkUser)
	return s
}

// handleHealth handles the route "GET /api/health".
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{"message": "Welcome to Musicee API"}
	json.NewEncoder(w).Encode(&response)
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The logRequests middleware logs every request with its duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// The checkUser middleware resolves a Bearer token, if one is sent, and
// puts the matching user into the request context. Requests without a
// token pass through; requireAuth is what rejects them where it matters.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}
		username, err := s.auth.VerifyAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByUsername(r.Context(), username)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.SetUser(r.Context(), user)))
	})
}

// requireAuth rejects requests that did not resolve to a user.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required."})
			return
		}
		next.ServeHTTP(w, r)
	}
}

// Run starts to listen and serve on the specified address.
func (s *Server) Run(addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.logger.Info("listening", "addr", addr)
	return server.ListenAndServe()
}
