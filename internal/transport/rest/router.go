package rest

import (
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/mohammadf16/numberhunt/internal/service"
	"github.com/mohammadf16/numberhunt/internal/transport/rest/handler"
	"github.com/mohammadf16/numberhunt/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService *service.AuthService
	GameService *service.GameService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	roomHandler := handler.NewRoomHandler(c.GameService)
	roundHandler := handler.NewRoundHandler(c.GameService)
	leaderboardHandler := handler.NewLeaderboardHandler(c.GameService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Game routes (require identity auth)
	gameRoutes := v1.NewRoute().Subrouter()
	gameRoutes.Use(authMW.RequireIdentity)

	gameRoutes.HandleFunc("/rooms/create", roomHandler.Create).Methods("POST", "OPTIONS")
	gameRoutes.HandleFunc("/rooms", roomHandler.List).Methods("GET", "OPTIONS")
	gameRoutes.HandleFunc("/rooms/join-by-code", roomHandler.JoinByCode).Methods("POST", "OPTIONS")
	gameRoutes.HandleFunc("/rooms/{id}", roomHandler.Get).Methods("GET", "OPTIONS")
	gameRoutes.HandleFunc("/rooms/{id}/join", roomHandler.Join).Methods("POST", "OPTIONS")
	gameRoutes.HandleFunc("/rooms/{id}/leave", roomHandler.Leave).Methods("POST", "OPTIONS")
	gameRoutes.HandleFunc("/rooms/{id}/toggle-ready", roomHandler.ToggleReady).Methods("POST", "OPTIONS")
	gameRoutes.HandleFunc("/rooms/{id}/start", roomHandler.Start).Methods("POST", "OPTIONS")
	gameRoutes.HandleFunc("/rooms/{id}/events", roomHandler.Events).Methods("GET", "OPTIONS")

	gameRoutes.HandleFunc("/rooms/{id}/round", roundHandler.Get).Methods("GET", "OPTIONS")
	gameRoutes.HandleFunc("/rooms/{id}/round/{n}/submit-answer", roundHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	gameRoutes.HandleFunc("/rooms/{id}/round/{n}/start-voting", roundHandler.StartVoting).Methods("POST", "OPTIONS")
	gameRoutes.HandleFunc("/rooms/{id}/round/{n}/vote", roundHandler.Vote).Methods("POST", "OPTIONS")
	gameRoutes.HandleFunc("/rooms/{id}/next-round", roundHandler.NextRound).Methods("POST", "OPTIONS")

	gameRoutes.HandleFunc("/leaderboard", leaderboardHandler.Top).Methods("GET", "OPTIONS")

	return corsHandler().Handler(r)
}

func corsHandler() *cors.Cors {
	origins := []string{"*"}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
}
