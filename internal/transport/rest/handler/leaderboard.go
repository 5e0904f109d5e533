package handler

import (
	"net/http"
	"strconv"

	"github.com/mohammadf16/numberhunt/internal/model"
	"github.com/mohammadf16/numberhunt/internal/service"
)

// LeaderboardHandler serves the global cumulative score ranking.
type LeaderboardHandler struct {
	gameSvc *service.GameService
}

// NewLeaderboardHandler creates a leaderboard handler.
func NewLeaderboardHandler(gameSvc *service.GameService) *LeaderboardHandler {
	return &LeaderboardHandler{gameSvc: gameSvc}
}

// Top handles GET /leaderboard.
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	stats, err := h.gameSvc.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	if stats == nil {
		stats = []model.PlayerStats{}
	}
	writeJSON(w, http.StatusOK, stats)
}
