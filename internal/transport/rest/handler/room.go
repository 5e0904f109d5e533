package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mohammadf16/numberhunt/internal/model"
	"github.com/mohammadf16/numberhunt/internal/service"
	"github.com/mohammadf16/numberhunt/internal/transport/rest/middleware"
)

// RoomHandler handles room lifecycle and membership endpoints.
type RoomHandler struct {
	gameSvc *service.GameService
}

// NewRoomHandler creates a room handler.
func NewRoomHandler(gameSvc *service.GameService) *RoomHandler {
	return &RoomHandler{gameSvc: gameSvc}
}

// CreateRoomRequest is the request body for creating a room.
type CreateRoomRequest struct {
	Name           string `json:"name"`
	IsPrivate      bool   `json:"is_private"`
	Password       string `json:"password,omitempty"`
	MinPlayers     int    `json:"min_players"`
	MaxPlayers     int    `json:"max_players"`
	TotalRounds    int    `json:"total_rounds"`
	DiscussionTime int    `json:"discussion_time"`
	VotingTime     int    `json:"voting_time"`
	ResultsTime    int    `json:"results_time"`
	AllowRejoining *bool  `json:"allow_rejoining,omitempty"`
	Category       string `json:"category,omitempty"`
	Difficulty     int    `json:"difficulty,omitempty"`
	Nickname       string `json:"nickname,omitempty"`
	Avatar         string `json:"avatar,omitempty"`
}

// Create handles POST /rooms/create.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeFieldErrors(w, "validation failed", map[string][]string{
			"name": {"room name is required"},
		})
		return
	}

	settings := model.RoomSettings{
		Name:           req.Name,
		IsPrivate:      req.IsPrivate,
		MinPlayers:     req.MinPlayers,
		MaxPlayers:     req.MaxPlayers,
		TotalRounds:    req.TotalRounds,
		DiscussionTime: req.DiscussionTime,
		VotingTime:     req.VotingTime,
		ResultsTime:    req.ResultsTime,
		AllowRejoining: true,
		Category:       req.Category,
		Difficulty:     req.Difficulty,
	}
	if req.AllowRejoining != nil {
		settings.AllowRejoining = *req.AllowRejoining
	}

	nickname := req.Nickname
	if nickname == "" {
		nickname = middleware.GetUsername(r.Context())
	}
	identity := middleware.GetIdentityID(r.Context())

	snap, err := h.gameSvc.CreateRoom(r.Context(), identity, nickname, req.Avatar, req.Password, settings)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// List handles GET /rooms.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.gameSvc.ListRooms(r.Context()))
}

// JoinRequest is the request body for joining a room.
type JoinRequest struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar,omitempty"`
	Password string `json:"password,omitempty"`
	RoomCode string `json:"room_code,omitempty"`
}

// Join handles POST /rooms/{id}/join.
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	req, ok := decodeJoin(w, r)
	if !ok {
		return
	}
	resp, err := h.gameSvc.Join(r.Context(), roomID, middleware.GetIdentityID(r.Context()), req.Nickname, req.Avatar, req.Password)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// JoinByCode handles POST /rooms/join-by-code.
func (h *RoomHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJoin(w, r)
	if !ok {
		return
	}
	if req.RoomCode == "" {
		writeFieldErrors(w, "validation failed", map[string][]string{
			"room_code": {"room code is required"},
		})
		return
	}
	resp, err := h.gameSvc.JoinByCode(r.Context(), req.RoomCode, middleware.GetIdentityID(r.Context()), req.Nickname, req.Avatar, req.Password)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeJoin(w http.ResponseWriter, r *http.Request) (JoinRequest, bool) {
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.Nickname == "" {
		req.Nickname = middleware.GetUsername(r.Context())
	}
	if req.Nickname == "" {
		writeFieldErrors(w, "validation failed", map[string][]string{
			"nickname": {"nickname is required"},
		})
		return req, false
	}
	return req, true
}

// Get handles GET /rooms/{id}.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	snap, err := h.gameSvc.Snapshot(r.Context(), roomID, middleware.GetIdentityID(r.Context()))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Leave handles POST /rooms/{id}/leave.
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	if err := h.gameSvc.Leave(r.Context(), roomID, middleware.GetIdentityID(r.Context())); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ToggleReady handles POST /rooms/{id}/toggle-ready.
func (h *RoomHandler) ToggleReady(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	ready, err := h.gameSvc.ToggleReady(r.Context(), roomID, middleware.GetIdentityID(r.Context()))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "is_ready": ready})
}

// Start handles POST /rooms/{id}/start.
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	snap, err := h.gameSvc.Start(r.Context(), roomID, middleware.GetIdentityID(r.Context()))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Events handles GET /rooms/{id}/events.
func (h *RoomHandler) Events(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	events, err := h.gameSvc.Events(r.Context(), roomID, middleware.GetIdentityID(r.Context()), limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
