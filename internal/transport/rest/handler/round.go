package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mohammadf16/numberhunt/internal/game"
	"github.com/mohammadf16/numberhunt/internal/service"
	"github.com/mohammadf16/numberhunt/internal/transport/rest/middleware"
)

// RoundHandler handles in-round gameplay endpoints.
type RoundHandler struct {
	gameSvc *service.GameService
}

// NewRoundHandler creates a round handler.
func NewRoundHandler(gameSvc *service.GameService) *RoundHandler {
	return &RoundHandler{gameSvc: gameSvc}
}

// Get handles GET /rooms/{id}/round.
func (h *RoundHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	snap, err := h.gameSvc.RoundSnapshot(r.Context(), roomID, middleware.GetIdentityID(r.Context()))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// SubmitAnswerRequest is the request body for submitting an answer.
type SubmitAnswerRequest struct {
	Answer int `json:"answer"`
}

// SubmitAnswer handles POST /rooms/{id}/round/{n}/submit-answer.
func (h *RoundHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	roomID, roundNumber, ok := roundVars(w, r)
	if !ok {
		return
	}
	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "answer" {
			writeEngineError(w, game.ErrInvalidAnswer)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.gameSvc.SubmitAnswer(r.Context(), roomID, middleware.GetIdentityID(r.Context()), roundNumber, req.Answer); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// StartVoting handles POST /rooms/{id}/round/{n}/start-voting.
func (h *RoundHandler) StartVoting(w http.ResponseWriter, r *http.Request) {
	roomID, roundNumber, ok := roundVars(w, r)
	if !ok {
		return
	}
	if err := h.gameSvc.StartVoting(r.Context(), roomID, middleware.GetIdentityID(r.Context()), roundNumber); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// VoteRequest is the request body for casting a vote.
type VoteRequest struct {
	AccusedID string `json:"accused_id"`
}

// Vote handles POST /rooms/{id}/round/{n}/vote.
func (h *RoundHandler) Vote(w http.ResponseWriter, r *http.Request) {
	roomID, roundNumber, ok := roundVars(w, r)
	if !ok {
		return
	}
	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AccusedID == "" {
		writeFieldErrors(w, "validation failed", map[string][]string{
			"accused_id": {"accused player id is required"},
		})
		return
	}
	if err := h.gameSvc.SubmitVote(r.Context(), roomID, middleware.GetIdentityID(r.Context()), roundNumber, req.AccusedID); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// NextRound handles POST /rooms/{id}/next-round.
func (h *RoundHandler) NextRound(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	resp, err := h.gameSvc.NextRound(r.Context(), roomID, middleware.GetIdentityID(r.Context()))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func roundVars(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	vars := mux.Vars(r)
	roundNumber, err := strconv.Atoi(vars["n"])
	if err != nil || roundNumber < 1 {
		writeError(w, http.StatusBadRequest, "invalid round number")
		return "", 0, false
	}
	return vars["id"], roundNumber, true
}
