package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mohammadf16/numberhunt/internal/model"
)

// APIError is a non-2xx response decoded from the server's error
// envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsTransient reports whether err is worth retrying: a transport
// failure or a 5xx.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return err != nil
}

// API is a thin HTTP client for the game server. It is safe for use
// from a single goroutine; the loop serializes all calls through the
// scheduler.
type API struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewAPI creates an API client against baseURL (no trailing slash).
func NewAPI(baseURL string) *API {
	return &API{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken installs the bearer token used on authenticated calls.
func (a *API) SetToken(token string) { a.token = token }

// Token returns the current bearer token.
func (a *API) Token() string { return a.token }

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Code: envelope.Code, Message: envelope.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Register creates an account and installs its token.
func (a *API) Register(ctx context.Context, username, password string) error {
	var resp model.LoginResponse
	err := a.do(ctx, http.MethodPost, "/v1/auth/register", model.RegisterRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return err
	}
	a.token = resp.Token
	return nil
}

// Login authenticates and installs the returned token.
func (a *API) Login(ctx context.Context, username, password string) error {
	var resp model.LoginResponse
	err := a.do(ctx, http.MethodPost, "/v1/auth/login", model.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return err
	}
	a.token = resp.Token
	return nil
}

// CreateRoom creates a room and returns its snapshot.
func (a *API) CreateRoom(ctx context.Context, req any) (*model.RoomSnapshot, error) {
	var snap model.RoomSnapshot
	if err := a.do(ctx, http.MethodPost, "/v1/rooms/create", req, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListRooms lists joinable public rooms.
func (a *API) ListRooms(ctx context.Context) ([]model.RoomSummary, error) {
	var out []model.RoomSummary
	if err := a.do(ctx, http.MethodGet, "/v1/rooms", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Join joins a room by id.
func (a *API) Join(ctx context.Context, roomID, nickname, password string) (*model.JoinResponse, error) {
	var out model.JoinResponse
	body := map[string]string{"nickname": nickname, "password": password}
	if err := a.do(ctx, http.MethodPost, "/v1/rooms/"+roomID+"/join", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinByCode joins a room by its shareable code.
func (a *API) JoinByCode(ctx context.Context, code, nickname, password string) (*model.JoinResponse, error) {
	var out model.JoinResponse
	body := map[string]string{"room_code": code, "nickname": nickname, "password": password}
	if err := a.do(ctx, http.MethodPost, "/v1/rooms/join-by-code", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Leave leaves the room.
func (a *API) Leave(ctx context.Context, roomID string) error {
	return a.do(ctx, http.MethodPost, "/v1/rooms/"+roomID+"/leave", struct{}{}, nil)
}

// ToggleReady flips the ready flag.
func (a *API) ToggleReady(ctx context.Context, roomID string) error {
	return a.do(ctx, http.MethodPost, "/v1/rooms/"+roomID+"/toggle-ready", struct{}{}, nil)
}

// StartGame starts the game (host only).
func (a *API) StartGame(ctx context.Context, roomID string) (*model.RoomSnapshot, error) {
	var snap model.RoomSnapshot
	if err := a.do(ctx, http.MethodPost, "/v1/rooms/"+roomID+"/start", struct{}{}, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Room fetches the full room snapshot.
func (a *API) Room(ctx context.Context, roomID string) (*model.RoomSnapshot, error) {
	var snap model.RoomSnapshot
	if err := a.do(ctx, http.MethodGet, "/v1/rooms/"+roomID, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Round fetches the current round scoped to the caller.
func (a *API) Round(ctx context.Context, roomID string) (*model.RoundSnapshot, error) {
	var snap model.RoundSnapshot
	if err := a.do(ctx, http.MethodGet, "/v1/rooms/"+roomID+"/round", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SubmitAnswer submits the caller's answer for the given round.
func (a *API) SubmitAnswer(ctx context.Context, roomID string, round, answer int) error {
	path := fmt.Sprintf("/v1/rooms/%s/round/%d/submit-answer", roomID, round)
	return a.do(ctx, http.MethodPost, path, map[string]int{"answer": answer}, nil)
}

// StartVoting moves the round into voting (host only).
func (a *API) StartVoting(ctx context.Context, roomID string, round int) error {
	path := fmt.Sprintf("/v1/rooms/%s/round/%d/start-voting", roomID, round)
	return a.do(ctx, http.MethodPost, path, struct{}{}, nil)
}

// Vote casts the caller's accusation for the given round.
func (a *API) Vote(ctx context.Context, roomID string, round int, accusedID string) error {
	path := fmt.Sprintf("/v1/rooms/%s/round/%d/vote", roomID, round)
	return a.do(ctx, http.MethodPost, path, map[string]string{"accused_id": accusedID}, nil)
}

// NextRound continues past results (host only).
func (a *API) NextRound(ctx context.Context, roomID string) (*model.NextRoundResponse, error) {
	var out model.NextRoundResponse
	if err := a.do(ctx, http.MethodPost, "/v1/rooms/"+roomID+"/next-round", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Leaderboard fetches the global top scores.
func (a *API) Leaderboard(ctx context.Context, limit int) ([]model.PlayerStats, error) {
	var out []model.PlayerStats
	path := fmt.Sprintf("/v1/leaderboard?limit=%d", limit)
	if err := a.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
