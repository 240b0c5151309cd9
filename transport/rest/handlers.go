package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const maxBodySize = 1 << 16

type uGame interface {
	StartGame(ctx context.Context, params usecase.StartGameParams) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID, mark string, move tictactoe.Move) (*entity.Game, error)
	Rematch(ctx context.Context, gameID string) (*entity.Game, error)
	EndGame(ctx context.Context, gameID string) error
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)

	Leaderboard(ctx context.Context, limit int) ([]*entity.PlayerStats, error)
	PlayerStats(ctx context.Context, name string) (*entity.PlayerStats, error)
	BestMove(position tictactoe.Position) (tictactoe.Analysis, error)
}

type Handlers interface {
	StartGame(w http.ResponseWriter, r *http.Request)
	GetGame(w http.ResponseWriter, r *http.Request)
	EndGame(w http.ResponseWriter, r *http.Request)
	MakeTurn(w http.ResponseWriter, r *http.Request)
	Rematch(w http.ResponseWriter, r *http.Request)

	Leaderboard(w http.ResponseWriter, r *http.Request)
	PlayerStats(w http.ResponseWriter, r *http.Request)
	BestMove(w http.ResponseWriter, r *http.Request)
}

var (
	errMoveRequired  = errors.New("row and col are required")
	errBoardRequired = errors.New("board is required")
)

type turnRequest struct {
	Mark string `json:"mark"`
	Row  *int   `json:"row"`
	Col  *int   `json:"col"`
}

type bestMoveRequest struct {
	Board *tictactoe.Position `json:"board"`
}

type leaderboardResponse struct {
	Players []*entity.PlayerStats `json:"players"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger *slog.Logger
	uGame  uGame
}

func NewHandlers(logger *slog.Logger, uGame uGame) Handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		uGame:  uGame,
	}
}

func (that *handlers) StartGame(w http.ResponseWriter, r *http.Request) {
	var params usecase.StartGameParams
	if !that.decode(w, r, &params) {
		return
	}

	game, err := that.uGame.StartGame(r.Context(), params)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *handlers) EndGame(w http.ResponseWriter, r *http.Request) {
	if err := that.uGame.EndGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	var turn turnRequest
	if !that.decode(w, r, &turn) {
		return
	}

	if turn.Row == nil || turn.Col == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMoveRequired.Error()})
		return
	}

	move := tictactoe.Move{Row: *turn.Row, Col: *turn.Col}

	game, err := that.uGame.MakeTurn(r.Context(), chi.URLParam(r, "id"), turn.Mark, move)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *handlers) Rematch(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.Rematch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a number"})
			return
		}

		limit = parsed
	}

	top, err := that.uGame.Leaderboard(r.Context(), limit)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, leaderboardResponse{Players: top})
}

func (that *handlers) PlayerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.uGame.PlayerStats(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (that *handlers) BestMove(w http.ResponseWriter, r *http.Request) {
	var req bestMoveRequest
	if !that.decode(w, r, &req) {
		return
	}

	if req.Board == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errBoardRequired.Error()})
		return
	}

	analysis, err := that.uGame.BestMove(*req.Board)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (that *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		that.logger.Debug("invalid payload", "requestID", middleware.GetReqID(r.Context()), "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return false
	}

	return true
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed",
			"requestID", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		message = http.StatusText(status)
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound), errors.Is(err, apperror.ErrStatsNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrNotYourTurn), errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	case usecase.IsClientError(err), errors.Is(err, service.ErrNoAvailableMoves):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
