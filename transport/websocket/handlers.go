package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

var (
	errGameIDRequired = errors.New("game_id is required")
	errStartRequired  = errors.New("start is required")
	errMoveRequired   = errors.New("move is required")
)

func (that *Server) handleNewGame(ctx context.Context, sender *client, payload *Payload) error {
	log := that.logger.With("method", "handleNewGame")

	if payload.Start == nil {
		return that.reject(sender, actionGameNew, errStartRequired)
	}

	game, err := that.uGame.StartGame(ctx, *payload.Start)
	if err != nil {
		log.Info("failed to start game", "error", err)
		return that.reject(sender, actionGameNew, err)
	}

	that.subscribe(game.ID, sender)

	return that.sendMessage(sender, actionGameNew, Payload{GameID: game.ID, Game: game})
}

func (that *Server) handleGetGame(ctx context.Context, sender *client, payload *Payload) error {
	if payload.GameID == "" {
		return that.reject(sender, actionGameGet, errGameIDRequired)
	}

	game, err := that.uGame.GetGame(ctx, payload.GameID)
	if err != nil {
		return that.reject(sender, actionGameGet, err)
	}

	that.subscribe(game.ID, sender)

	return that.sendMessage(sender, actionGameGet, Payload{GameID: game.ID, Game: game})
}

func (that *Server) handleGameTurn(ctx context.Context, sender *client, payload *Payload) error {
	log := that.logger.With("method", "handleGameTurn", "gameID", payload.GameID)

	if payload.GameID == "" {
		return that.reject(sender, actionGameTurn, errGameIDRequired)
	}

	if payload.Move == nil {
		return that.reject(sender, actionGameTurn, errMoveRequired)
	}

	game, err := that.uGame.MakeTurn(ctx, payload.GameID, payload.Mark, *payload.Move)
	if err != nil {
		log.Info("turn rejected", "error", err)
		return that.reject(sender, actionGameTurn, err)
	}

	that.subscribe(game.ID, sender)

	return that.broadcast(game.ID, actionGameTurn, Payload{GameID: game.ID, Game: game})
}

func (that *Server) handleRematch(ctx context.Context, sender *client, payload *Payload) error {
	if payload.GameID == "" {
		return that.reject(sender, actionGameRematch, errGameIDRequired)
	}

	game, err := that.uGame.Rematch(ctx, payload.GameID)
	if err != nil {
		return that.reject(sender, actionGameRematch, err)
	}

	that.subscribe(game.ID, sender)

	return that.broadcast(game.ID, actionGameRematch, Payload{GameID: game.ID, Game: game})
}

// handleLeave - ends the game for everybody watching it.
func (that *Server) handleLeave(ctx context.Context, sender *client, payload *Payload) error {
	if payload.GameID == "" {
		return that.reject(sender, actionGameLeave, errGameIDRequired)
	}

	if err := that.uGame.EndGame(ctx, payload.GameID); err != nil {
		return that.reject(sender, actionGameLeave, err)
	}

	// the sender hears about it even if it was not watching
	that.subscribe(payload.GameID, sender)
	defer that.unsubscribeGame(payload.GameID)

	return that.broadcast(payload.GameID, actionGameLeave, Payload{GameID: payload.GameID})
}

// reject - answers the sender with a client-safe error message.
func (that *Server) reject(sender *client, action string, cause error) error {
	that.sendError(sender, action, clientMessage(cause))

	if isExpected(cause) {
		return nil
	}

	return fmt.Errorf("%s failed: %w", action, cause)
}

func isExpected(err error) bool {
	return usecase.IsClientError(err) ||
		errors.Is(err, errGameIDRequired) ||
		errors.Is(err, errStartRequired) ||
		errors.Is(err, errMoveRequired) ||
		errors.Is(err, apperror.ErrGameNotFound) ||
		errors.Is(err, apperror.ErrNotYourTurn) ||
		errors.Is(err, apperror.ErrGameFinished)
}

func clientMessage(err error) string {
	if isExpected(err) {
		return err.Error()
	}

	return "internal server error"
}
