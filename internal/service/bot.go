package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrNotBotTurn       = errors.New("it's not the bot's turn")
)

type BotService interface {
	MakeTurn(game *entity.Game) (tictactoe.Analysis, error)
	Suggest(position tictactoe.Position) (tictactoe.Analysis, error)
}

type botService struct {
	logger *slog.Logger
}

// NewBotService - the bot plays the optimal move found by a full minimax search.
func NewBotService(logger *slog.Logger) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
	}
}

func (that *botService) MakeTurn(game *entity.Game) (tictactoe.Analysis, error) {
	botPlayer := game.BotPlayer()
	if botPlayer == nil {
		return tictactoe.Analysis{}, ErrBotNotFound
	}

	if game.Board.IsTerminal() {
		return tictactoe.Analysis{}, ErrNoAvailableMoves
	}

	mark, err := tictactoe.ParseCell(botPlayer.Mark)
	if err != nil {
		return tictactoe.Analysis{}, fmt.Errorf("bad bot mark: %w", err)
	}

	if game.Board.ActivePlayer() != mark {
		return tictactoe.Analysis{}, ErrNotBotTurn
	}

	analysis, err := tictactoe.Analyze(game.Board)
	if err != nil {
		return tictactoe.Analysis{}, fmt.Errorf("%w: %w", ErrNoAvailableMoves, err)
	}

	if err = game.MakeTurn(mark, analysis.Move); err != nil {
		return tictactoe.Analysis{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	that.logger.Debug("bot turn",
		"gameID", game.ID,
		"move", analysis.Move.String(),
		"value", analysis.Value,
		"nodes", analysis.Nodes,
	)

	return analysis, nil
}

// Suggest - analysis of a position that did not come from a stored game.
func (that *botService) Suggest(position tictactoe.Position) (tictactoe.Analysis, error) {
	if err := position.Validate(); err != nil {
		return tictactoe.Analysis{}, err
	}

	analysis, err := tictactoe.Analyze(position)
	if err != nil {
		return tictactoe.Analysis{}, fmt.Errorf("%w: %w", ErrNoAvailableMoves, err)
	}

	return analysis, nil
}
