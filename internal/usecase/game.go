package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const defaultPlayerName = "Player"

// StartGameParams - in ai mode only HumanMark and the name under that mark are used.
type StartGameParams struct {
	Mode      string `json:"mode"`
	HumanMark string `json:"human_mark,omitempty"`
	PlayerX   string `json:"player_x,omitempty"`
	PlayerO   string `json:"player_o,omitempty"`
}

type GameUseCase interface {
	StartGame(ctx context.Context, params StartGameParams) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID, mark string, move tictactoe.Move) (*entity.Game, error)
	Rematch(ctx context.Context, gameID string) (*entity.Game, error)
	EndGame(ctx context.Context, gameID string) error
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)

	Leaderboard(ctx context.Context, limit int) ([]*entity.PlayerStats, error)
	PlayerStats(ctx context.Context, name string) (*entity.PlayerStats, error)
	BestMove(position tictactoe.Position) (tictactoe.Analysis, error)
}

type gameService interface {
	CreateGame(ctx context.Context, mode string, players ...*entity.Player) (*entity.Game, error)
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
	UpdateGame(ctx context.Context, game *entity.Game) error
	DeleteGame(ctx context.Context, gameID string) error
}

type botService interface {
	MakeTurn(game *entity.Game) (tictactoe.Analysis, error)
	Suggest(position tictactoe.Position) (tictactoe.Analysis, error)
}

type statsService interface {
	RecordGame(ctx context.Context, game *entity.Game) error
	GetPlayerStats(ctx context.Context, name string) (*entity.PlayerStats, error)
	Leaderboard(ctx context.Context, limit int) ([]*entity.PlayerStats, error)
}

type gameUseCase struct {
	logger *slog.Logger

	gameService  gameService
	botService   botService
	statsService statsService
}

func NewGameUseCase(logger *slog.Logger, gameService gameService, botService botService, statsService statsService) GameUseCase {
	return &gameUseCase{
		logger:       logger.With("component", "usecase"),
		gameService:  gameService,
		botService:   botService,
		statsService: statsService,
	}
}

func (that *gameUseCase) StartGame(ctx context.Context, params StartGameParams) (*entity.Game, error) {
	if err := entity.ValidateMode(params.Mode); err != nil {
		return nil, err
	}

	players, err := playersFor(params)
	if err != nil {
		return nil, err
	}

	game, err := that.gameService.CreateGame(ctx, params.Mode, players...)
	if err != nil {
		return nil, fmt.Errorf("could not create game: %w", err)
	}

	if game.IsBotTurn() {
		if err = that.botOpening(game); err != nil {
			return nil, err
		}

		if err = that.gameService.UpdateGame(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to update game: %w", err)
		}
	}

	that.logger.Info("game started", "gameID", game.ID, "mode", game.Mode)

	return game, nil
}

func (that *gameUseCase) MakeTurn(ctx context.Context, gameID, mark string, move tictactoe.Move) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", gameID)

	cell, err := parseMark(mark)
	if err != nil {
		return nil, err
	}

	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if game.IsFinished() {
		return game, apperror.ErrGameFinished
	}

	// nobody moves for the bot
	if player := game.PlayerByMark(cell.String()); player != nil && player.IsBot() {
		return game, apperror.ErrNotYourTurn
	}

	if err = game.MakeTurn(cell, move); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsWithBot() && game.IsOngoing() {
		if _, err = that.botService.MakeTurn(game); err != nil {
			// the human move stands even without a reply
			log.Error("bot failed to reply", "error", err)
			if updateErr := that.gameService.UpdateGame(ctx, game); updateErr != nil {
				return game, fmt.Errorf("failed to update game: %w", updateErr)
			}

			return game, fmt.Errorf("bot failed to reply: %w", err)
		}
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() {
		log.Info("game finished", "winner", game.Winner)
		that.recordResult(ctx, game)
	}

	return game, nil
}

// Rematch - same mode and players on an empty board.
func (that *gameUseCase) Rematch(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game.Reset()

	if err = that.botOpening(game); err != nil {
		return nil, err
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) EndGame(ctx context.Context, gameID string) error {
	if err := that.gameService.DeleteGame(ctx, gameID); err != nil {
		return fmt.Errorf("failed to end game: %w", err)
	}

	that.logger.Info("game ended", "gameID", gameID)

	return nil
}

func (that *gameUseCase) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) Leaderboard(ctx context.Context, limit int) ([]*entity.PlayerStats, error) {
	return that.statsService.Leaderboard(ctx, limit)
}

func (that *gameUseCase) PlayerStats(ctx context.Context, name string) (*entity.PlayerStats, error) {
	return that.statsService.GetPlayerStats(ctx, strings.TrimSpace(name))
}

func (that *gameUseCase) BestMove(position tictactoe.Position) (tictactoe.Analysis, error) {
	return that.botService.Suggest(position)
}

// botOpening - the bot plays first when it holds X.
func (that *gameUseCase) botOpening(game *entity.Game) error {
	if !game.IsBotTurn() {
		return nil
	}

	if _, err := that.botService.MakeTurn(game); err != nil {
		return fmt.Errorf("bot failed to open: %w", err)
	}

	return nil
}

// recordResult - only games between two humans count. A failure is logged and the game stays finished.
func (that *gameUseCase) recordResult(ctx context.Context, game *entity.Game) {
	if game.IsWithBot() {
		return
	}

	if err := that.statsService.RecordGame(ctx, game); err != nil {
		that.logger.Error("failed to record game result", "gameID", game.ID, "error", err)
	}
}

func playersFor(params StartGameParams) ([]*entity.Player, error) {
	nameX, nameO := strings.TrimSpace(params.PlayerX), strings.TrimSpace(params.PlayerO)

	if params.Mode == entity.ModeTwoPlayers {
		if nameX == "" || nameO == "" {
			return nil, apperror.ErrPlayerNameRequired
		}

		if strings.EqualFold(nameX, nameO) {
			return nil, apperror.ErrDuplicatePlayerNames
		}

		return []*entity.Player{
			{Name: nameX, Mark: entity.PlayerX},
			{Name: nameO, Mark: entity.PlayerO},
		}, nil
	}

	humanMark := tictactoe.X
	if params.HumanMark != "" {
		mark, err := parseMark(params.HumanMark)
		if err != nil {
			return nil, err
		}

		humanMark = mark
	}

	name := nameX
	if humanMark == tictactoe.O {
		name = nameO
	}

	if name == "" || strings.EqualFold(name, entity.BotName) {
		name = defaultPlayerName
	}

	return []*entity.Player{
		{Name: name, Mark: humanMark.String()},
		entity.NewBotPlayer(humanMark.Opponent().String()),
	}, nil
}

func parseMark(mark string) (tictactoe.Cell, error) {
	cell, err := tictactoe.ParseCell(mark)
	if err != nil || cell == tictactoe.Empty {
		return tictactoe.Empty, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	return cell, nil
}

// IsClientError - errors caused by the request rather than by the server.
func IsClientError(err error) bool {
	for _, target := range []error{
		apperror.ErrInvalidMode,
		apperror.ErrInvalidMark,
		apperror.ErrPlayerNameRequired,
		apperror.ErrDuplicatePlayerNames,
		tictactoe.ErrInvalidMove,
		tictactoe.ErrInvalidCell,
		tictactoe.ErrMalformedPosition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
