package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"
)

const (
	ModeAI         = "ai"
	ModeTwoPlayers = "2p"
)

type Game struct {
	ID      string             `json:"id"`
	Mode    string             `json:"mode"`
	Board   tictactoe.Position `json:"board"`
	Turn    string             `json:"player_turn"`
	Winner  string             `json:"winner"`
	Status  string             `json:"status"`
	Players []*Player          `json:"players,omitempty"`
}

func NewGame(id, mode string, players ...*Player) *Game {
	game := &Game{
		ID:      id,
		Mode:    mode,
		Board:   tictactoe.Initial(),
		Players: players,
	}

	game.UpdateGameState()

	return game
}

// ValidateMode - only human against the computer and two humans are supported.
func ValidateMode(mode string) error {
	switch mode {
	case ModeAI, ModeTwoPlayers:
		return nil
	default:
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMode, mode)
	}
}

// UpdateGameState - derives turn, winner and status from the board.
func (that *Game) UpdateGameState() {
	outcome := that.Board.Outcome()

	switch outcome.Status {
	// one player wins
	case tictactoe.Won:
		that.Winner = outcome.Winner.String()
		that.Status = StatusFinished
		that.Turn = ""
	// tie
	case tictactoe.Drawn:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = ""
	// game continue
	default:
		that.Winner = ""
		that.Status = StatusOngoing
		that.Turn = that.Board.ActivePlayer().String()
	}
}

// MakeTurn - plays a move for the given mark if it is that mark's turn.
func (that *Game) MakeTurn(mark tictactoe.Cell, move tictactoe.Move) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Board.ActivePlayer() != mark {
		return apperror.ErrNotYourTurn
	}

	next, err := that.Board.Apply(move)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.Board = next
	that.UpdateGameState()

	return nil
}

// Reset - empties the board, keeping mode and players.
func (that *Game) Reset() {
	that.Board = tictactoe.Initial()
	that.UpdateGameState()
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWithBot() bool {
	return that.Mode == ModeAI
}

func (that *Game) IsTie() bool {
	return that.IsFinished() && that.Winner == PlayerTie
}

func (that *Game) PlayerByMark(mark string) *Player {
	for _, player := range that.Players {
		if player.Mark == mark {
			return player
		}
	}

	return nil
}

func (that *Game) BotPlayer() *Player {
	for _, player := range that.Players {
		if player.Bot {
			return player
		}
	}

	return nil
}

// IsBotTurn - true while the game runs and the active mark belongs to the bot.
func (that *Game) IsBotTurn() bool {
	bot := that.BotPlayer()
	return bot != nil && that.IsOngoing() && that.Turn == bot.Mark
}
