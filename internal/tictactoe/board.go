package tictactoe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const Size = 3

var (
	ErrInvalidMove       = errors.New("invalid move")
	ErrInvalidCell       = errors.New("invalid cell value")
	ErrMalformedPosition = errors.New("malformed position")
)

// Cell is the content of one square: Empty or one of the two marks.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// ParseCell - converts "X", "O" or "" (case-insensitive) into a Cell.
func ParseCell(value string) (Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "":
		return Empty, nil
	case "X":
		return X, nil
	case "O":
		return O, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidCell, value)
	}
}

func (that Cell) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Opponent - returns the other mark. Empty has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	cell, err := ParseCell(string(text))
	if err != nil {
		return err
	}

	*that = cell
	return nil
}

// Move identifies a square by row and column, both in [0, Size).
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

func (that Move) inRange() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

// Status of a position.
type Status uint8

const (
	InProgress Status = iota
	Won
	Drawn
)

func (that Status) String() string {
	switch that {
	case Won:
		return "won"
	case Drawn:
		return "drawn"
	default:
		return "in_progress"
	}
}

// Outcome is derived from a position, never stored.
type Outcome struct {
	Status Status
	Winner Cell
}

// Position is a snapshot of the grid. It is a value type: every operation that
// changes the grid returns a new Position and leaves the receiver untouched.
type Position [Size][Size]Cell

// Initial - returns the empty grid.
func Initial() Position {
	return Position{}
}

// Count - number of cells holding the given value.
func (that Position) Count(cell Cell) int {
	count := 0
	for _, row := range that {
		for _, current := range row {
			if current == cell {
				count++
			}
		}
	}

	return count
}

// ActivePlayer - returns the mark whose turn it is, derived from the mark counts.
// On grids that break the count invariant the answer is plausible but meaningless;
// use Validate for untrusted input.
func (that Position) ActivePlayer() Cell {
	if that.Count(X) > that.Count(O) {
		return O
	}

	return X
}

// LegalMoves - every empty square in row-major order.
func (that Position) LegalMoves() []Move {
	moves := make([]Move, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if that[row][col] == Empty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// Apply - returns the position after the active player marks the given square.
func (that Position) Apply(move Move) (Position, error) {
	if !move.inRange() {
		return that, fmt.Errorf("%w: cell %s is out of range", ErrInvalidMove, move)
	}

	if that[move.Row][move.Col] != Empty {
		return that, fmt.Errorf("%w: cell %s is already occupied", ErrInvalidMove, move)
	}

	next := that
	next[move.Row][move.Col] = that.ActivePlayer()

	return next, nil
}

// Winner - the mark that owns a full row, column or diagonal, or Empty.
// Columns are found by running the row and diagonal check on the transposed grid.
func (that Position) Winner() Cell {
	if winner := that.lineWinner(); winner != Empty {
		return winner
	}

	return that.transpose().lineWinner()
}

func (that Position) lineWinner() Cell {
	for _, row := range that {
		if row[0] != Empty && row[0] == row[1] && row[1] == row[2] {
			return row[0]
		}
	}

	if that[0][0] != Empty && that[0][0] == that[1][1] && that[1][1] == that[2][2] {
		return that[0][0]
	}

	if that[2][0] != Empty && that[2][0] == that[1][1] && that[1][1] == that[0][2] {
		return that[2][0]
	}

	return Empty
}

func (that Position) transpose() Position {
	var transposed Position
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			transposed[col][row] = that[row][col]
		}
	}

	return transposed
}

// IsTerminal - true when someone has won or no empty square is left.
func (that Position) IsTerminal() bool {
	return that.Winner() != Empty || that.Count(Empty) == 0
}

// Utility - value of a terminal position for X: +1 X won, -1 O won, 0 draw.
// Meaningless for non-terminal positions.
func (that Position) Utility() int {
	switch that.Winner() {
	case X:
		return 1
	case O:
		return -1
	default:
		return 0
	}
}

func (that Position) Outcome() Outcome {
	if winner := that.Winner(); winner != Empty {
		return Outcome{Status: Won, Winner: winner}
	}

	if that.Count(Empty) == 0 {
		return Outcome{Status: Drawn}
	}

	return Outcome{Status: InProgress}
}

// UnmarshalJSON - accepts exactly Size rows of Size cells. The default array
// decoding would drop extra squares and zero-fill missing ones.
func (that *Position) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var rows [][]Cell
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}

	if len(rows) != Size {
		return fmt.Errorf("%w: expected %d rows, got %d", ErrMalformedPosition, Size, len(rows))
	}

	var position Position
	for row, cells := range rows {
		if len(cells) != Size {
			return fmt.Errorf("%w: row %d has %d squares", ErrMalformedPosition, row, len(cells))
		}

		copy(position[row][:], cells)
	}

	*that = position
	return nil
}

// Validate - checks the invariant of reachable positions: X moves first and the
// marks alternate, so count(X) - count(O) is 0 or 1.
func (that Position) Validate() error {
	diff := that.Count(X) - that.Count(O)
	if diff < 0 || diff > 1 {
		return fmt.Errorf("%w: %d X against %d O", ErrMalformedPosition, that.Count(X), that.Count(O))
	}

	return nil
}

func (that Position) String() string {
	var builder strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			switch that[row][col] {
			case X:
				builder.WriteByte('X')
			case O:
				builder.WriteByte('O')
			default:
				builder.WriteByte('.')
			}
		}

		if row < Size-1 {
			builder.WriteByte('\n')
		}
	}

	return builder.String()
}

// ParsePosition - reads the format produced by Position.String: three rows of
// three characters, 'X', 'O' and '.' (or ' ') for empty squares.
func ParsePosition(rows ...string) (Position, error) {
	var position Position
	if len(rows) != Size {
		return position, fmt.Errorf("%w: expected %d rows, got %d", ErrMalformedPosition, Size, len(rows))
	}

	for row, line := range rows {
		if len(line) != Size {
			return position, fmt.Errorf("%w: row %d has %d squares", ErrMalformedPosition, row, len(line))
		}

		for col := 0; col < Size; col++ {
			switch line[col] {
			case 'X', 'x':
				position[row][col] = X
			case 'O', 'o':
				position[row][col] = O
			case '.', ' ':
				position[row][col] = Empty
			default:
				return position, fmt.Errorf("%w: %q at %s", ErrInvalidCell, line[col], Move{Row: row, Col: col})
			}
		}
	}

	return position, nil
}
