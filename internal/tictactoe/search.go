package tictactoe

import (
	"errors"
	"math"
)

var ErrNoMoveAvailable = errors.New("no move available")

const (
	negInf = math.MinInt
	posInf = math.MaxInt
)

// Analysis is the result of a full search from one position.
type Analysis struct {
	Move  Move `json:"move"`
	Value int  `json:"value"`
	Nodes int  `json:"nodes"`
}

// BestMove - the optimal move for the active player. X maximizes Utility, O minimizes it.
// Among equally good moves the first one in LegalMoves order wins.
func BestMove(position Position) (Move, error) {
	analysis, err := Analyze(position)
	if err != nil {
		return Move{}, err
	}

	return analysis.Move, nil
}

// Analyze - runs minimax with alpha-beta pruning over the whole game tree.
// Returns ErrNoMoveAvailable for terminal positions.
func Analyze(position Position) (Analysis, error) {
	if position.IsTerminal() {
		return Analysis{}, ErrNoMoveAvailable
	}

	s := &search{}

	var value int
	var move Move
	if position.ActivePlayer() == X {
		value, move = s.maxValue(position, negInf, posInf)
	} else {
		value, move = s.minValue(position, negInf, posInf)
	}

	return Analysis{Move: move, Value: value, Nodes: s.nodes}, nil
}

type search struct {
	nodes int
}

func (that *search) maxValue(position Position, alpha, beta int) (int, Move) {
	that.nodes++

	if position.IsTerminal() {
		return position.Utility(), Move{}
	}

	best := negInf
	var bestMove Move

	for _, move := range position.LegalMoves() {
		child, _ := position.Apply(move) // legal by construction
		value, _ := that.minValue(child, alpha, beta)

		alpha = max(alpha, value)
		if value > best {
			best = value
			bestMove = move
		}

		if alpha >= beta {
			break
		}
	}

	return best, bestMove
}

func (that *search) minValue(position Position, alpha, beta int) (int, Move) {
	that.nodes++

	if position.IsTerminal() {
		return position.Utility(), Move{}
	}

	best := posInf
	var bestMove Move

	for _, move := range position.LegalMoves() {
		child, _ := position.Apply(move) // legal by construction
		value, _ := that.maxValue(child, alpha, beta)

		beta = min(beta, value)
		if value < best {
			best = value
			bestMove = move
		}

		if alpha >= beta {
			break
		}
	}

	return best, bestMove
}
