package entity

type Result string

const (
	ResultWin  Result = "wins"
	ResultLoss Result = "losses"
	ResultTie  Result = "ties"
)

// PlayerStats - aggregate results of one player name across finished games.
type PlayerStats struct {
	Name   string `json:"name"`
	Wins   int64  `json:"wins"`
	Losses int64  `json:"losses"`
	Ties   int64  `json:"ties"`
}

func (that *PlayerStats) Played() int64 {
	return that.Wins + that.Losses + that.Ties
}

// ResultsFor - what a finished game means for each of its players, keyed by name.
// Returns nil while the game is still running.
func ResultsFor(game *Game) map[string]Result {
	if !game.IsFinished() {
		return nil
	}

	results := make(map[string]Result, len(game.Players))
	for _, player := range game.Players {
		switch game.Winner {
		case PlayerTie:
			results[player.Name] = ResultTie
		case player.Mark:
			results[player.Name] = ResultWin
		default:
			results[player.Name] = ResultLoss
		}
	}

	return results
}

// Score - leaderboard ranking value.
func (that *PlayerStats) Score() int64 {
	return that.Wins
}
