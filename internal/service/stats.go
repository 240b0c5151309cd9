package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const defaultLeaderboardSize = 10

type StatsService interface {
	RecordGame(ctx context.Context, game *entity.Game) error
	GetPlayerStats(ctx context.Context, name string) (*entity.PlayerStats, error)
	Leaderboard(ctx context.Context, limit int) ([]*entity.PlayerStats, error)
}

type statsRepo interface {
	Record(ctx context.Context, name string, result entity.Result) error
	GetByName(ctx context.Context, name string) (*entity.PlayerStats, error)
	Top(ctx context.Context, limit int) ([]*entity.PlayerStats, error)
}

type statsService struct {
	statsRepo       statsRepo
	leaderboardSize int
}

func NewStatsService(statsRepo statsRepo, leaderboardSize int) StatsService {
	if leaderboardSize <= 0 {
		leaderboardSize = defaultLeaderboardSize
	}

	return &statsService{
		statsRepo:       statsRepo,
		leaderboardSize: leaderboardSize,
	}
}

// RecordGame - adds the result of a finished game to every human player. Unfinished games are ignored.
func (that *statsService) RecordGame(ctx context.Context, game *entity.Game) error {
	results := entity.ResultsFor(game)
	if results == nil {
		return nil
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		if err := that.statsRepo.Record(ctx, player.Name, results[player.Name]); err != nil {
			return fmt.Errorf("failed to record game %s: %w", game.ID, err)
		}
	}

	return nil
}

func (that *statsService) GetPlayerStats(ctx context.Context, name string) (*entity.PlayerStats, error) {
	stats, err := that.statsRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats of %q: %w", name, err)
	}

	return stats, nil
}

// Leaderboard - limit <= 0 or above the configured size falls back to the configured size.
func (that *statsService) Leaderboard(ctx context.Context, limit int) ([]*entity.PlayerStats, error) {
	if limit <= 0 || limit > that.leaderboardSize {
		limit = that.leaderboardSize
	}

	top, err := that.statsRepo.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return top, nil
}
