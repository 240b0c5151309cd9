package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	statsKeyPrefix = "stats:"
	leaderboardKey = "leaderboard"
)

type StatsRepository interface {
	Record(ctx context.Context, name string, result entity.Result) error
	GetByName(ctx context.Context, name string) (*entity.PlayerStats, error)
	Top(ctx context.Context, limit int) ([]*entity.PlayerStats, error)
}

type dbStats struct {
	client *redis.Client
}

// statsHash - layout of the stats:<name> hash.
type statsHash struct {
	Wins   int64 `redis:"wins"`
	Losses int64 `redis:"losses"`
	Ties   int64 `redis:"ties"`
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

// Record - increments one counter of the player and keeps the leaderboard ranked by wins.
func (that *dbStats) Record(ctx context.Context, name string, result entity.Result) error {
	var score float64
	if result == entity.ResultWin {
		score = 1
	}

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, statsKeyPrefix+name, string(result), 1)
		pipe.ZIncrBy(ctx, leaderboardKey, score, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record %s for %q: %w", result, name, err)
	}

	return nil
}

func (that *dbStats) GetByName(ctx context.Context, name string) (*entity.PlayerStats, error) {
	cmd := that.client.HGetAll(ctx, statsKeyPrefix+name)
	if err := cmd.Err(); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	if len(cmd.Val()) == 0 {
		return nil, apperror.ErrStatsNotFound
	}

	return scanStats(name, cmd)
}

// Top - players with the most wins, best first.
func (that *dbStats) Top(ctx context.Context, limit int) ([]*entity.PlayerStats, error) {
	if limit <= 0 {
		return []*entity.PlayerStats{}, nil
	}

	names, err := that.client.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(names))
	_, err = that.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, name := range names {
			cmds[i] = pipe.HGetAll(ctx, statsKeyPrefix+name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard stats: %w", err)
	}

	top := make([]*entity.PlayerStats, 0, len(names))
	for i, name := range names {
		stats, err := scanStats(name, cmds[i])
		if err != nil {
			return nil, err
		}

		top = append(top, stats)
	}

	return top, nil
}

func scanStats(name string, cmd *redis.MapStringStringCmd) (*entity.PlayerStats, error) {
	var hash statsHash
	if err := cmd.Scan(&hash); err != nil {
		return nil, fmt.Errorf("failed to scan stats of %q: %w", name, err)
	}

	return &entity.PlayerStats{
		Name:   name,
		Wins:   hash.Wins,
		Losses: hash.Losses,
		Ties:   hash.Ties,
	}, nil
}
