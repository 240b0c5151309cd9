package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func finishedGame(t *testing.T, mode string, players []*entity.Player, rows ...string) *entity.Game {
	t.Helper()

	game := entity.NewGame("1", mode, players...)
	game.Board = mustPosition(t, rows...)
	game.UpdateGameState()
	require.True(t, game.IsFinished())

	return game
}

func TestStatsService_RecordGame(t *testing.T) {
	ctx := context.Background()
	players := []*entity.Player{{Name: "alice", Mark: entity.PlayerX}, {Name: "bob", Mark: entity.PlayerO}}

	t.Run("Win and loss", func(t *testing.T) {
		// Given: alice won with X
		game := finishedGame(t, entity.ModeTwoPlayers, players, "XXX", "OO.", "...")

		repo := &mockStatsRepo{}
		repo.On("Record", ctx, "alice", entity.ResultWin).Return(nil).Once()
		repo.On("Record", ctx, "bob", entity.ResultLoss).Return(nil).Once()

		// When: recording the game
		err := NewStatsService(repo, 10).RecordGame(ctx, game)

		// Then: both players got their result
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Tie", func(t *testing.T) {
		game := finishedGame(t, entity.ModeTwoPlayers, players, "XOX", "XOO", "OXX")

		repo := &mockStatsRepo{}
		repo.On("Record", ctx, "alice", entity.ResultTie).Return(nil).Once()
		repo.On("Record", ctx, "bob", entity.ResultTie).Return(nil).Once()

		require.NoError(t, NewStatsService(repo, 10).RecordGame(ctx, game))
		repo.AssertExpectations(t)
	})

	t.Run("Bots have no stats", func(t *testing.T) {
		game := finishedGame(t, entity.ModeAI,
			[]*entity.Player{{Name: "alice", Mark: entity.PlayerX}, entity.NewBotPlayer(entity.PlayerO)},
			"XX.", "OOO", "X..",
		)

		repo := &mockStatsRepo{}
		repo.On("Record", ctx, "alice", entity.ResultLoss).Return(nil).Once()

		require.NoError(t, NewStatsService(repo, 10).RecordGame(ctx, game))
		repo.AssertExpectations(t)
	})

	t.Run("Ongoing game is ignored", func(t *testing.T) {
		repo := &mockStatsRepo{}

		require.NoError(t, NewStatsService(repo, 10).RecordGame(ctx, entity.NewGame("1", entity.ModeTwoPlayers, players...)))
		repo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Storage error", func(t *testing.T) {
		game := finishedGame(t, entity.ModeTwoPlayers, players, "XXX", "OO.", "...")

		repo := &mockStatsRepo{}
		repo.On("Record", ctx, "alice", entity.ResultWin).Return(errRedisDown).Once()

		require.ErrorIs(t, NewStatsService(repo, 10).RecordGame(ctx, game), errRedisDown)
	})
}

func TestStatsService_Leaderboard(t *testing.T) {
	ctx := context.Background()
	top := []*entity.PlayerStats{{Name: "alice", Wins: 3}}

	testCases := []struct {
		name     string
		limit    int
		expected int
	}{
		{name: "Default size", limit: 0, expected: 10},
		{name: "Smaller limit", limit: 3, expected: 3},
		{name: "Capped at the configured size", limit: 500, expected: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockStatsRepo{}
			repo.On("Top", ctx, tc.expected).Return(top, nil).Once()

			result, err := NewStatsService(repo, 10).Leaderboard(ctx, tc.limit)

			require.NoError(t, err)
			assert.Equal(t, top, result)
			repo.AssertExpectations(t)
		})
	}
}

func TestStatsService_GetPlayerStats(t *testing.T) {
	ctx := context.Background()

	repo := &mockStatsRepo{}
	repo.On("GetByName", ctx, "alice").Return(&entity.PlayerStats{Name: "alice", Wins: 1}, nil).Once()
	repo.On("GetByName", ctx, "bob").Return((*entity.PlayerStats)(nil), apperror.ErrStatsNotFound).Once()

	statsService := NewStatsService(repo, 0)

	stats, err := statsService.GetPlayerStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Wins)

	_, err = statsService.GetPlayerStats(ctx, "bob")
	require.ErrorIs(t, err, apperror.ErrStatsNotFound)
}
