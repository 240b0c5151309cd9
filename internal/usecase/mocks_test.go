package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type mockGameService struct {
	mock.Mock
}

func (that *mockGameService) CreateGame(ctx context.Context, mode string, players ...*entity.Player) (*entity.Game, error) {
	args := that.Called(ctx, mode, players)
	if build, ok := args.Get(0).(func(string, ...*entity.Player) *entity.Game); ok {
		return build(mode, players...), args.Error(1)
	}

	return args.Get(0).(*entity.Game), args.Error(1)
}

func (that *mockGameService) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	return args.Get(0).(*entity.Game), args.Error(1)
}

func (that *mockGameService) UpdateGame(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameService) DeleteGame(ctx context.Context, gameID string) error {
	args := that.Called(ctx, gameID)
	return args.Error(0)
}

type mockStatsService struct {
	mock.Mock
}

func (that *mockStatsService) RecordGame(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockStatsService) GetPlayerStats(ctx context.Context, name string) (*entity.PlayerStats, error) {
	args := that.Called(ctx, name)
	return args.Get(0).(*entity.PlayerStats), args.Error(1)
}

func (that *mockStatsService) Leaderboard(ctx context.Context, limit int) ([]*entity.PlayerStats, error) {
	args := that.Called(ctx, limit)
	return args.Get(0).([]*entity.PlayerStats), args.Error(1)
}

type mockBotService struct {
	mock.Mock
}

func (that *mockBotService) MakeTurn(game *entity.Game) (tictactoe.Analysis, error) {
	args := that.Called(game)
	return args.Get(0).(tictactoe.Analysis), args.Error(1)
}

func (that *mockBotService) Suggest(position tictactoe.Position) (tictactoe.Analysis, error) {
	args := that.Called(position)
	return args.Get(0).(tictactoe.Analysis), args.Error(1)
}
