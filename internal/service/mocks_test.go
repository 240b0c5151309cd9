package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	return args.Get(0).(*entity.Game), args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

type mockStatsRepo struct {
	mock.Mock
}

func (that *mockStatsRepo) Record(ctx context.Context, name string, result entity.Result) error {
	args := that.Called(ctx, name, result)
	return args.Error(0)
}

func (that *mockStatsRepo) GetByName(ctx context.Context, name string) (*entity.PlayerStats, error) {
	args := that.Called(ctx, name)
	return args.Get(0).(*entity.PlayerStats), args.Error(1)
}

func (that *mockStatsRepo) Top(ctx context.Context, limit int) ([]*entity.PlayerStats, error) {
	args := that.Called(ctx, limit)
	return args.Get(0).([]*entity.PlayerStats), args.Error(1)
}
