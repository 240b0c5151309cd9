package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

const readTimeout = 5 * time.Second

type mockUGame struct {
	mock.Mock
}

func (that *mockUGame) StartGame(ctx context.Context, params usecase.StartGameParams) (*entity.Game, error) {
	args := that.Called(ctx, params)
	return args.Get(0).(*entity.Game), args.Error(1)
}

func (that *mockUGame) MakeTurn(ctx context.Context, gameID, mark string, move tictactoe.Move) (*entity.Game, error) {
	args := that.Called(ctx, gameID, mark, move)
	return args.Get(0).(*entity.Game), args.Error(1)
}

func (that *mockUGame) Rematch(ctx context.Context, gameID string) (*entity.Game, error) {
	args := that.Called(ctx, gameID)
	return args.Get(0).(*entity.Game), args.Error(1)
}

func (that *mockUGame) EndGame(ctx context.Context, gameID string) error {
	args := that.Called(ctx, gameID)
	return args.Error(0)
}

func (that *mockUGame) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	args := that.Called(ctx, gameID)
	return args.Get(0).(*entity.Game), args.Error(1)
}

func startServer(t *testing.T, uGame uGame) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())

	server := httptest.NewServer(New(suite.NewLogger(), uGame).Handler(ctx))
	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
		_ = conn.Close()
	})

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload Payload) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: raw}))
}

func receive(t *testing.T, conn *websocket.Conn) (string, Payload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	var payload Payload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return message.Action, payload
}

func TestServer_NewGame(t *testing.T) {
	// Given: the use case starts a game against the computer
	game := entity.NewGame("game-1", entity.ModeAI,
		&entity.Player{Name: "alice", Mark: entity.PlayerX},
		entity.NewBotPlayer(entity.PlayerO),
	)
	params := usecase.StartGameParams{Mode: entity.ModeAI, PlayerX: "alice"}

	uGame := &mockUGame{}
	uGame.On("StartGame", mock.Anything, params).Return(game, nil).Once()

	conn := dial(t, startServer(t, uGame))

	// When: asking for a new game
	send(t, conn, actionGameNew, Payload{Start: &params})

	// Then: the game comes back
	action, payload := receive(t, conn)
	assert.Equal(t, actionGameNew, action)
	assert.Equal(t, "game-1", payload.GameID)
	require.NotNil(t, payload.Game)
	assert.Equal(t, game.Players, payload.Game.Players)
	assert.Empty(t, payload.Error)
}

func TestServer_TurnIsBroadcast(t *testing.T) {
	// Given: two connections watching the same game
	game := entity.NewGame("game-1", entity.ModeTwoPlayers,
		&entity.Player{Name: "alice", Mark: entity.PlayerX},
		&entity.Player{Name: "bob", Mark: entity.PlayerO},
	)
	afterTurn := *game
	require.NoError(t, afterTurn.MakeTurn(tictactoe.X, tictactoe.Move{Row: 1, Col: 1}))

	uGame := &mockUGame{}
	uGame.On("GetGame", mock.Anything, "game-1").Return(game, nil).Twice()
	uGame.On("MakeTurn", mock.Anything, "game-1", "X", tictactoe.Move{Row: 1, Col: 1}).Return(&afterTurn, nil).Once()

	url := startServer(t, uGame)
	alice, bob := dial(t, url), dial(t, url)

	send(t, alice, actionGameGet, Payload{GameID: "game-1"})
	_, _ = receive(t, alice)
	send(t, bob, actionGameGet, Payload{GameID: "game-1"})
	_, _ = receive(t, bob)

	// When: alice plays the centre
	send(t, alice, actionGameTurn, Payload{GameID: "game-1", Mark: "X", Move: &tictactoe.Move{Row: 1, Col: 1}})

	// Then: both see the new board
	for _, conn := range []*websocket.Conn{alice, bob} {
		action, payload := receive(t, conn)
		assert.Equal(t, actionGameTurn, action)
		require.NotNil(t, payload.Game)
		assert.Equal(t, tictactoe.X, payload.Game.Board[1][1])
		assert.Equal(t, entity.PlayerO, payload.Game.Turn)
	}

	uGame.AssertExpectations(t)
}

func TestServer_Errors(t *testing.T) {
	t.Run("Unknown action", func(t *testing.T) {
		conn := dial(t, startServer(t, &mockUGame{}))

		send(t, conn, "game:fly", Payload{})

		action, payload := receive(t, conn)
		assert.Equal(t, "game:fly", action)
		assert.Equal(t, "unknown action", payload.Error)
	})

	t.Run("Invalid message", func(t *testing.T) {
		conn := dial(t, startServer(t, &mockUGame{}))

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))

		action, payload := receive(t, conn)
		assert.Equal(t, actionError, action)
		assert.Equal(t, "invalid message", payload.Error)
	})

	t.Run("Missing fields", func(t *testing.T) {
		conn := dial(t, startServer(t, &mockUGame{}))

		send(t, conn, actionGameTurn, Payload{GameID: "game-1"})

		_, payload := receive(t, conn)
		assert.Equal(t, errMoveRequired.Error(), payload.Error)
	})

	t.Run("New game without start", func(t *testing.T) {
		uGame := &mockUGame{}
		conn := dial(t, startServer(t, uGame))

		send(t, conn, actionGameNew, Payload{})

		action, payload := receive(t, conn)
		assert.Equal(t, actionGameNew, action)
		assert.Equal(t, errStartRequired.Error(), payload.Error)
		assert.Nil(t, payload.Game)
		uGame.AssertNotCalled(t, "StartGame", mock.Anything, mock.Anything)
	})

	t.Run("Rejected turn goes to the sender only", func(t *testing.T) {
		uGame := &mockUGame{}
		uGame.On("MakeTurn", mock.Anything, "game-1", "O", tictactoe.Move{}).
			Return((*entity.Game)(nil), apperror.ErrNotYourTurn).Once()

		conn := dial(t, startServer(t, uGame))

		send(t, conn, actionGameTurn, Payload{GameID: "game-1", Mark: "O", Move: &tictactoe.Move{}})

		action, payload := receive(t, conn)
		assert.Equal(t, actionGameTurn, action)
		assert.Equal(t, apperror.ErrNotYourTurn.Error(), payload.Error)
		assert.Nil(t, payload.Game)
	})
}

func TestServer_Leave(t *testing.T) {
	// Given: a watched game
	game := entity.NewGame("game-1", entity.ModeAI)

	uGame := &mockUGame{}
	uGame.On("GetGame", mock.Anything, "game-1").Return(game, nil).Once()
	uGame.On("EndGame", mock.Anything, "game-1").Return(nil).Once()

	url := startServer(t, uGame)
	watcher, leaver := dial(t, url), dial(t, url)

	send(t, watcher, actionGameGet, Payload{GameID: "game-1"})
	_, _ = receive(t, watcher)

	// When: another connection ends the game
	send(t, leaver, actionGameLeave, Payload{GameID: "game-1"})

	// Then: both are told the game is over
	for _, conn := range []*websocket.Conn{watcher, leaver} {
		action, payload := receive(t, conn)
		assert.Equal(t, actionGameLeave, action)
		assert.Equal(t, "game-1", payload.GameID)
	}

	uGame.AssertExpectations(t)
}
