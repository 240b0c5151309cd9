package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

var ErrClientGone = errors.New("client is not receiving")

type uGame interface {
	StartGame(ctx context.Context, params usecase.StartGameParams) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID, mark string, move tictactoe.Move) (*entity.Game, error)
	Rematch(ctx context.Context, gameID string) (*entity.Game, error)
	EndGame(ctx context.Context, gameID string) error
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, sender *client, payload *Payload) error

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	// gameID -> connections watching the game
	subscribersMutex sync.RWMutex
	subscribers      map[string]map[*client]struct{}
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},

		subscribers: make(map[string]map[*client]struct{}),
	}

	server.handlers = map[string]handlerFunc{
		actionGameNew:     server.handleNewGame,
		actionGameGet:     server.handleGetGame,
		actionGameTurn:    server.handleGameTurn,
		actionGameRematch: server.handleRematch,
		actionGameLeave:   server.handleLeave,
	}

	return server
}

// Handler - serves the websocket endpoint on /ws.
func (that *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		that.serveWS(ctx, w, req)
	})

	return r
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// hijacked connections are not closed by Shutdown, ctx cancellation ends their read loops
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	sender := newClient(conn)

	go func() {
		if err := sender.writePump(); err != nil {
			log.Debug("write pump stopped", "error", err)
		}
		_ = conn.Close()
	}()

	stop := context.AfterFunc(ctx, func() {
		sender.close()
	})

	defer func() {
		stop()
		that.unsubscribeAll(sender)
		sender.close()
	}()

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	that.handleMessages(ctx, sender)
}

// handleMessages - processes messages from the client until the connection breaks.
func (that *Server) handleMessages(ctx context.Context, sender *client) {
	log := that.logger.With("method", "handleMessages")

	sender.prepareRead()

	for {
		_, data, err := sender.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			that.sendError(sender, actionError, "invalid message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			that.sendError(sender, message.Action, "unknown action")
			continue
		}

		var payload Payload
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &payload); err != nil {
				that.sendError(sender, message.Action, "invalid payload")
				continue
			}
		}

		if err = handler(ctx, sender, &payload); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) subscribe(gameID string, subscriber *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	watchers, ok := that.subscribers[gameID]
	if !ok {
		watchers = make(map[*client]struct{})
		that.subscribers[gameID] = watchers
	}

	watchers[subscriber] = struct{}{}
}

func (that *Server) unsubscribeGame(gameID string) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	delete(that.subscribers, gameID)
}

func (that *Server) unsubscribeAll(subscriber *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	for gameID, watchers := range that.subscribers {
		delete(watchers, subscriber)
		if len(watchers) == 0 {
			delete(that.subscribers, gameID)
		}
	}
}

func (that *Server) watchers(gameID string) []*client {
	that.subscribersMutex.RLock()
	defer that.subscribersMutex.RUnlock()

	watchers := make([]*client, 0, len(that.subscribers[gameID]))
	for watcher := range that.subscribers[gameID] {
		watchers = append(watchers, watcher)
	}

	return watchers
}

// broadcast - sends the message to every connection watching the game.
func (that *Server) broadcast(gameID, action string, payload Payload) error {
	message, err := encode(action, payload)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast: %w", err)
	}

	for _, watcher := range that.watchers(gameID) {
		if !watcher.enqueue(message) {
			that.logger.Warn("dropped game update", "gameID", gameID, "action", action)
		}
	}

	return nil
}

func (that *Server) sendMessage(receiver *client, action string, payload Payload) error {
	message, err := encode(action, payload)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if !receiver.enqueue(message) {
		return ErrClientGone
	}

	return nil
}

func (that *Server) sendError(receiver *client, action, errorMsg string) {
	if err := that.sendMessage(receiver, action, Payload{Error: errorMsg}); err != nil {
		that.logger.Warn("failed to send error response", "action", action, "error", err)
	}
}
