package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connect6-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	PlaceStone(row, col int) *entity.Snapshot
	ConfirmTurn() *entity.Snapshot
	UndoTurn() *entity.Snapshot
	ResetGame() *entity.Snapshot
	WithSnapshot(join func(snapshot *entity.Snapshot))
}

type Server struct {
	logger *slog.Logger
	game   gameUseCase
	hub    *Hub

	upgrader websocket.Upgrader
	handlers map[string]func(message *Message) error
}

// New - creates the websocket server. allowedOrigin "*" accepts any origin.
func New(logger *slog.Logger, game gameUseCase, hub *Hub, allowedOrigin string) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		game:   game,
		hub:    hub,

		handlers: make(map[string]func(*Message) error),
	}

	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(allowedOrigin),
	}

	server.handlers[actionPlaceStone] = server.handlePlaceStone
	server.handlers[actionConfirmTurn] = server.handleConfirmTurn
	server.handlers[actionUndoTurn] = server.handleUndoTurn
	server.handlers[actionResetGame] = server.handleResetGame

	return server
}

// Handler - returns the http handler serving websocket upgrades on every path.
func (that *Server) Handler() http.Handler {
	return http.HandlerFunc(that.serveWebSocket)
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down websocket server", "error", err)
		}
		that.hub.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWebSocket - upgrades the connection, sends the current state and reads actions.
func (that *Server) serveWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWebSocket", "remote", req.RemoteAddr)

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	listenerID := that.join(conn)
	defer that.hub.Leave(listenerID)

	log = log.With("listenerID", listenerID)
	log.Info("WebSocket connection established")

	that.handleMessages(log, conn)
}

// join - registers the listener atomically with respect to game actions.
func (that *Server) join(conn *websocket.Conn) (id uuid.UUID) {
	that.game.WithSnapshot(func(snapshot *entity.Snapshot) {
		id = that.hub.Join(conn, snapshot)
	})

	return id
}

// handleMessages - processes messages from the client until the connection fails.
func (that *Server) handleMessages(log *slog.Logger, conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}

		log.Debug("received message", "message", string(data))

		if err = that.dispatch(data); err != nil {
			log.Error("error processing message", "error", err)
		}
	}
}

func checkOrigin(allowedOrigin string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if allowedOrigin == "" || allowedOrigin == "*" {
			return true
		}

		origin := r.Header.Get("Origin")
		return origin == "" || origin == allowedOrigin
	}
}
