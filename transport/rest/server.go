package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/connect6-backend/internal/entity"
	"github.com/rocketscienceinc/connect6-backend/pkg/handlers"
)

const (
	handlerTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type gameUseCase interface {
	PlaceStone(row, col int) *entity.Snapshot
	ConfirmTurn() *entity.Snapshot
	UndoTurn() *entity.Snapshot
	ResetGame() *entity.Snapshot
	Snapshot() *entity.Snapshot
}

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	game   gameUseCase
}

// New - builds the HTTP API: game actions, state, ping and the web client.
func New(logger *slog.Logger, game gameUseCase, corsOrigin, staticDir string) *Server {
	server := &Server{
		logger: logger.With("component", "rest"),
		router: chi.NewRouter(),
		game:   game,
	}

	server.router.Use(chimw.RequestID)
	server.router.Use(chimw.RealIP)
	server.router.Use(chimw.Recoverer)
	server.router.Use(chimw.Timeout(handlerTimeout))
	server.router.Use(cors(corsOrigin))

	server.router.Get("/ping", handlers.Ping)
	server.router.Get("/state", server.handleState)

	server.router.Get("/placeStone", server.handlePlaceStone)
	server.router.Get("/confirm", server.handleConfirmTurn)
	server.router.Get("/undoTurn", server.handleUndoTurn)
	server.router.Get("/resetGame", server.handleResetGame)

	server.router.Handle("/*", handlers.Static(staticDir))

	return server
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// cors - allows the web client to call the action routes from another origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
