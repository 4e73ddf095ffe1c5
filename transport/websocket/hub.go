package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connect6-backend/internal/apperror"
	"github.com/rocketscienceinc/connect6-backend/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
	maxMessageSize = 4096
)

var errSendBufferFull = errors.New("send buffer is full")

// wsConn is the write side of a websocket connection.
type wsConn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans snapshots out to every connected listener.
type Hub struct {
	logger *slog.Logger

	mu        sync.RWMutex
	listeners map[uuid.UUID]*listener
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:    logger.With("component", "websocket-hub"),
		listeners: make(map[uuid.UUID]*listener),
	}
}

// Join - registers conn and queues snapshot as its first message.
func (that *Hub) Join(conn wsConn, snapshot *entity.Snapshot) uuid.UUID {
	l := &listener{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
	l.onClose = func() { that.remove(l.id) }

	that.mu.Lock()
	that.listeners[l.id] = l
	that.mu.Unlock()

	go l.writePump(that.logger.With("listenerID", l.id))

	log := that.logger.With("method", "Join", "listenerID", l.id)

	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Error("failed to marshal snapshot", "error", err)
	} else if err = l.enqueue(data); err != nil {
		log.Warn("failed to queue initial snapshot", "error", err)
	}

	log.Info("listener joined")

	return l.id
}

// Leave - closes and forgets the listener.
func (that *Hub) Leave(id uuid.UUID) {
	that.mu.RLock()
	l, ok := that.listeners[id]
	that.mu.RUnlock()

	if ok {
		l.close()
	}
}

// Broadcast - queues the snapshot for every listener without blocking.
// A listener that cannot keep up is disconnected; the rest still receive the snapshot.
func (that *Hub) Broadcast(snapshot *entity.Snapshot) {
	log := that.logger.With("method", "Broadcast")

	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Error("failed to marshal snapshot", "error", err)
		return
	}

	slow := make(map[*listener]error)

	that.mu.RLock()
	for _, l := range that.listeners {
		if err = l.enqueue(data); err != nil {
			slow[l] = err
		}
	}
	that.mu.RUnlock()

	for l, reason := range slow {
		if !errors.Is(reason, apperror.ErrListenerClosed) {
			log.Warn("dropping slow listener", "listenerID", l.id, "error", reason)
		}
		l.close()
	}
}

// Len - returns the number of connected listeners.
func (that *Hub) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.listeners)
}

// Close - disconnects every listener.
func (that *Hub) Close() {
	that.mu.RLock()
	listeners := make([]*listener, 0, len(that.listeners))
	for _, l := range that.listeners {
		listeners = append(listeners, l)
	}
	that.mu.RUnlock()

	for _, l := range listeners {
		l.close()
	}
}

func (that *Hub) remove(id uuid.UUID) {
	that.mu.Lock()
	delete(that.listeners, id)
	that.mu.Unlock()

	that.logger.Info("listener left", "listenerID", id)
}

type listener struct {
	id   uuid.UUID
	conn wsConn

	send chan []byte
	done chan struct{}

	closeOnce sync.Once
	onClose   func()
}

func (that *listener) enqueue(data []byte) error {
	select {
	case <-that.done:
		return apperror.ErrListenerClosed
	default:
	}

	select {
	case that.send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

// writePump is the only goroutine writing to the connection.
func (that *listener) writePump(log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer that.close()

	for {
		select {
		case <-that.done:
			return
		case data := <-that.send:
			if err := that.write(websocket.TextMessage, data); err != nil {
				log.Warn("failed to send snapshot", "error", err)
				return
			}
		case <-ticker.C:
			if err := that.write(websocket.PingMessage, nil); err != nil {
				log.Warn("failed to send ping", "error", err)
				return
			}
		}
	}
}

func (that *listener) write(messageType int, data []byte) error {
	if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return that.conn.WriteMessage(messageType, data)
}

func (that *listener) close() {
	that.closeOnce.Do(func() {
		close(that.done)
		_ = that.conn.Close()

		if that.onClose != nil {
			that.onClose()
		}
	})
}
