package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const writeWait = 10 * time.Second

var ErrUnknownAction = errors.New("unknown action")

type gameManager interface {
	Snapshot() entity.Snapshot
	SubmitMove(cellNo int) entity.Snapshot
	Restart() entity.Snapshot
	Subscribe(ctx context.Context) (<-chan entity.Snapshot, func())
}

// Server streams session snapshots to WebSocket clients and accepts their intents.
type Server struct {
	logger   *slog.Logger
	manager  gameManager
	upgrader websocket.Upgrader

	handlers map[string]func(message *Message) error
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	server.handlers = map[string]func(*Message) error{
		actionTurn:    server.handleTurn,
		actionRestart: server.handleRestart,
	}

	return server
}

// ServeHTTP upgrades the connection and streams snapshots until the client goes away.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP", "remote", r.RemoteAddr)

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	updates, unsubscribe := that.manager.Subscribe(ctx)
	defer unsubscribe()

	errs := make(chan error, 1)
	go func() {
		defer cancel()
		that.readLoop(conn, errs)
	}()

	if err = writeState(conn, that.manager.Snapshot()); err != nil {
		log.Error("failed to send state", "error", err)
		return
	}

	log.Info("client connected")

	for {
		select {
		case <-ctx.Done():
			log.Info("client disconnected")
			return
		case err = <-errs:
			if err = writeMessage(conn, actionError, ErrorPayload{Error: err.Error()}); err != nil {
				log.Error("failed to send error", "error", err)
				return
			}
		case snap, ok := <-updates:
			if !ok {
				log.Warn("subscription closed")
				return
			}

			if err = writeState(conn, snap); err != nil {
				log.Error("failed to send state", "error", err)
				return
			}
		}
	}
}

func (that *Server) readLoop(conn *websocket.Conn, errs chan<- error) {
	log := that.logger.With("method", "readLoop")

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read failed", "error", err)
			}
			return
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			handler = func(message *Message) error {
				return fmt.Errorf("%w: %s", ErrUnknownAction, message.Action)
			}
		}

		if err := handler(&msg); err != nil {
			log.Warn("message rejected", "action", msg.Action, "error", err)

			select {
			case errs <- err:
			default:
			}
		}
	}
}

func (that *Server) handleTurn(msg *Message) error {
	var payload TurnPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.manager.SubmitMove(payload.Cell)

	return nil
}

func (that *Server) handleRestart(_ *Message) error {
	that.manager.Restart()

	return nil
}

func writeState(conn *websocket.Conn, snap entity.Snapshot) error {
	return writeJSON(conn, StateMessage{Action: actionState, Payload: snap})
}

func writeMessage(conn *websocket.Conn, action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return writeJSON(conn, Message{Action: action, Payload: raw})
}

func writeJSON(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := conn.WriteJSON(v); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
