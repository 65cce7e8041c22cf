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

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const (
	readLimit  = 4 << 10
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type gameService interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)

	Play(ctx context.Context, id string, cell int) (*entity.Game, error)
	JumpTo(ctx context.Context, id string, move int) (*entity.Game, error)
	ToggleOrder(ctx context.Context, id string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, req Request) (*entity.Game, error)

type Server struct {
	logger   *slog.Logger
	games    gameService
	upgrader websocket.Upgrader
	srv      *http.Server

	handlers map[string]handlerFunc

	connectionsMutex sync.Mutex
	connections      map[*websocket.Conn]struct{}
}

func New(logger *slog.Logger, port string, games gameService) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// browsers on any origin may drive a game; there is no auth to protect
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers:    make(map[string]handlerFunc),
		connections: make(map[*websocket.Conn]struct{}),
	}

	server.handlers[ActionNewGame] = server.handleNewGame
	server.handlers[ActionGetGame] = server.handleGetGame
	server.handlers[ActionPlay] = server.handlePlay
	server.handlers[ActionJump] = server.handleJump
	server.handlers[ActionToggleOrder] = server.handleToggleOrder

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.upgradeToWebSocket)

	server.srv = &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	return server
}

func (that *Server) Handler() http.Handler {
	return that.srv.Handler
}

// Start - starts WebSocket server and blocks until it is shut down.
func (that *Server) Start() error {
	that.logger.Info("Starting WebSocket server", "addr", that.srv.Addr)

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown - stops accepting connections and closes the open ones.
func (that *Server) Shutdown(ctx context.Context) error {
	err := that.srv.Shutdown(ctx)

	that.connectionsMutex.Lock()
	for conn := range that.connections {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(writeWait))
		_ = conn.Close()
	}
	that.connectionsMutex.Unlock()

	if err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	that.register(conn)
	defer that.unregister(conn)

	log.Debug("WebSocket connection established", "remote", conn.RemoteAddr().String())

	if err = that.handleMessages(r.Context(), conn); err != nil {
		log.Debug("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client until the connection drops.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stopPing := that.keepAlive(conn)
	defer stopPing()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		var response Response
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			response = Response{Error: "malformed message"}
		} else {
			response = that.dispatch(ctx, &message)
		}

		if err = that.send(conn, message.Action, response); err != nil {
			log.Error("failed to send response", "error", err)
			return err
		}
	}
}

func (that *Server) dispatch(ctx context.Context, message *Message) Response {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		return Response{Error: fmt.Sprintf("unknown action %q", message.Action)}
	}

	var req Request
	if len(message.Payload) > 0 {
		if err := decodeRequest(message.Payload, &req); err != nil {
			return Response{Error: err.Error()}
		}
	}

	game, err := handler(ctx, req)
	if err != nil {
		text := errorMessage(err)
		if text == internalError {
			log.Error("action failed", "error", err)
		} else {
			log.Debug("action rejected", "error", err)
		}

		return Response{Error: text}
	}

	view := entity.Render(game)

	return Response{Game: &view}
}

func (that *Server) send(conn *websocket.Conn, action string, response Response) error {
	if action == "" {
		action = ActionError
	}

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := conn.WriteJSON(newMessage(action, response)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// keepAlive - pings the client so dead peers hit the read deadline.
func (that *Server) keepAlive(conn *websocket.Conn) func() {
	done := make(chan struct{})
	ticker := time.NewTicker(pingPeriod)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }
}

func (that *Server) register(conn *websocket.Conn) {
	that.connectionsMutex.Lock()
	that.connections[conn] = struct{}{}
	that.connectionsMutex.Unlock()
}

func (that *Server) unregister(conn *websocket.Conn) {
	that.connectionsMutex.Lock()
	delete(that.connections, conn)
	that.connectionsMutex.Unlock()

	_ = conn.Close()
}
