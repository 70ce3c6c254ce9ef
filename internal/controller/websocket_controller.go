package controller

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-server/internal/middleware"
	"github.com/benbeisheim/chess-server/internal/model"
	"github.com/benbeisheim/chess-server/internal/service"
	"github.com/benbeisheim/chess-server/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// socket serializes writes; broadcasts from other requests and replies from
// the read loop share one connection.
type socket struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *socket) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// HandleConnection is called when a new websocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	username, _ := c.Locals(middleware.LocalUsername).(string)
	authToken, _ := c.Locals(middleware.LocalAuthToken).(string)
	sock := &socket{conn: c}

	if err := wsc.gameService.RegisterConnection(gameID, username, sock); err != nil {
		log.Warnf("failed to register connection for %s on game %s: %v", username, gameID, err)
		wsc.sendError(sock, err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, username, sock)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("websocket closed for %s on game %s: %v", username, gameID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(sock, fmt.Errorf("%w: malformed message", service.ErrBadRequest))
			continue
		}
		if err := wsc.handleMessage(authToken, gameID, msg); err != nil {
			wsc.sendError(sock, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(authToken, gameID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.Move
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("%w: %v", service.ErrBadRequest, err)
		}
		// the new state reaches this connection through the game's broadcast
		_, err := wsc.gameService.MakeMove(authToken, gameID, move)
		return err

	default:
		return fmt.Errorf("%w: unknown message type %q", service.ErrBadRequest, msg.Type)
	}
}

func (wsc *WebSocketController) sendError(s *socket, cause error) {
	msg, err := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Message: "Error: " + cause.Error()})
	if err != nil {
		log.Errorf("encode error message: %v", err)
		return
	}
	if err := s.WriteJSON(msg); err != nil {
		log.Debugf("send error message: %v", err)
	}
}
