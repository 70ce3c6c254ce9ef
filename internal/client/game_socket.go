package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/benbeisheim/chess-server/internal/model"
	"github.com/benbeisheim/chess-server/internal/ws"
	"github.com/fasthttp/websocket"
)

// SocketError is an error message pushed by the server over a game socket.
// The socket stays open after one.
type SocketError struct {
	Message string
}

func (e *SocketError) Error() string {
	return e.Message
}

// GameSocket is a live connection to one game.
type GameSocket struct {
	conn *websocket.Conn
	mu   sync.Mutex // guards writes
}

// socketURL turns the server's http(s) base URL into the game's ws(s) endpoint.
func socketURL(serverURL, authToken, gameID string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/game/" + url.PathEscape(gameID)
	u.RawQuery = url.Values{"auth": {authToken}}.Encode()
	return u.String(), nil
}

func DialGame(serverURL, authToken, gameID string) (*GameSocket, error) {
	target, err := socketURL(serverURL, authToken, gameID)
	if err != nil {
		return nil, err
	}
	conn, resp, err := websocket.DefaultDialer.Dial(target, nil)
	if err != nil {
		if resp != nil {
			return nil, &ResponseError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("websocket upgrade refused: %s", resp.Status)}
		}
		return nil, err
	}
	return &GameSocket{conn: conn}, nil
}

// Next blocks for the next message. A gameState comes back as a state; a
// server error message comes back as a *SocketError.
func (gs *GameSocket) Next() (model.GameState, error) {
	for {
		var msg ws.Message
		if err := gs.conn.ReadJSON(&msg); err != nil {
			return model.GameState{}, err
		}
		switch msg.Type {
		case ws.MessageTypeGameState:
			var state model.GameState
			if err := json.Unmarshal(msg.Payload, &state); err != nil {
				return model.GameState{}, fmt.Errorf("decode game state: %w", err)
			}
			return state, nil
		case ws.MessageTypeError:
			var payload ws.ErrorPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				return model.GameState{}, fmt.Errorf("decode error message: %w", err)
			}
			return model.GameState{}, &SocketError{Message: payload.Message}
		}
	}
}

func (gs *GameSocket) SendMove(move model.Move) error {
	msg, err := ws.NewMessage(ws.MessageTypeMove, move)
	if err != nil {
		return err
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.conn.WriteJSON(msg)
}

func (gs *GameSocket) Close() error {
	return gs.conn.Close()
}

// WatchGame calls onState with every state pushed for the game until the
// returned stop function is called or the connection drops.
func (sf *ServerFacade) WatchGame(authToken, gameID string, onState func(model.GameState)) (func(), error) {
	sock, err := DialGame(sf.serverURL, authToken, gameID)
	if err != nil {
		return nil, err
	}
	go func() {
		for {
			state, err := sock.Next()
			var socketErr *SocketError
			switch {
			case errors.As(err, &socketErr):
				continue
			case err != nil:
				return
			}
			onState(state)
		}
	}()
	return func() { sock.Close() }, nil
}
