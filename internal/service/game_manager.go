// service/game_manager.go
package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-server/internal/dataaccess"
	"github.com/benbeisheim/chess-server/internal/model"
	"github.com/benbeisheim/chess-server/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// The connections watching a specific game
type GameConnections struct {
	connections map[string]ws.Conn // username -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]ws.Conn),
	}
}

// LiveGame is a game loaded into memory. mu serializes every read and move
// on the engine state; the engine itself is not safe for concurrent use.
type LiveGame struct {
	mu          sync.Mutex
	data        model.GameData
	game        *model.Game
	connections *GameConnections
}

// GameManager owns the live games, loading them from storage on first use.
type GameManager struct {
	dataAccess dataaccess.DataAccess
	games      map[string]*LiveGame
	mu         sync.RWMutex
}

func NewGameManager(dataAccess dataaccess.DataAccess) *GameManager {
	return &GameManager{
		dataAccess: dataAccess,
		games:      make(map[string]*LiveGame),
	}
}

// replay rebuilds the engine state of a stored game.
func replay(data model.GameData) (*model.Game, error) {
	game := model.NewGame()
	for i, move := range data.Moves {
		if err := game.MakeMove(move); err != nil {
			return nil, fmt.Errorf("replay game %s, move %d (%s): %w", data.GameID, i+1, move, err)
		}
	}
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*LiveGame, error) {
	gm.mu.RLock()
	live, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return live, nil
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	// another request may have loaded it meanwhile
	if live, exists := gm.games[gameID]; exists {
		return live, nil
	}

	data, err := gm.dataAccess.GetGame(gameID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if err != nil {
		return nil, err
	}
	game, err := replay(data)
	if err != nil {
		return nil, err
	}

	live = &LiveGame{
		data:        data,
		game:        game,
		connections: NewGameConnections(),
	}
	gm.games[gameID] = live
	log.Infof("loaded game %s with %d moves", gameID, len(data.Moves))
	return live, nil
}

// Reset forgets every live game.
func (gm *GameManager) Reset() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	gm.games = make(map[string]*LiveGame)
}

func (gm *GameManager) RegisterConnection(gameID string, username string, conn ws.Conn) error {
	live, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	live.connections.mu.Lock()
	live.connections.connections[username] = conn
	live.connections.mu.Unlock()
	log.Infof("registered connection for %s on game %s", username, gameID)

	// Send initial state
	live.mu.Lock()
	defer live.mu.Unlock()
	state, err := live.state()
	if err != nil {
		return err
	}
	return sendState(conn, state)
}

// UnregisterConnection drops username's connection, but only if it is still conn;
// a newer connection from the same user stays registered.
func (gm *GameManager) UnregisterConnection(gameID string, username string, conn ws.Conn) {
	gm.mu.RLock()
	live, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}

	live.connections.mu.Lock()
	defer live.connections.mu.Unlock()

	if current, exists := live.connections.connections[username]; exists && current == conn {
		delete(live.connections.connections, username)
		log.Infof("unregistered connection for %s on game %s", username, gameID)
	}
}

func (lg *LiveGame) state() (model.GameState, error) {
	return model.NewGameState(lg.data, lg.game)
}

func sendState(conn ws.Conn, state model.GameState) error {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

// broadcastState pushes state to every watcher, dropping connections that fail.
func (lg *LiveGame) broadcastState(state model.GameState) {
	lg.connections.mu.Lock()
	defer lg.connections.mu.Unlock()

	for username, conn := range lg.connections.connections {
		if err := sendState(conn, state); err != nil {
			log.Warnf("failed to send state of game %s to %s: %v", state.GameID, username, err)
			delete(lg.connections.connections, username)
		}
	}
}
