package dataaccess

import (
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-server/internal/model"
)

type MemoryDataAccess struct {
	mu    sync.RWMutex
	users map[string]model.UserData
	auths map[string]model.AuthData
	games map[string]model.GameData
}

func NewMemoryDataAccess() *MemoryDataAccess {
	m := &MemoryDataAccess{}
	m.reset()
	return m
}

func (m *MemoryDataAccess) reset() {
	m.users = make(map[string]model.UserData)
	m.auths = make(map[string]model.AuthData)
	m.games = make(map[string]model.GameData)
}

func (m *MemoryDataAccess) CreateUser(user model.UserData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.Username]; exists {
		return fmt.Errorf("user %q: %w", user.Username, ErrAlreadyExists)
	}
	m.users[user.Username] = user
	return nil
}

func (m *MemoryDataAccess) GetUser(username string) (model.UserData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[username]
	if !exists {
		return model.UserData{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	return user, nil
}

func (m *MemoryDataAccess) CreateAuth(auth model.AuthData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.auths[auth.AuthToken]; exists {
		return fmt.Errorf("auth token: %w", ErrAlreadyExists)
	}
	m.auths[auth.AuthToken] = auth
	return nil
}

func (m *MemoryDataAccess) GetAuth(authToken string) (model.AuthData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	auth, exists := m.auths[authToken]
	if !exists {
		return model.AuthData{}, fmt.Errorf("auth token: %w", ErrNotFound)
	}
	return auth, nil
}

func (m *MemoryDataAccess) DeleteAuth(authToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.auths[authToken]; !exists {
		return fmt.Errorf("auth token: %w", ErrNotFound)
	}
	delete(m.auths, authToken)
	return nil
}

func (m *MemoryDataAccess) CreateGame(game model.GameData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.games[game.GameID]; exists {
		return fmt.Errorf("game %s: %w", game.GameID, ErrAlreadyExists)
	}
	m.games[game.GameID] = copyGame(game)
	return nil
}

func (m *MemoryDataAccess) GetGame(gameID string) (model.GameData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	game, exists := m.games[gameID]
	if !exists {
		return model.GameData{}, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	return copyGame(game), nil
}

func (m *MemoryDataAccess) UpdateGame(game model.GameData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.games[game.GameID]; !exists {
		return fmt.Errorf("game %s: %w", game.GameID, ErrNotFound)
	}
	m.games[game.GameID] = copyGame(game)
	return nil
}

func (m *MemoryDataAccess) ListGames() ([]model.GameData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	games := make([]model.GameData, 0, len(m.games))
	for _, game := range m.games {
		games = append(games, copyGame(game))
	}
	sortGames(games)
	return games, nil
}

func (m *MemoryDataAccess) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset()
	return nil
}

func (m *MemoryDataAccess) Close() error {
	return nil
}

// copyGame keeps callers from sharing the stored move slice.
func copyGame(game model.GameData) model.GameData {
	moves := make([]model.Move, len(game.Moves))
	copy(moves, game.Moves)
	game.Moves = moves
	return game
}
