// Package dataaccess stores users, auth tokens and games.
package dataaccess

import (
	"errors"
	"sort"

	"github.com/benbeisheim/chess-server/internal/model"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type DataAccess interface {
	CreateUser(user model.UserData) error
	GetUser(username string) (model.UserData, error)

	CreateAuth(auth model.AuthData) error
	GetAuth(authToken string) (model.AuthData, error)
	DeleteAuth(authToken string) error

	CreateGame(game model.GameData) error
	GetGame(gameID string) (model.GameData, error)
	UpdateGame(game model.GameData) error
	// ListGames returns every game, oldest first.
	ListGames() ([]model.GameData, error)

	Clear() error
	Close() error
}

func sortGames(games []model.GameData) {
	sort.Slice(games, func(i, j int) bool {
		if games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].GameID < games[j].GameID
		}
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})
}
