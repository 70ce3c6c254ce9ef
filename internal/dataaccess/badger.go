package dataaccess

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/chess-server/internal/model"
	"github.com/dgraph-io/badger/v4"
)

// Key prefixes
const (
	userPrefix = "user/"
	authPrefix = "auth/"
	gamePrefix = "game/"
)

// BadgerDataAccess keeps every record as a JSON value in a badger database.
type BadgerDataAccess struct {
	db *badger.DB
}

// OpenBadger opens (or creates) the database in dir.
func OpenBadger(dir string) (*BadgerDataAccess, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return &BadgerDataAccess{db: db}, nil
}

func (s *BadgerDataAccess) Close() error {
	return s.db.Close()
}

// insert stores value under key, failing if the key is already present.
func (s *BadgerDataAccess) insert(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			return fmt.Errorf("%s: %w", key, ErrAlreadyExists)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set([]byte(key), data)
	})
}

// replace overwrites the value under key, failing if the key is missing.
func (s *BadgerDataAccess) replace(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%s: %w", key, ErrNotFound)
			}
			return err
		}
		return txn.Set([]byte(key), data)
	})
}

func (s *BadgerDataAccess) load(key string, value interface{}) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, value)
		})
	})
}

func (s *BadgerDataAccess) CreateUser(user model.UserData) error {
	return s.insert(userPrefix+user.Username, user)
}

func (s *BadgerDataAccess) GetUser(username string) (model.UserData, error) {
	var user model.UserData
	err := s.load(userPrefix+username, &user)
	return user, err
}

func (s *BadgerDataAccess) CreateAuth(auth model.AuthData) error {
	return s.insert(authPrefix+auth.AuthToken, auth)
}

func (s *BadgerDataAccess) GetAuth(authToken string) (model.AuthData, error) {
	var auth model.AuthData
	err := s.load(authPrefix+authToken, &auth)
	return auth, err
}

func (s *BadgerDataAccess) DeleteAuth(authToken string) error {
	key := []byte(authPrefix + authToken)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("auth token: %w", ErrNotFound)
			}
			return err
		}
		return txn.Delete(key)
	})
}

func (s *BadgerDataAccess) CreateGame(game model.GameData) error {
	return s.insert(gamePrefix+game.GameID, game)
}

func (s *BadgerDataAccess) GetGame(gameID string) (model.GameData, error) {
	var game model.GameData
	err := s.load(gamePrefix+gameID, &game)
	return game, err
}

func (s *BadgerDataAccess) UpdateGame(game model.GameData) error {
	return s.replace(gamePrefix+game.GameID, game)
}

func (s *BadgerDataAccess) ListGames() ([]model.GameData, error) {
	games := make([]model.GameData, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var game model.GameData
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &game)
			})
			if err != nil {
				return err
			}
			games = append(games, game)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortGames(games)
	return games, nil
}

func (s *BadgerDataAccess) Clear() error {
	return s.db.DropAll()
}
