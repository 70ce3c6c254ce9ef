package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benbeisheim/chess-server/internal/dataaccess"
	"github.com/benbeisheim/chess-server/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	dataAccess dataaccess.DataAccess
}

func NewUserService(dataAccess dataaccess.DataAccess) *UserService {
	return &UserService{dataAccess: dataAccess}
}

func (us *UserService) Register(user model.UserData) (model.AuthData, error) {
	switch {
	case strings.TrimSpace(user.Username) == "":
		return model.AuthData{}, fmt.Errorf("%w: username required", ErrBadRequest)
	case user.Password == "":
		return model.AuthData{}, fmt.Errorf("%w: password required", ErrBadRequest)
	case strings.TrimSpace(user.Email) == "":
		return model.AuthData{}, fmt.Errorf("%w: email required", ErrBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.AuthData{}, fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hash)

	if err := us.dataAccess.CreateUser(user); err != nil {
		if errors.Is(err, dataaccess.ErrAlreadyExists) {
			return model.AuthData{}, fmt.Errorf("%w: username unavailable", ErrForbidden)
		}
		return model.AuthData{}, err
	}
	log.Infof("registered user %s", user.Username)
	return us.newSession(user.Username)
}

func (us *UserService) Login(username, password string) (model.AuthData, error) {
	if username == "" || password == "" {
		return model.AuthData{}, fmt.Errorf("%w: username and password are required", ErrBadRequest)
	}
	user, err := us.dataAccess.GetUser(username)
	if err != nil && !errors.Is(err, dataaccess.ErrNotFound) {
		return model.AuthData{}, err
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return model.AuthData{}, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}
	return us.newSession(user.Username)
}

func (us *UserService) newSession(username string) (model.AuthData, error) {
	auth := model.AuthData{AuthToken: uuid.NewString(), Username: username}
	if err := us.dataAccess.CreateAuth(auth); err != nil {
		return model.AuthData{}, fmt.Errorf("create session: %w", err)
	}
	return auth, nil
}

func (us *UserService) Logout(authToken string) error {
	if _, err := us.Authenticate(authToken); err != nil {
		return err
	}
	return us.dataAccess.DeleteAuth(authToken)
}

// Authenticate resolves a session token to its session.
func (us *UserService) Authenticate(authToken string) (model.AuthData, error) {
	if authToken == "" {
		return model.AuthData{}, fmt.Errorf("%w: missing auth token", ErrUnauthorized)
	}
	auth, err := us.dataAccess.GetAuth(authToken)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return model.AuthData{}, fmt.Errorf("%w: invalid auth token", ErrUnauthorized)
	}
	return auth, err
}
