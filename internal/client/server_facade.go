package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/benbeisheim/chess-server/internal/model"
	"github.com/gofiber/fiber/v2"
)

const requestTimeout = 10 * time.Second

// ResponseError is a non-2xx reply from the server.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return e.Message
}

// ServerFacade talks to the chess server's HTTP API.
type ServerFacade struct {
	serverURL string
}

func NewServerFacade(serverURL string) *ServerFacade {
	return &ServerFacade{serverURL: strings.TrimRight(serverURL, "/")}
}

type gameListResponse struct {
	Games []model.GameData `json:"games"`
}

type createGameResponse struct {
	GameID string `json:"gameID"`
}

type validMovesResponse struct {
	Moves []model.Move `json:"moves"`
}

func (sf *ServerFacade) Register(user model.UserData) (model.AuthData, error) {
	var auth model.AuthData
	err := sf.do(fiber.MethodPost, "/user", "", user, &auth)
	return auth, err
}

func (sf *ServerFacade) Login(username, password string) (model.AuthData, error) {
	var auth model.AuthData
	body := fiber.Map{"username": username, "password": password}
	err := sf.do(fiber.MethodPost, "/session", "", body, &auth)
	return auth, err
}

func (sf *ServerFacade) Logout(authToken string) error {
	return sf.do(fiber.MethodDelete, "/session", authToken, nil, nil)
}

func (sf *ServerFacade) CreateGame(authToken, gameName string) (string, error) {
	var resp createGameResponse
	err := sf.do(fiber.MethodPost, "/game", authToken, fiber.Map{"gameName": gameName}, &resp)
	return resp.GameID, err
}

func (sf *ServerFacade) ListGames(authToken string) ([]model.GameData, error) {
	var resp gameListResponse
	err := sf.do(fiber.MethodGet, "/game", authToken, nil, &resp)
	return resp.Games, err
}

// JoinGame takes the seat at color; an empty color observes.
func (sf *ServerFacade) JoinGame(authToken, gameID string, color model.Color) (model.GameState, error) {
	var state model.GameState
	body := fiber.Map{"gameID": gameID, "playerColor": string(color)}
	err := sf.do(fiber.MethodPut, "/game", authToken, body, &state)
	return state, err
}

func (sf *ServerFacade) GetGame(authToken, gameID string) (model.GameState, error) {
	var state model.GameState
	err := sf.do(fiber.MethodGet, "/game/"+url.PathEscape(gameID), authToken, nil, &state)
	return state, err
}

func (sf *ServerFacade) ValidMoves(authToken, gameID string, from model.Position) ([]model.Move, error) {
	var resp validMovesResponse
	path := "/game/" + url.PathEscape(gameID) + "/moves?from=" + url.QueryEscape(from.String())
	err := sf.do(fiber.MethodGet, path, authToken, nil, &resp)
	return resp.Moves, err
}

func (sf *ServerFacade) MakeMove(authToken, gameID string, move model.Move) (model.GameState, error) {
	var state model.GameState
	err := sf.do(fiber.MethodPost, "/game/"+url.PathEscape(gameID)+"/move", authToken, move, &state)
	return state, err
}

// Clear wipes the server's database.
func (sf *ServerFacade) Clear() error {
	return sf.do(fiber.MethodDelete, "/db", "", nil, nil)
}

func (sf *ServerFacade) do(method, path, authToken string, body, out interface{}) error {
	// Bytes hands the agent back to the pool
	agent := fiber.AcquireAgent()

	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(sf.serverURL + path)
	if authToken != "" {
		agent.Set(fiber.HeaderAuthorization, authToken)
	}
	if body != nil {
		agent.JSON(body)
	}
	agent.Timeout(requestTimeout)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	code, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	if code/100 != 2 {
		return responseError(code, respBody)
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("invalid JSON in response: %w", err)
	}
	return nil
}

func responseError(code int, body []byte) error {
	var reply struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &reply); err != nil || reply.Message == "" {
		return &ResponseError{StatusCode: code, Message: fmt.Sprintf("Server error (%d): %s", code, body)}
	}
	return &ResponseError{StatusCode: code, Message: reply.Message}
}
