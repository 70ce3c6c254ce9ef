package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/benbeisheim/chess-server/internal/dataaccess"
	"github.com/benbeisheim/chess-server/internal/model"
	"github.com/benbeisheim/chess-server/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type GameService struct {
	users       *UserService
	dataAccess  dataaccess.DataAccess
	gameManager *GameManager
}

func NewGameService(users *UserService, dataAccess dataaccess.DataAccess, gameManager *GameManager) *GameService {
	return &GameService{
		users:       users,
		dataAccess:  dataAccess,
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame(authToken, gameName string) (string, error) {
	if _, err := gs.users.Authenticate(authToken); err != nil {
		return "", err
	}
	if strings.TrimSpace(gameName) == "" {
		return "", fmt.Errorf("%w: game name required", ErrBadRequest)
	}

	data := model.GameData{
		GameID:    uuid.NewString(),
		GameName:  gameName,
		Moves:     []model.Move{},
		CreatedAt: time.Now().UTC(),
	}
	if err := gs.dataAccess.CreateGame(data); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	log.Infof("created game %s (%s)", data.GameID, gameName)
	return data.GameID, nil
}

func (gs *GameService) ListGames(authToken string) ([]model.GameData, error) {
	if _, err := gs.users.Authenticate(authToken); err != nil {
		return nil, err
	}
	return gs.dataAccess.ListGames()
}

// JoinGame seats the caller at color. An empty color joins as an observer,
// which only checks that the game exists.
func (gs *GameService) JoinGame(authToken, gameID string, color model.Color) (model.GameState, error) {
	auth, err := gs.users.Authenticate(authToken)
	if err != nil {
		return model.GameState{}, err
	}
	if color != "" && !color.Valid() {
		return model.GameState{}, fmt.Errorf("%w: invalid team color %q", ErrBadRequest, color)
	}

	live, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	if color == "" {
		return live.state()
	}

	switch seated := live.data.Seat(color); seated {
	case auth.Username:
		return live.state()
	case "":
	default:
		return model.GameState{}, fmt.Errorf("%w: %s is already taken", ErrForbidden, color)
	}

	data := live.data
	data.SetSeat(color, auth.Username)
	if err := gs.dataAccess.UpdateGame(data); err != nil {
		return model.GameState{}, err
	}
	live.data = data
	log.Infof("%s joined game %s as %s", auth.Username, gameID, color)

	state, err := live.state()
	if err != nil {
		return model.GameState{}, err
	}
	live.broadcastState(state)
	return state, nil
}

func (gs *GameService) GetGameState(authToken, gameID string) (model.GameState, error) {
	if _, err := gs.users.Authenticate(authToken); err != nil {
		return model.GameState{}, err
	}
	live, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	return live.state()
}

// ValidMoves lists the legal moves of the piece on from, for the side to move.
func (gs *GameService) ValidMoves(authToken, gameID string, from model.Position) ([]model.Move, error) {
	if _, err := gs.users.Authenticate(authToken); err != nil {
		return nil, err
	}
	live, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	return live.game.ValidMoves(from)
}

// MakeMove plays move for the caller, who must be seated at the color to move.
// The move is stored before the live game changes, so a failed write leaves
// the game as it was.
func (gs *GameService) MakeMove(authToken, gameID string, move model.Move) (model.GameState, error) {
	auth, err := gs.users.Authenticate(authToken)
	if err != nil {
		return model.GameState{}, err
	}
	if !move.From.Valid() || !move.To.Valid() {
		return model.GameState{}, fmt.Errorf("%w: move needs from and to squares", ErrBadRequest)
	}

	live, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	color, isPlayer := live.data.PlayerColor(auth.Username)
	if !isPlayer {
		return model.GameState{}, fmt.Errorf("%w: observers cannot move", ErrForbidden)
	}
	status, err := live.game.Status()
	if err != nil {
		return model.GameState{}, err
	}
	if status.Over() {
		return model.GameState{}, fmt.Errorf("%w: %s", ErrGameOver, status)
	}
	// a player seated on both sides may move for whichever is to move
	if color != live.game.Turn() && live.data.Seat(live.game.Turn()) != auth.Username {
		return model.GameState{}, fmt.Errorf("%w: %s to move", model.ErrWrongTurn, live.game.Turn())
	}

	next := live.game.Clone()
	if err := next.MakeMove(move); err != nil {
		return model.GameState{}, err
	}

	data := live.data
	data.Moves = next.History()
	if err := gs.dataAccess.UpdateGame(data); err != nil {
		return model.GameState{}, fmt.Errorf("store move: %w", err)
	}
	live.data = data
	live.game = next

	state, err := live.state()
	if err != nil {
		return model.GameState{}, err
	}
	log.Infof("game %s: %s played %s, status %s", gameID, auth.Username, move, state.Status)
	live.broadcastState(state)
	return state, nil
}

// Clear wipes every user, session and game.
func (gs *GameService) Clear() error {
	if err := gs.dataAccess.Clear(); err != nil {
		return err
	}
	gs.gameManager.Reset()
	log.Info("cleared database")
	return nil
}

func (gs *GameService) Authenticate(authToken string) (model.AuthData, error) {
	return gs.users.Authenticate(authToken)
}

func (gs *GameService) RegisterConnection(gameID string, username string, conn ws.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, username, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, username string, conn ws.Conn) {
	gs.gameManager.UnregisterConnection(gameID, username, conn)
}

