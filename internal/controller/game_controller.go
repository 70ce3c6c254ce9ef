package controller

import (
	"fmt"

	"github.com/benbeisheim/chess-server/internal/middleware"
	"github.com/benbeisheim/chess-server/internal/model"
	"github.com/benbeisheim/chess-server/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	GameName string `json:"gameName"`
}

type joinGameRequest struct {
	GameID      string `json:"gameID"`
	PlayerColor string `json:"playerColor"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(err)
	}
	gameID, err := gc.gameService.CreateGame(middleware.AuthToken(c), req.GameName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"gameID": gameID,
	})
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	games, err := gc.gameService.ListGames(middleware.AuthToken(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"games": games,
	})
}

// JoinGame takes a seat, or just looks at the game when playerColor is empty.
func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	var req joinGameRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(err)
	}
	if req.GameID == "" {
		return fmt.Errorf("%w: gameID required", service.ErrBadRequest)
	}

	var color model.Color
	if req.PlayerColor != "" {
		parsed, ok := model.ParseColor(req.PlayerColor)
		if !ok {
			return fmt.Errorf("%w: invalid team color %q", service.ErrBadRequest, req.PlayerColor)
		}
		color = parsed
	}

	state, err := gc.gameService.JoinGame(middleware.AuthToken(c), req.GameID, color)
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(middleware.AuthToken(c), c.Params("gameId"))
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func (gc *GameController) ValidMoves(c *fiber.Ctx) error {
	from, err := model.ParsePosition(c.Query("from"))
	if err != nil {
		return badRequest(err)
	}
	moves, err := gc.gameService.ValidMoves(middleware.AuthToken(c), c.Params("gameId"), from)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.Move
	if err := c.BodyParser(&move); err != nil {
		return badRequest(err)
	}
	state, err := gc.gameService.MakeMove(middleware.AuthToken(c), c.Params("gameId"), move)
	if err != nil {
		return err
	}
	return c.JSON(state)
}
