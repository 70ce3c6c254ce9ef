package controller

import (
	"github.com/benbeisheim/chess-server/internal/middleware"
	"github.com/benbeisheim/chess-server/internal/model"
	"github.com/benbeisheim/chess-server/internal/service"
	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	userService *service.UserService
	gameService *service.GameService
}

func NewUserController(userService *service.UserService, gameService *service.GameService) *UserController {
	return &UserController{userService: userService, gameService: gameService}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (uc *UserController) Register(c *fiber.Ctx) error {
	var user model.UserData
	if err := c.BodyParser(&user); err != nil {
		return badRequest(err)
	}
	auth, err := uc.userService.Register(user)
	if err != nil {
		return err
	}
	return c.JSON(auth)
}

func (uc *UserController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(err)
	}
	auth, err := uc.userService.Login(req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(auth)
}

func (uc *UserController) Logout(c *fiber.Ctx) error {
	if err := uc.userService.Logout(middleware.AuthToken(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{})
}

// Clear wipes the database. It exists for tests and local development.
func (uc *UserController) Clear(c *fiber.Ctx) error {
	if err := uc.gameService.Clear(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{})
}
