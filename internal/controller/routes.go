package controller

import (
	"strings"

	"github.com/benbeisheim/chess-server/internal/middleware"
	"github.com/benbeisheim/chess-server/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

type AppConfig struct {
	Users *service.UserService
	Games *service.GameService
	// AllowOrigins is a comma separated CORS allow list; "*" allows any origin.
	AllowOrigins string
	// AccessLog turns on per-request logging.
	AccessLog bool
}

// NewApp builds the HTTP and websocket routes of the chess server.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "chess-server",
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: origins != "*",
	}))

	userController := NewUserController(cfg.Users, cfg.Games)
	gameController := NewGameController(cfg.Games)
	wsController := NewWebSocketController(cfg.Games)
	requireAuth := middleware.RequireAuth(cfg.Users)

	app.Delete("/db", userController.Clear)
	app.Post("/user", userController.Register)
	app.Post("/session", userController.Login)
	app.Delete("/session", requireAuth, userController.Logout)

	games := app.Group("/game", requireAuth)
	games.Get("/", gameController.ListGames)
	games.Post("/", gameController.CreateGame)
	games.Put("/", gameController.JoinGame)
	games.Get("/:gameId", gameController.GetGameState)
	games.Get("/:gameId/moves", gameController.ValidMoves)
	games.Post("/:gameId/move", gameController.MakeMove)

	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if origins != "*" {
		wsConfig.Origins = splitOrigins(origins)
	}
	app.Get("/ws/game/:gameId", requireAuth, middleware.WebSocketUpgrade(),
		websocket.New(wsController.HandleConnection, wsConfig))

	return app
}

func splitOrigins(origins string) []string {
	var list []string
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			list = append(list, origin)
		}
	}
	return list
}
