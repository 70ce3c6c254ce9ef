package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbeisheim/chess-server/internal/controller"
	"github.com/benbeisheim/chess-server/internal/dataaccess"
	"github.com/benbeisheim/chess-server/internal/service"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"
)

type config struct {
	addr    string
	store   string
	dbDir   string
	origins string
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func parseConfig() config {
	var cfg config
	flag.StringVar(&cfg.addr, "addr", envOr("CHESS_ADDR", ":8080"), "listen address")
	flag.StringVar(&cfg.store, "store", envOr("CHESS_STORE", "memory"), "storage backend: memory or badger")
	flag.StringVar(&cfg.dbDir, "db", envOr("CHESS_DB", "chess-data"), "badger data directory")
	flag.StringVar(&cfg.origins, "origins", "*", "comma separated CORS origins")
	flag.Parse()
	return cfg
}

func openStore(cfg config) (dataaccess.DataAccess, error) {
	switch cfg.store {
	case "memory":
		return dataaccess.NewMemoryDataAccess(), nil
	case "badger":
		return dataaccess.OpenBadger(cfg.dbDir)
	}
	return nil, fmt.Errorf("unknown store %q", cfg.store)
}

func main() {
	cfg := parseConfig()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// Initialize services
	userService := service.NewUserService(store)
	gameService := service.NewGameService(userService, store, service.NewGameManager(store))

	app := controller.NewApp(controller.AppConfig{
		Users:        userService,
		Games:        gameService,
		AllowOrigins: cfg.origins,
		AccessLog:    true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("listening on %s (%s store)", cfg.addr, cfg.store)
		return app.Listen(cfg.addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorf("server stopped: %v", err)
		return
	}
	log.Info("server stopped")
}
