package app

import (
	"context"
	"fmt"
	"strings"

	"internmatch/internal/config"
	"internmatch/internal/database/migration"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

// Bootstrap builds the container, applies pending migrations, mounts the
// routes, and starts the session orchestrator. The returned cleanup stops
// the orchestrator and closes infrastructure connections.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := runMigrations(c); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	c.Routes.Register(f)

	orchCtx, stopOrch := context.WithCancel(context.Background())
	go c.Orchestrator.Run(orchCtx)

	cleanup := func() error {
		stopOrch()
		return c.Close()
	}
	return &App{Fiber: f}, cleanup, nil
}

func runMigrations(c *Container) error {
	runner := migration.Runner{Dir: c.Config.App.MigrationsDir}
	if err := runner.Run(context.Background(), c.DB.SQLDB()); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
