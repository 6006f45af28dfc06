package server

import (
	"context"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/sirupsen/logrus"
	"go-portprobe/manager"
)

// New builds the HTTP application around m. Scans started through it are
// cancelled when ctx is done.
func New(ctx context.Context, m *manager.Manager) *fiber.App {
	// Initiate HTTP Handler
	h := Handler{m: m, ctx: ctx}

	// Prepare fiber app
	app := fiber.New()
	app.Use(recoverer.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Origin", "Accept"},
		AllowOrigins: []string{"http://localhost:5173"},
	}))

	// Define routes
	app.Post("/scan", h.ScanHandler)
	app.Get("/scans", h.ScansHandler)
	app.Get("/scans/:id", h.ScanByIDHandler)
	app.Get("/settings", h.GetSettingsHandler)
	app.Post("/settings", h.SettingsHandler)

	return app
}

// Start serves the API on addr until ctx is done or the listener fails.
func Start(ctx context.Context, addr string, m *manager.Manager) error {
	app := New(ctx, m)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("Shutdown error: %v", err)
		}
	}()

	logrus.Infof("Backend server started on %s", addr)
	return app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}
