package handlers

import (
	"errors"

	"github.com/gonz247/commentgenerator/internal/app"
	"github.com/gonz247/commentgenerator/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	log    logger.Logger
	router fiber.Router
}

// NewServer builds the fiber application with every route registered.
func NewServer(app *app.App) (*fiber.App, error) {
	server := fiber.New(fiber.Config{
		AppName:               "commentgen " + app.Config.GeneralVersion,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	server.Use(recover.New())

	if err := Router(server, app); err != nil {
		return nil, err
	}
	return server, nil
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	router.Get("/metrics", adaptor.HTTPHandler(app.Metrics.Handler()))

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewAssessmentHandler(*app, api).Register()
	NewVocabularyHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	preview := NewPreviewHandler(*app)
	router.Get("/ws/preview", websocket.New(preview.serve))
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(fiber.Map{"message": "error", "error": err.Error()})
}
