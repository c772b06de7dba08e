// internal/transport/http/router.go
package http

import (
	"context"
	"log"
	"time"

	"shipment-service/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type AppConfig struct {
	AllowedOrigins string
	StartedAt      time.Time
	AccessLog      bool
}

func NewApp(cfg AppConfig, h *ShipmentHandler, db Pinger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "shipment-service",
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With,X-Device-ID,X-User-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${ua}\n",
		}))
	}

	v1 := app.Group("/v1", middleware.GatewayAuth())
	v1.Post("/users", h.CreateUser)
	v1.Get("/users/:id", h.GetUser)
	v1.Post("/users/:id/shipments", h.CreateShipment)
	v1.Get("/users/:id/shipments", h.ListShipments)
	v1.Post("/users/:id/addresses", h.CreateAddress)
	v1.Get("/users/:id/addresses", h.ListAddresses)
	v1.Get("/users/:id/settings", h.GetSettings)
	v1.Put("/users/:id/settings", h.UpsertSettings)
	v1.Put("/users/:id/settings/pickup-address", h.SetPickupAddress)
	v1.Get("/shipments/:id", h.GetShipment)
	log.Println("✅ [ROUTES] Registered /v1/users/* and /v1/shipments/*")

	app.Get("/health", func(c *fiber.Ctx) error {
		status, dbStatus := "ok", "up"
		code := fiber.StatusOK
		if err := db.Ping(c.Context()); err != nil {
			log.Printf("⚠️ [HEALTH] DB ping failed: %v", err)
			status, dbStatus = "degraded", "down"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":    status,
			"service":   "shipment-service",
			"database":  dbStatus,
			"uptime":    time.Since(cfg.StartedAt).Round(time.Second).String(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var errMsg string
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		errMsg = e.Message
	} else {
		errMsg = err.Error()
	}
	log.Printf("🔥 [ERROR] [%d] %s %s → %v | IP=%s | UA=%s",
		code,
		c.Method(),
		c.Path(),
		errMsg,
		c.IP(),
		c.Get("User-Agent"),
	)
	return c.Status(code).JSON(fiber.Map{
		"error":      "something went wrong",
		"request_id": c.Get("X-Request-ID"),
	})
}
