package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipment-service/internal/config"
	"shipment-service/internal/database"
	"shipment-service/internal/service"
	"shipment-service/internal/transport/http"
)

func main() {
	startTime := time.Now()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("❌ [STARTUP] Database init failed: %v", err)
	}
	log.Printf("🔗 [DB] Associations verified for %d entities", len(db.Relations.Entities()))

	ctx := context.Background()
	if err := db.SyncDatabase(ctx); err != nil {
		log.Fatalf("❌ [STARTUP] Schema sync failed: %v", err)
	}

	if cfg.SeedDemoData {
		if err := db.SeedDemoData(ctx); err != nil {
			log.Printf("⚠️ Failed to seed demo data: %v", err)
		}
	}

	shipmentService := service.NewShipmentService(db)
	handler := http.NewShipmentHandler(shipmentService)
	log.Println("✅ [SERVICE] ShipmentService & Handler initialized")

	app := http.NewApp(http.AppConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		StartedAt:      startTime,
		AccessLog:      true,
	}, handler, db)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("🛑 [SHUTDOWN] Graceful shutdown initiated...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ [SHUTDOWN] Error: %v", err)
		}
	}()

	log.Printf("🚀 shipment-service starting...")
	log.Printf("   🔗 Listening on port: %s", cfg.ServerPort)
	log.Printf("   🌐 CORS allowed origins: %s", cfg.AllowedOrigins)
	log.Printf("   🗄️  Schema sync mode: %s (ENV=%q)", db.SyncMode(), cfg.Env)
	log.Println("✅ Server ready.")

	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("❌ [STARTUP] Server failed to start: %v", err)
	}
}
