// internal/database/seed.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"shipment-service/pkg/models"

	"gorm.io/gorm"
)

const demoUserEmail = "demo@shipments.local"

// helper converts events -> datatypes.JSON safely
func jsonEvents(events []models.TrackingEvent) []byte {
	b, _ := json.Marshal(events)
	return b
}

// SeedDemoData inserts one user with an address, settings pointing at that
// address as pickup, and two shipments. It is a no-op when the demo user
// already exists.
func (d *Database) SeedDemoData(ctx context.Context) error {
	db := d.Conn.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", demoUserEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("check demo user: %w", err)
	}
	if count > 0 {
		log.Println("🌱 [SEED] Demo data already exists, skipping...")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := models.User{Email: demoUserEmail, Name: "Demo User"}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create demo user: %w", err)
		}

		home := models.Address{
			UserID:     user.ID,
			Label:      "Home",
			Street:     "1 Harbour Street",
			City:       "Lagos",
			PostalCode: "101001",
			Country:    "NG",
		}
		if err := tx.Create(&home).Error; err != nil {
			return fmt.Errorf("create demo address: %w", err)
		}

		settings := models.Settings{
			UserID:               user.ID,
			DefaultPickupAddress: &home.ID,
			NotificationsEnabled: true,
			Units:                models.UnitsMetric,
		}
		if err := tx.Create(&settings).Error; err != nil {
			return fmt.Errorf("create demo settings: %w", err)
		}

		now := time.Now().UTC()
		shipments := []models.Shipment{
			{
				UserID:         user.ID,
				TrackingNumber: "DEMO-0001",
				Carrier:        "dhl",
				Status:         models.ShipmentStatusInTransit,
				TrackingEvents: jsonEvents([]models.TrackingEvent{
					{Status: "picked_up", Location: "Lagos", Timestamp: now.Add(-48 * time.Hour)},
					{Status: "in_transit", Location: "Accra", Timestamp: now.Add(-12 * time.Hour)},
				}),
			},
			{
				UserID:         user.ID,
				TrackingNumber: "DEMO-0002",
				Carrier:        "ups",
				Status:         models.ShipmentStatusPending,
			},
		}
		if err := tx.Create(&shipments).Error; err != nil {
			return fmt.Errorf("create demo shipments: %w", err)
		}

		log.Printf("🌱 [SEED] Demo user %s created with %d shipments", user.ID, len(shipments))
		return nil
	})
}
