// internal/database/db.go
package database

import (
	"context"
	"fmt"
	"log"

	"shipment-service/internal/config"
	"shipment-service/internal/relations"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database is what the rest of the service consumes: the connection, the
// associated entities and the schema sync bound to them.
type Database struct {
	Conn      *gorm.DB
	Relations *relations.Registry

	syncOpts SyncOptions
}

func DSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBSSLMode, cfg.DBTimeZone,
	)
}

// Open connects to Postgres and checks the association catalog against the
// models. It does not touch the schema; call SyncDatabase for that.
func Open(cfg *config.Config) (*Database, error) {
	mode, err := SyncModeFor(cfg.Env, cfg.SyncMode)
	if err != nil {
		return nil, fmt.Errorf("DB_SYNC_MODE: %w", err)
	}

	conn, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to DB: %w", err)
	}
	log.Printf("✅ [DB] Connected to %s@%s:%s/%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName)

	return New(conn, relations.Default(), SyncOptions{Mode: mode})
}

// New wraps an existing connection.
func New(conn *gorm.DB, registry *relations.Registry, opts SyncOptions) (*Database, error) {
	if err := registry.Verify(conn.NamingStrategy); err != nil {
		return nil, fmt.Errorf("associations do not match models: %w", err)
	}
	return &Database{Conn: conn, Relations: registry, syncOpts: opts}, nil
}

// SyncDatabase syncs User, Address, Settings and Shipment, in foreign-key order.
func (d *Database) SyncDatabase(ctx context.Context) error {
	return NewSynchronizer(d.Relations, NewGormMigrator(d.Conn), d.syncOpts).Sync(ctx)
}

// SyncMode is the mode SyncDatabase runs with.
func (d *Database) SyncMode() SyncMode {
	return d.syncOpts.Mode
}

// Ping checks the underlying connection.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
