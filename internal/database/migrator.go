// internal/database/migrator.go
package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"shipment-service/internal/relations"

	"gorm.io/gorm"
)

// ErrTableMissing is returned by SyncVerify when the entity's table is absent.
var ErrTableMissing = errors.New("table does not exist")

// EntityMigrator applies one entity's declared shape to the store.
type EntityMigrator interface {
	SyncEntity(ctx context.Context, entity relations.Entity, opts SyncOptions) error
}

// GormMigrator syncs entities through GORM's migrator.
type GormMigrator struct {
	db *gorm.DB
}

func NewGormMigrator(db *gorm.DB) *GormMigrator {
	return &GormMigrator{db: db}
}

func (m *GormMigrator) SyncEntity(ctx context.Context, entity relations.Entity, opts SyncOptions) error {
	db := m.db.WithContext(ctx)
	migrator := db.Migrator()

	switch opts.Mode {
	case SyncAlter:
		log.Printf("🔧 [DB] %s: auto-migrating (alter)", entity.Name)
		if err := db.AutoMigrate(entity.Model); err != nil {
			return fmt.Errorf("auto-migrate %s: %w", entity.Name, err)
		}
		return nil

	case SyncCreateOnly:
		if migrator.HasTable(entity.Model) {
			log.Printf("✅ [DB] %s: table present, leaving as is", entity.Name)
			return nil
		}
		log.Printf("🆕 [DB] %s: creating table", entity.Name)
		if err := migrator.CreateTable(entity.Model); err != nil {
			return fmt.Errorf("create table for %s: %w", entity.Name, err)
		}
		return nil

	case SyncVerify:
		if !migrator.HasTable(entity.Model) {
			return fmt.Errorf("verify %s: %w", entity.Name, ErrTableMissing)
		}
		return nil
	}

	return fmt.Errorf("sync %s: unsupported mode %s", entity.Name, opts.Mode)
}
