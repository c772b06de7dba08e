// internal/database/sync.go
package database

import (
	"context"
	"log"

	"shipment-service/internal/relations"
)

// Synchronizer brings every registered entity's table in line with its model,
// one entity at a time, referenced tables first.
type Synchronizer struct {
	registry *relations.Registry
	migrator EntityMigrator
	opts     SyncOptions
	logger   *log.Logger
}

func NewSynchronizer(registry *relations.Registry, migrator EntityMigrator, opts SyncOptions) *Synchronizer {
	return &Synchronizer{
		registry: registry,
		migrator: migrator,
		opts:     opts,
		logger:   log.Default(),
	}
}

// WithLogger replaces the logger used for the sync outcome.
func (s *Synchronizer) WithLogger(l *log.Logger) *Synchronizer {
	s.logger = l
	return s
}

// Sync stops at the first failing entity and returns its error unchanged.
func (s *Synchronizer) Sync(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			s.logger.Printf("❌ [DB] Error syncing database: %v", err)
		}
	}()

	order, err := s.registry.SyncOrder()
	if err != nil {
		return err
	}

	for _, entity := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.migrator.SyncEntity(ctx, entity, s.opts); err != nil {
			return err
		}
	}

	s.logger.Printf("✅ [DB] Database synced successfully (mode=%s, %d tables)", s.opts.Mode, len(order))
	return nil
}
