package database

import (
	"context"
	"testing"

	"shipment-service/internal/relations"
	"shipment-service/internal/testutil"
	"shipment-service/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entityByName(t *testing.T, name string) relations.Entity {
	t.Helper()
	e, ok := relations.Default().Entity(name)
	require.True(t, ok)
	return e
}

func TestGormMigrator_CreateOnly(t *testing.T) {
	db := testutil.NewDB(t)
	d, err := New(db, relations.Default(), SyncOptions{Mode: SyncCreateOnly})
	require.NoError(t, err)

	require.NoError(t, d.SyncDatabase(context.Background()))
	for _, table := range []string{"users", "addresses", "settings", "shipments"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasColumn(&models.Settings{}, "defaultPickupAddress"))
	assert.True(t, db.Migrator().HasColumn(&models.Shipment{}, "userId"))

	// Second run finds everything in place.
	require.NoError(t, d.SyncDatabase(context.Background()))
}

func TestGormMigrator_VerifyMissingTable(t *testing.T) {
	db := testutil.NewDB(t)
	d, err := New(db, relations.Default(), SyncOptions{Mode: SyncVerify})
	require.NoError(t, err)

	err = d.SyncDatabase(context.Background())
	assert.ErrorIs(t, err, ErrTableMissing)
	assert.False(t, db.Migrator().HasTable("users"))
}

func TestGormMigrator_CreateOnlyLeavesExistingTable(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE users (
		id uuid PRIMARY KEY,
		email varchar(255) NOT NULL,
		name varchar(100) NOT NULL,
		created_at datetime,
		updated_at datetime,
		deleted_at datetime
	)`).Error)

	m := NewGormMigrator(db)
	user := entityByName(t, relations.UserEntity)
	ctx := context.Background()

	require.NoError(t, m.SyncEntity(ctx, user, SyncOptions{Mode: SyncCreateOnly}))
	assert.False(t, db.Migrator().HasColumn(&models.User{}, "phone"))

	require.NoError(t, m.SyncEntity(ctx, user, SyncOptions{Mode: SyncAlter}))
	assert.True(t, db.Migrator().HasColumn(&models.User{}, "phone"))
}

func TestGormMigrator_AlterFromScratch(t *testing.T) {
	db := testutil.NewDB(t)
	d, err := New(db, relations.Default(), SyncOptions{Mode: SyncAlter})
	require.NoError(t, err)

	require.NoError(t, d.SyncDatabase(context.Background()))
	require.NoError(t, d.SyncDatabase(context.Background()))
	assert.True(t, db.Migrator().HasTable(&models.Shipment{}))
	assert.Equal(t, SyncAlter, d.SyncMode())
}

func TestSeedDemoData(t *testing.T) {
	db := testutil.NewDB(t)
	d, err := New(db, relations.Default(), SyncOptions{Mode: SyncCreateOnly})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, d.SyncDatabase(ctx))

	require.NoError(t, d.SeedDemoData(ctx))
	require.NoError(t, d.SeedDemoData(ctx))

	var user models.User
	require.NoError(t, db.Preload("Shipments").Preload("Settings.PickupAddress").
		Where("email = ?", demoUserEmail).First(&user).Error)
	assert.Len(t, user.Shipments, 2)
	require.NotNil(t, user.Settings)
	require.NotNil(t, user.Settings.PickupAddress)
	assert.Equal(t, user.ID, user.Settings.PickupAddress.UserID)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}
