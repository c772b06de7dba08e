package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClassifyError(t *testing.T) {
	assert.NoError(t, ClassifyError(nil))

	pgErr := &pgconn.PgError{Code: PgErrForeignKeyViolation, Message: "insert violates foreign key", Detail: `Key ("userId")=(x) is not present`}
	err := ClassifyError(fmt.Errorf("create shipment: %w", pgErr))
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, PgErrForeignKeyViolation, storeErr.Code)
	assert.Equal(t, pgErr.Detail, storeErr.Detail)
	assert.True(t, IsConstraintViolation(err))
	assert.ErrorIs(t, err, pgErr)

	err = ClassifyError(gorm.ErrRecordNotFound)
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, CodeNotFound, storeErr.Code)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.False(t, IsConstraintViolation(err))

	err = ClassifyError(errors.New("driver: bad connection"))
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, CodeDatabaseError, storeErr.Code)

	assert.Same(t, err, ClassifyError(err))
}
