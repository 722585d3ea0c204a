package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/angelmondragon/gestor-pedidos/pkg/config"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	conn := newTestDB(t)
	client := NewFromGorm(conn)

	ctx := context.Background()
	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&models.Brand{Name: "committed"}).Error
	}))

	var count int64
	require.NoError(t, conn.Model(&models.Brand{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&models.Brand{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	require.NoError(t, conn.Model(&models.Brand{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "rollback should leave the first brand only")
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	conn := newTestDB(t)
	client := NewFromGorm(conn)

	assert.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			require.NoError(t, tx.Create(&models.Brand{Name: "lost"}).Error)
			panic("boom")
		})
	})

	var count int64
	require.NoError(t, conn.Model(&models.Brand{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPingAndVersion(t *testing.T) {
	client := NewFromGorm(newTestDB(t))
	require.NoError(t, client.Ping(context.Background()))

	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, version)
	assert.Equal(t, config.DriverSQLite, client.Dialect())
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Dialector("oracle", "whatever")
	require.Error(t, err)

	for _, driver := range []string{config.DriverPostgres, config.DriverMySQL, config.DriverSQLite} {
		d, err := Dialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}
}

func TestContainsOperatorByDialect(t *testing.T) {
	conn := newTestDB(t)
	assert.Equal(t, "LIKE", ContainsOperator(conn))
	assert.Equal(t, "", DialectOf(nil))
	assert.Equal(t, "%cafe%", ContainsPattern(" cafe "))
}

func TestConstraintViolationsFromSQLite(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, conn.Create(&models.User{Username: "ana", Password: "x"}).Error)

	err := conn.Create(&models.User{Username: "ana", Password: "y"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err, ""))
	assert.False(t, IsUniqueViolation(err, "some_other_constraint"))
	assert.False(t, IsForeignKeyViolation(nil))
}
