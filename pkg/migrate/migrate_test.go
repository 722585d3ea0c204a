package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/gestor-pedidos/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestRunAppliesEmbeddedSQLiteMigrations(t *testing.T) {
	ctx := context.Background()
	sqlDB := openSQLite(t)

	require.NoError(t, Run(ctx, sqlDB, config.DriverSQLite, "", "up"))

	version, err := Version(ctx, sqlDB, config.DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(20250301092000), version)

	for _, table := range []string{"productos", "precios", "pedidos_enc", "pedidos_det", "movimientos_stock", "usuarios"} {
		var name string
		err := sqlDB.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	var levels int
	require.NoError(t, sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM nivel_precio WHERE nivel_precio = 1").Scan(&levels))
	assert.Equal(t, 1, levels)
}

func TestMigrateToVersionGoesDown(t *testing.T) {
	ctx := context.Background()
	sqlDB := openSQLite(t)

	require.NoError(t, Run(ctx, sqlDB, config.DriverSQLite, "", "up"))
	require.NoError(t, MigrateToVersion(ctx, sqlDB, config.DriverSQLite, "", "20250301091000"))

	version, err := Version(ctx, sqlDB, config.DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(20250301091000), version)

	var count int
	require.NoError(t, sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE name = 'movimientos_stock'").Scan(&count))
	assert.Zero(t, count)
}

func TestMigrateToVersionRejectsGarbage(t *testing.T) {
	sqlDB := openSQLite(t)
	require.Error(t, MigrateToVersion(context.Background(), sqlDB, config.DriverSQLite, "", "latest"))
	require.Error(t, MigrateToVersion(context.Background(), sqlDB, config.DriverSQLite, "", ""))
}

func TestGooseDialect(t *testing.T) {
	cases := map[string]string{
		config.DriverPostgres: "postgres",
		config.DriverMySQL:    "mysql",
		config.DriverSQLite:   "sqlite3",
	}
	for driver, want := range cases {
		got, err := GooseDialect(driver)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := GooseDialect("mssql")
	require.Error(t, err)
}

func TestShippedMigrationsAreConsistent(t *testing.T) {
	require.NoError(t, ValidateAll("migrations"))
}

func TestOrderMigrationsDeclareLedgerColumns(t *testing.T) {
	for _, driver := range []string{config.DriverPostgres, config.DriverMySQL, config.DriverSQLite} {
		matches, err := filepath.Glob(filepath.Join("migrations", driver, "*_create_orders.sql"))
		require.NoError(t, err)
		require.Len(t, matches, 1, driver)

		data, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		content := string(data)

		for _, sub := range []string{
			"CREATE TABLE IF NOT EXISTS pedidos_enc",
			"CREATE TABLE IF NOT EXISTS pedidos_det",
			"total_documento",
			"DROP TABLE IF EXISTS pedidos_det",
		} {
			assert.True(t, strings.Contains(content, sub), "%s missing %q", driver, sub)
		}
	}
}

func TestCreateAndValidateDir(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Saldo Index!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_saldo_index.sql"))
	require.NoError(t, ValidateDir(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.sql"), []byte("-- +goose Up"), 0o644))
	require.Error(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}
