// Package integration spins up real PostgreSQL databases with
// testcontainers and runs the schema migrations against them.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/farmdesk/backend/internal/infrastructure/config"
	"github.com/farmdesk/backend/internal/infrastructure/persistence"
	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB represents a migrated test database backed by a container
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// NewTestDB starts a fresh PostgreSQL container, connects and migrates.
// The container is terminated on test cleanup.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("farmdesk_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")

	host, err := container.Host(ctx)
	require.NoError(t, err, "failed to get container host")
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err, "failed to get mapped port")

	dbCfg := config.DatabaseConfig{
		Host: host, Port: port.Int(), User: "postgres", Password: "test",
		DBName: "farmdesk_test", SSLMode: "disable",
		MaxOpenConns: 5, MaxIdleConns: 2,
		// generous statement timeout, some suites hold locks on purpose
		ConnectTimeout: 5, StatementTimeout: 30000,
	}

	database, err := persistence.NewDatabaseWithLogLevel(&dbCfg, logger.Silent)
	require.NoError(t, err, "failed to connect to database")

	sqlDB, err := database.DB.DB()
	require.NoError(t, err, "failed to get underlying sql.DB")

	runMigrations(t, sqlDB)

	testDB := &TestDB{
		DB:        database.DB,
		SqlDB:     sqlDB,
		Container: container,
		DSN:       dbCfg.DSN(),
		t:         t,
	}

	t.Cleanup(func() {
		_ = testDB.SqlDB.Close()
		_ = testDB.Container.Terminate(context.Background())
	})

	return testDB
}

// CleanTables truncates all tables except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "failed to list tables")

	for _, table := range tables {
		err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error
		require.NoError(tdb.t, err, "failed to truncate "+table)
	}
}

// runMigrations applies every migration from the repo migrations directory
func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "failed to create migration driver")

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsDir(t)),
		"postgres",
		driver,
	)
	require.NoError(t, err, "failed to create migrator")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "failed to run migrations")
	}
}

// migrationsDir resolves the migrations directory relative to this file
func migrationsDir(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "failed to resolve caller path")

	dir, err := filepath.Abs(filepath.Join(filepath.Dir(thisFile), "..", "..", "migrations"))
	require.NoError(t, err, "failed to resolve migrations path")
	return dir
}
