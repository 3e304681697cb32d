package testutil

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB connects to the test PostgreSQL database, migrates models and
// empties the application tables. The test is skipped when no database is
// reachable.
func SetupTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=career_match_test port=5432 sslmode=disable connect_timeout=2"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("Failed to connect to test database (PostgreSQL may not be running): %v", err)
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("Failed to migrate test database: %v", err)
		}
	}

	CleanDatabase(db)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// CleanDatabase truncates the application tables that exist.
func CleanDatabase(db *gorm.DB) {
	for _, table := range []string{"job_suggestions", "profiles"} {
		var exists bool
		db.Raw("SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = ?)", table).Scan(&exists)
		if exists {
			db.Exec("TRUNCATE TABLE " + table + " CASCADE")
		}
	}
}
