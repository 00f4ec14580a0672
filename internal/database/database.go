package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdg-garage/campus-events-api/internal/config"
	"github.com/gdg-garage/campus-events-api/internal/models"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultPingTimeout  = 5 * time.Second
	defaultConnMaxIdle  = 2 * time.Minute
	defaultConnMaxLife  = 30 * time.Minute
	defaultMaxIdleConns = 5
	defaultMaxOpenConns = 25
)

// Connect opens the configured database, tunes the pool and migrates the
// schema.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        cfg.DatabaseURL,
		})
	case config.DriverSQLite, "":
		dialector = sqlite.Open(SQLiteDSN(cfg.DatabasePath))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	db, err := Open(dialector)
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseDriver == config.DriverPostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetConnMaxIdleTime(defaultConnMaxIdle)
		sqlDB.SetConnMaxLifetime(defaultConnMaxLife)
		sqlDB.SetMaxIdleConns(defaultMaxIdleConns)
		sqlDB.SetMaxOpenConns(defaultMaxOpenConns)
	}

	return db, nil
}

// Open connects through dialector, pings and runs AutoMigrate.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	gormLogger := logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Printf("Connected to %s database", dialector.Name())
	return db, nil
}

// Migrate creates or updates the schema, including the (user, event) unique
// index on registrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.Registration{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SQLiteDSN enables a busy timeout so concurrent writers wait on the file
// lock instead of failing immediately.
func SQLiteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
