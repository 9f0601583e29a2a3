package database

import (
	"context"
	"fmt"
	"time"

	"deckboard/internal/model"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds database configuration
type Config struct {
	Driver          string
	DSN             string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// Migrate applies schema changes on open: SQL migrations for postgres,
	// AutoMigrate for sqlite.
	Migrate bool
}

// Open connects to the configured driver, applies pool settings and, when
// enabled, brings the schema up to date.
func Open(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("database dsn is required for %s", DriverPostgres)
		}
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("database path is required for %s", DriverSQLite)
		}
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// one writer; shared-cache memory databases also need a single conn
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Migrate {
		switch cfg.Driver {
		case DriverPostgres:
			if err := MigrateUp(sqlDB, log); err != nil {
				return nil, err
			}
		case DriverSQLite:
			if err := AutoMigrate(db); err != nil {
				return nil, err
			}
		}
	}

	log.Info("database initialized", zap.String("driver", cfg.Driver))
	return db, nil
}

// AutoMigrate creates the schema from the gorm models. The deferred unique
// (board_id, "order") constraint only exists in the postgres migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Workspace{}, &model.WorkspaceMember{}, &model.Board{}, &model.Deck{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Ping backs the health endpoint.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
