package database

import (
	"fmt"
	"os"
	"time"

	"ward-calendar-api/config"
	"ward-calendar-api/internal/auth"
	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/ward"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table in dependency order: admins before wards, wards
// before meetings.
func Models() []interface{} {
	return []interface{}{
		&auth.Admin{},
		&ward.Ward{},
		&ward.Meeting{},
		&logs.SystemLog{},
	}
}

// Open connects to the configured driver. SQL logging goes through log, or
// stderr when log is nil.
func Open(cfg config.Config, log *zerolog.Logger) (*gorm.DB, error) {
	if log == nil {
		l := zerolog.New(os.Stderr).With().Timestamp().Logger()
		log = &l
	}

	level := logger.Warn
	if cfg.Debug {
		level = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}

	switch cfg.Driver() {
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return db, nil
	default:
		db, err := gorm.Open(sqlite.Open(cfg.SQLiteDSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite allows one writer at a time; a single connection queues
		// transactions in the pool instead of racing for the file lock.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}
}

func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}
	return nil
}
