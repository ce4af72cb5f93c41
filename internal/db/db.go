package db

import (
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

const sqliteParams = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// Open connects to sqlite or postgres and applies pending migrations.
func Open(driver, dsn string, logger *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: newGormLogger(logger),
	}

	var (
		conn    *gorm.DB
		dialect string
		err     error
	)
	switch driver {
	case "sqlite":
		conn, err = gorm.Open(sqlite.Open(sqliteDSN(dsn)), gormCfg)
		dialect = "sqlite3"
	case "postgres":
		conn, err = gorm.Open(postgres.Open(dsn), gormCfg)
		dialect = "postgres"
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if driver == "sqlite" {
		// SQLite works best with a single writer; cap the pool accordingly.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := Migrate(conn, dialect, logger); err != nil {
		return nil, err
	}

	logger.Info("database ready", zap.String("driver", driver))
	return conn, nil
}

// sqliteDSN appends the WAL/busy-timeout parameters unless the caller set its own.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?" + sqliteParams
}

// Migrate applies the embedded goose migrations.
func Migrate(conn *gorm.DB, dialect string, logger *zap.Logger) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(zapPrintf{logger.Named("goose").Sugar()})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// newGormLogger reports slow queries and errors through zap.
func newGormLogger(logger *zap.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{logger.Named("gorm").Sugar()}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// gormWriter only ever sees slow queries and errors, so it logs at warn.
type gormWriter struct {
	s *zap.SugaredLogger
}

func (l gormWriter) Printf(format string, v ...interface{}) {
	l.s.Warnf(strings.TrimSpace(format), v...)
}

// zapPrintf adapts zap to goose's Printf-style logger.
type zapPrintf struct {
	s *zap.SugaredLogger
}

func (l zapPrintf) Printf(format string, v ...interface{}) {
	l.s.Infof(strings.TrimSpace(format), v...)
}

func (l zapPrintf) Fatalf(format string, v ...interface{}) {
	l.s.Fatalf(format, v...)
}
