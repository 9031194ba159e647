package utils

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DBOptions configures InitDB
type DBOptions struct {
	Driver   string // "postgres" or "sqlite"
	DSN      string
	MaxConns int32
	LogLevel gormlogger.LogLevel
}

// InitDB initializes a database connection.
// Postgres connections go through a pgx pool; duplicate-key errors are translated to gorm.ErrDuplicatedKey.
func InitDB(ctx context.Context, opts DBOptions) (*gorm.DB, error) {
	zap.L().Info("connecting to database", zap.String("driver", opts.Driver))

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevelOrSilent(opts.LogLevel)),
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case "", "postgres":
		poolCfg, err := pgxpool.ParseConfig(opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse database url: %w", err)
		}
		if opts.MaxConns > 0 {
			poolCfg.MaxConns = opts.MaxConns
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		dialector = postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(pool)})
	case "sqlite":
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	if opts.Driver == "sqlite" {
		// sqlite serialises writers; a single connection keeps shared in-memory databases coherent
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	zap.L().Info("database connected successfully")
	return db, nil
}

// PingDB checks that the database is reachable
func PingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func logLevelOrSilent(level gormlogger.LogLevel) gormlogger.LogLevel {
	if level == 0 {
		return gormlogger.Silent
	}
	return level
}
