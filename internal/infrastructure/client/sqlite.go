package client

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type SQLiteConfig struct {
	Path string
	// Debug включает логирование SQL запросов gorm
	Debug bool
}

type SQLiteHook func(ctx context.Context, db *gorm.DB) error

type SQLiteClient struct {
	db *Lazy[*gorm.DB]
}

func NewSQLiteClient(cfg SQLiteConfig, hooks ...SQLiteHook) *SQLiteClient {
	connect := func(ctx context.Context) (*gorm.DB, error) {
		logLevel := logger.Silent
		if cfg.Debug {
			logLevel = logger.Info
		}

		db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
			Logger:         logger.Default.LogMode(logLevel),
			TranslateError: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		// sqlite не любит параллельных писателей, а :memory: живет в рамках одного соединения
		sqlDB.SetMaxOpenConns(1)

		for _, hook := range hooks {
			if err := hook(ctx, db); err != nil {
				_ = sqlDB.Close()
				return nil, err
			}
		}

		return db, nil
	}

	return &SQLiteClient{
		db: NewLazy("sqlite", connect, func(_ context.Context, db *gorm.DB) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}),
	}
}

// DB возвращает gorm.DB, привязанный к контексту запроса
func (c *SQLiteClient) DB(ctx context.Context) (*gorm.DB, error) {
	db, err := c.db.Get(ctx)
	if err != nil {
		return nil, err
	}
	return db.WithContext(ctx), nil
}

func (c *SQLiteClient) HealthCheck(ctx context.Context) error {
	db, err := c.db.Get(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *SQLiteClient) Close(ctx context.Context) error {
	return c.db.Close(ctx)
}
