package db

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type options struct {
	logger       logger.Interface
	maxOpenConns int
	maxIdleConns int
}

type Option func(*options)

// WithLogger replaces gorm's default stdout logger, typically with the zap-backed one.
func WithLogger(l logger.Interface) Option { return func(o *options) { o.logger = l } }

func WithPool(maxOpen, maxIdle int) Option {
	return func(o *options) {
		o.maxOpenConns = maxOpen
		o.maxIdleConns = maxIdle
	}
}

func OpenGorm(dsn string, opts ...Option) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn), opts...)
}

// OpenGormWithDialector opens, tunes the pool and pings. Unique violations surface as gorm.ErrDuplicatedKey.
func OpenGormWithDialector(dial gorm.Dialector, opts ...Option) (*gorm.DB, error) {
	o := options{
		logger:       logger.Default.LogMode(logger.Warn),
		maxOpenConns: 30,
		maxIdleConns: 10,
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         o.logger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(o.maxOpenConns)
	sqlDB.SetMaxIdleConns(o.maxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("gorm ping: %w", err)
	}
	return db, nil
}
