package postgres

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/seu-repo/voxwallet/internal/domain"
)

// NewConnection opens the GORM pool. logQueries turns on statement
// logging for local debugging; production keeps it at warnings only.
func NewConnection(url string, logQueries bool, log *zap.Logger) (*gorm.DB, error) {
	logMode := logger.Warn
	if logQueries {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	pool.SetMaxIdleConns(10)
	pool.SetMaxOpenConns(100)

	log.Info("Successfully connected to PostgreSQL")
	return db, nil
}

// RunMigrations creates the schema from the domain models. Production
// deploys run the SQL files in migrations/ instead; this path exists
// for development databases.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Contact{},
		&domain.Transfer{},
	)
}

// Close shuts down the underlying sql.DB pool.
func Close(db *gorm.DB) error {
	pool, err := db.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// oneOrNil maps gorm's ErrRecordNotFound to (nil, nil). The services
// treat absence as a plain nil row, not an error.
func oneOrNil[T any](row *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
