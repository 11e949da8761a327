package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"meddelivery/internal/adapters/out/postgres/deliveryrepo"

	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionConfig holds the libpq connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the key=value connection string understood by lib/pq.
func (c ConnectionConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// Open connects through lib/pq, hands the pool to GORM and migrates the
// deliveries table.
func Open(ctx context.Context, cfg ConnectionConfig) (*gorm.DB, error) {
	return OpenDSN(ctx, cfg.DSN())
}

// OpenDSN is Open for a ready-made connection string.
func OpenDSN(ctx context.Context, dsn string) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	if err = Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the deliveries table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&deliveryrepo.DeliveryDTO{}); err != nil {
		return fmt.Errorf("migrate deliveries: %w", err)
	}
	return nil
}
