package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"meddelivery/internal/pkg/errs"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	HTTPPort string

	GridWidth                int
	GridHeight               int
	MinutesPerStep           int
	FallbackEstimatedMinutes int

	StoreDriver     string
	SQLitePath      string
	RedisAddr       string
	RedisPrefix     string
	BlobCodec       string
	BlobCompression string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	ProgressSchedule   string
	StatisticsSchedule string
}

// LoadConfig reads the configuration through getenv, usually os.Getenv after
// godotenv has populated the environment. Unset variables take their defaults.
func LoadConfig(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	var errList []error
	number := func(key string, fallback int) int {
		raw := env(key, "")
		if raw == "" {
			return fallback
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(key,
				fmt.Errorf("%q is not a positive integer", raw)))
			return fallback
		}
		return n
	}

	cfg := Config{
		HTTPPort:                 env("HTTP_PORT", "8080"),
		GridWidth:                number("GRID_WIDTH", 20),
		GridHeight:               number("GRID_HEIGHT", 20),
		MinutesPerStep:           number("MINUTES_PER_STEP", 2),
		FallbackEstimatedMinutes: number("FALLBACK_ESTIMATED_MINUTES", 30),
		StoreDriver:              strings.ToLower(env("STORE_DRIVER", StoreMemory)),
		SQLitePath:               env("SQLITE_PATH", "deliveries.db"),
		RedisAddr:                env("REDIS_ADDR", "localhost:6379"),
		RedisPrefix:              env("REDIS_PREFIX", "meddelivery:"),
		BlobCodec:                env("BLOB_CODEC", "json"),
		BlobCompression:          env("BLOB_COMPRESSION", "none"),
		DBHost:                   env("DB_HOST", "localhost"),
		DBPort:                   env("DB_PORT", "5432"),
		DBUser:                   env("DB_USER", ""),
		DBPassword:               getenv("DB_PASSWORD"),
		DBName:                   env("DB_NAME", ""),
		DBSslMode:                env("DB_SSLMODE", "disable"),
		ProgressSchedule:         strings.TrimSpace(getenv("PROGRESS_SCHEDULE")),
		StatisticsSchedule:       strings.TrimSpace(getenv("STATISTICS_SCHEDULE")),
	}

	switch cfg.StoreDriver {
	case StoreMemory, StoreSQLite, StoreRedis:
	case StorePostgres:
		if cfg.DBUser == "" || cfg.DBName == "" {
			errList = append(errList, errs.NewValueIsRequiredError("DB_USER and DB_NAME for the postgres store"))
		}
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("STORE_DRIVER",
			fmt.Errorf("%q is not one of memory, sqlite, redis, postgres", cfg.StoreDriver)))
	}

	if err := errors.Join(errList...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
