package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultDSN = "root:password@tcp(localhost:3306)/restaurant_db?charset=utf8mb4&parseTime=True&loc=UTC"

type Config struct {
	Port       string
	GinMode    string
	CORSOrigin string
	LogLevel   string

	DBDriver string // mysql, postgres or sqlite
	DBDSN    string

	Location *time.Location
	// StrictBooking serialises availability check and write in one transaction.
	StrictBooking bool

	RateLimitRPS   float64
	RateLimitBurst int
}

func FromEnv() (Config, error) {
	cfg := Config{
		Port:       getenv("PORT", "8080"),
		GinMode:    getenv("GIN_MODE", "debug"),
		CORSOrigin: getenv("CORS_ORIGIN", "*"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		DBDriver:   strings.ToLower(getenv("DB_DRIVER", "mysql")),
		DBDSN:      getenv("DB_DSN", defaultDSN),
	}

	switch cfg.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	loc, err := time.LoadLocation(getenv("RESTAURANT_TIMEZONE", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("RESTAURANT_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.StrictBooking, err = strconv.ParseBool(getenv("RESERVATION_STRICT_BOOKING", "false")); err != nil {
		return Config{}, fmt.Errorf("invalid RESERVATION_STRICT_BOOKING")
	}

	cfg.RateLimitRPS, err = strconv.ParseFloat(getenv("RATE_LIMIT_RPS", "10"), 64)
	if err != nil || cfg.RateLimitRPS <= 0 {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_RPS")
	}
	cfg.RateLimitBurst, err = strconv.Atoi(getenv("RATE_LIMIT_BURST", "20"))
	if err != nil || cfg.RateLimitBurst < 1 {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_BURST")
	}

	return cfg, nil
}

// InitDB opens the configured database. The caller owns the pool and closes it on shutdown.
func InitDB(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		dialector = mysql.Open(cfg.DBDSN)
	}

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
