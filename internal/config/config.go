package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"peervest/internal/domain/platform"
	"peervest/pkg/id"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// Optional identity granted the admin role at boot so a fresh
	// deployment has at least one actor able to grant further roles.
	BootstrapAdminID string

	// Boot defaults for the platform config row; once seeded, the live
	// values are owned by the database and mutated through admin calls.
	Platform platform.Config
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt64(k string, d int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "peervest"),
		MySQLUser: getenv("MYSQL_USER", "peervest"),
		MySQLPass: getenv("MYSQL_PASS", "peervest"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getenvInt("REDIS_DB", 0),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		BootstrapAdminID: getenv("BOOTSTRAP_ADMIN_ID", ""),

		Platform: platform.Config{
			FeeRateBps:     getenvInt64("PLATFORM_FEE_RATE_BPS", 100),
			ReserveRateBps: getenvInt64("RESERVE_FUND_RATE_BPS", 200),
			MinAmount:      getenvInt64("LOAN_MIN_AMOUNT", 1_000),
			MaxAmount:      getenvInt64("LOAN_MAX_AMOUNT", 100_000_000),
			MinRateBps:     getenvInt64("LOAN_MIN_RATE_BPS", 100),
			MaxRateBps:     getenvInt64("LOAN_MAX_RATE_BPS", 3000),
			MinTermMonths:  getenvInt("LOAN_MIN_TERM_MONTHS", 3),
			MaxTermMonths:  getenvInt("LOAN_MAX_TERM_MONTHS", 60),
		},
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	p := c.Platform
	if p.FeeRateBps < 0 || p.FeeRateBps > platform.MaxFeeRateBps {
		return fmt.Errorf("PLATFORM_FEE_RATE_BPS %d exceeds cap %d", p.FeeRateBps, platform.MaxFeeRateBps)
	}
	if p.ReserveRateBps < 0 || p.ReserveRateBps > platform.MaxReserveRateBps {
		return fmt.Errorf("RESERVE_FUND_RATE_BPS %d exceeds cap %d", p.ReserveRateBps, platform.MaxReserveRateBps)
	}
	if p.MinAmount <= 0 || p.MaxAmount < p.MinAmount {
		return errors.New("invalid loan amount window")
	}
	if p.MinRateBps < 0 || p.MaxRateBps < p.MinRateBps {
		return errors.New("invalid loan rate window")
	}
	if p.MinTermMonths <= 0 || p.MaxTermMonths < p.MinTermMonths {
		return errors.New("invalid loan term window")
	}
	if c.BootstrapAdminID != "" && !id.Valid(c.BootstrapAdminID) {
		return fmt.Errorf("invalid BOOTSTRAP_ADMIN_ID %q: want 32-char hex", c.BootstrapAdminID)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME columns
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
