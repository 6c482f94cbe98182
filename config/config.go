package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds everything read from the environment at startup. It is
// built once in main and passed into the components that need it.
type Config struct {
	Token         string
	DatabasePath  string
	DefaultBudget decimal.Decimal
	ReportChatID  int64
	ReportTime    string // "HH:MM", 24h, in Timezone; empty disables the report
	Timezone      *time.Location
	AllowedUsers  []int64
}

// Load reads the environment (optionally seeded from a .env file) and
// validates it. A missing token or database path is an error; everything
// else falls back to a safe default.
func Load() (*Config, error) {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	token := getEnv("TELEGRAM_TOKEN", "")
	if token == "" {
		return nil, errors.New("TELEGRAM_TOKEN not set")
	}

	dbPath := getEnv("DATABASE_PATH", "")
	if dbPath == "" {
		return nil, errors.New("DATABASE_PATH not set")
	}

	budget, err := decimal.NewFromString(getEnv("MONTHLY_BUDGET", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONTHLY_BUDGET: %w", err)
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	var chatID int64
	if v := getEnv("REPORT_CHAT_ID", ""); v != "" {
		chatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid REPORT_CHAT_ID: %w", err)
		}
	}

	allowed, err := parseIDList(getEnv("ALLOWED_USER_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid ALLOWED_USER_IDS: %w", err)
	}

	return &Config{
		Token:         token,
		DatabasePath:  dbPath,
		DefaultBudget: budget,
		ReportChatID:  chatID,
		ReportTime:    strings.TrimSpace(getEnv("REPORT_TIME", "")),
		Timezone:      loc,
		AllowedUsers:  allowed,
	}, nil
}

// ReportClock parses ReportTime into an hour and minute.
func (c *Config) ReportClock() (hh, mm int, err error) {
	parts := strings.Split(c.ReportTime, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid REPORT_TIME %q: use HH:MM (24h)", c.ReportTime)
	}
	hh, err = strconv.Atoi(parts[0])
	if err == nil {
		mm, err = strconv.Atoi(parts[1])
	}
	if err != nil || hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, 0, fmt.Errorf("invalid REPORT_TIME %q: use HH:MM (24h)", c.ReportTime)
	}
	return hh, mm, nil
}

// getEnv treats an empty variable the same as an unset one.
func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
