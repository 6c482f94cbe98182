package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"budget-bot/bot"
	"budget-bot/config"
	"budget-bot/model"
	"budget-bot/store"

	"github.com/glebarez/sqlite"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "err", err)
		os.Exit(1)
	}

	// Timestamps are written in UTC; the store builds its query bounds
	// in UTC too, so sqlite's textual comparison stays consistent.
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		logger.Error("opening database failed", "path", cfg.DatabasePath, "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&model.Expense{}, &model.Setting{}); err != nil {
		logger.Error("migrating database failed", "err", err)
		os.Exit(1)
	}

	st := store.New(db, cfg.DefaultBudget, cfg.Timezone)
	if err := st.Seed(); err != nil {
		logger.Error("seeding settings failed", "err", err)
		os.Exit(1)
	}
	logger.Info("database initialized", "path", cfg.DatabasePath)

	disp := bot.NewDispatcher(st, cfg.AllowedUsers, cfg.Timezone, logger)
	b, err := bot.New(cfg.Token, disp, logger)
	if err != nil {
		logger.Error("starting bot failed", "err", err)
		os.Exit(1)
	}

	// The daily report is armed only when both a destination and a time
	// are configured; anything else just skips scheduling.
	if cfg.ReportChatID != 0 && cfg.ReportTime != "" {
		hh, mm, err := cfg.ReportClock()
		if err != nil {
			logger.Error("daily report not scheduled", "err", err)
		} else {
			c := cron.New(cron.WithLocation(cfg.Timezone))
			c.AddFunc(fmt.Sprintf("%d %d * * *", mm, hh), func() {
				b.SendDailyReport(cfg.ReportChatID)
			})
			c.Start()
			logger.Info("daily report scheduled", "time", cfg.ReportTime, "tz", cfg.Timezone.String())
		}
	} else {
		logger.Info("daily report not configured; skipping schedule")
	}

	logger.Info("bot started (polling)")
	b.Start()
}
