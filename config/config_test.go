package config

import (
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_PATH", "test.db")
	t.Setenv("MONTHLY_BUDGET", "")
	t.Setenv("REPORT_CHAT_ID", "")
	t.Setenv("REPORT_TIME", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("ALLOWED_USER_IDS", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Token != "test-token" || cfg.DatabasePath != "test.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.DefaultBudget.StringFixed(2) != "300.00" {
		t.Fatalf("DefaultBudget = %s, want 300.00", cfg.DefaultBudget)
	}
	if cfg.Timezone.String() != "UTC" {
		t.Fatalf("Timezone = %s, want UTC", cfg.Timezone)
	}
	if cfg.ReportChatID != 0 || cfg.ReportTime != "" || len(cfg.AllowedUsers) != 0 {
		t.Fatalf("optional fields not defaulted: %+v", cfg)
	}
}

func TestLoadMissingToken(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing TELEGRAM_TOKEN")
	}
}

func TestLoadMissingDatabasePath(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_PATH", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_PATH")
	}
}

func TestLoadAllowedUsers(t *testing.T) {
	setRequired(t)
	t.Setenv("MONTHLY_BUDGET", "300")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("ALLOWED_USER_IDS", "1, 42,  314159")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{1, 42, 314159}
	if len(cfg.AllowedUsers) != len(want) {
		t.Fatalf("AllowedUsers = %v, want %v", cfg.AllowedUsers, want)
	}
	for i, id := range want {
		if cfg.AllowedUsers[i] != id {
			t.Fatalf("AllowedUsers = %v, want %v", cfg.AllowedUsers, want)
		}
	}
}

func TestLoadBadAllowedUsers(t *testing.T) {
	setRequired(t)
	t.Setenv("MONTHLY_BUDGET", "300")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("ALLOWED_USER_IDS", "1,bob")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric user id")
	}
}

func TestReportClock(t *testing.T) {
	cases := []struct {
		in     string
		hh, mm int
		ok     bool
	}{
		{"21:00", 21, 0, true},
		{"09:05", 9, 5, true},
		{"0:0", 0, 0, true},
		{"24:00", 0, 0, false},
		{"12:60", 0, 0, false},
		{"2100", 0, 0, false},
		{"ab:cd", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range cases {
		c := &Config{ReportTime: tc.in}
		hh, mm, err := c.ReportClock()
		if tc.ok && (err != nil || hh != tc.hh || mm != tc.mm) {
			t.Fatalf("%q: got (%d,%d,%v)", tc.in, hh, mm, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}
