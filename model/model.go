package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single logged expense. Rows are append-only; the only
// removal path is the /undo command, which deletes the most recent row
// for a user within the current month.
type Expense struct {
	ID          uint  `gorm:"primaryKey"`
	UserID      int64 `gorm:"index"`
	DisplayName string
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Category    string
	Note        string
	CreatedAt   time.Time
}

// Setting is a key/value row. Only the "budget" key is used.
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}
