// Package store is the ledger: expense rows plus a small settings table.
// Month and day grouping is done with explicit timestamp ranges computed
// in the configured timezone, and all totals are summed with decimal
// arithmetic in Go rather than in SQL.
package store

import (
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"budget-bot/model"
)

// BudgetKey is the settings row holding the monthly budget.
const BudgetKey = "budget"

// ErrInvalidAmount is returned when an expense amount is zero or negative.
var ErrInvalidAmount = errors.New("amount must be positive")

// UserTotal is one line of the per-user month breakdown.
type UserTotal struct {
	Label string
	Total decimal.Decimal
}

type Store struct {
	db            *gorm.DB
	defaultBudget decimal.Decimal
	loc           *time.Location
}

func New(db *gorm.DB, defaultBudget decimal.Decimal, loc *time.Location) *Store {
	return &Store{db: db, defaultBudget: defaultBudget, loc: loc}
}

// Seed inserts the budget setting with the configured default if the row
// does not exist yet. Idempotent.
func (s *Store) Seed() error {
	row := model.Setting{Key: BudgetKey, Value: s.defaultBudget.String()}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// AddExpense appends one expense row. The store assigns id and
// timestamp; timestamps are written in UTC so sqlite's textual
// comparison lines up with the UTC query bounds.
func (s *Store) AddExpense(userID int64, displayName string, amount decimal.Decimal, category, note string) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	row := model.Expense{
		UserID:      userID,
		DisplayName: displayName,
		Amount:      amount,
		Category:    category,
		Note:        note,
		CreatedAt:   time.Now().UTC(),
	}
	return s.db.Create(&row).Error
}

// UserTodayTotal sums the user's expenses for the calendar day of now.
func (s *Store) UserTodayTotal(userID int64, now time.Time) (decimal.Decimal, error) {
	from, to := dayRange(now, s.loc)
	return s.sumRange(&userID, from, to)
}

// TodayTotal sums all users' expenses for the calendar day of now.
func (s *Store) TodayTotal(now time.Time) (decimal.Decimal, error) {
	from, to := dayRange(now, s.loc)
	return s.sumRange(nil, from, to)
}

// UserMonthTotal sums the user's expenses for the calendar month of now.
func (s *Store) UserMonthTotal(userID int64, now time.Time) (decimal.Decimal, error) {
	from, to := monthRange(now, s.loc)
	return s.sumRange(&userID, from, to)
}

// MonthTotal sums all users' expenses for the calendar month of now.
func (s *Store) MonthTotal(now time.Time) (decimal.Decimal, error) {
	from, to := monthRange(now, s.loc)
	return s.sumRange(nil, from, to)
}

// MonthByUser returns per-user totals for the calendar month of now,
// sorted by total descending. The label is the user's most recently
// recorded display name, falling back to the stringified user id.
func (s *Store) MonthByUser(now time.Time) ([]UserTotal, error) {
	from, to := monthRange(now, s.loc)
	var rows []model.Expense
	err := s.db.
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	labels := make(map[int64]string)
	totals := make(map[int64]decimal.Decimal)
	for _, row := range rows {
		if row.DisplayName != "" {
			labels[row.UserID] = row.DisplayName
		}
		totals[row.UserID] = totals[row.UserID].Add(row.Amount)
	}

	out := make([]UserTotal, 0, len(totals))
	for id, total := range totals {
		label := labels[id]
		if label == "" {
			label = strconv.FormatInt(id, 10)
		}
		out = append(out, UserTotal{Label: label, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

// DeleteLastExpense removes the user's most recent expense within the
// calendar month of now and reports whether a row was removed. Rows with
// identical timestamps are broken by highest id.
func (s *Store) DeleteLastExpense(userID int64, now time.Time) (bool, error) {
	from, to := monthRange(now, s.loc)
	var row model.Expense
	err := s.db.
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Order("created_at DESC").
		Order("id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := s.db.Delete(&row).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Setting returns the value for key and whether the row exists.
func (s *Store) Setting(key string) (string, bool, error) {
	var row model.Setting
	err := s.db.First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

// SetSetting inserts or overwrites the value for key.
func (s *Store) SetSetting(key, value string) error {
	row := model.Setting{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
}

// Budget returns the stored monthly budget. A missing or unreadable
// value falls back to the configured default; a failed query does not.
func (s *Store) Budget() (decimal.Decimal, error) {
	val, ok, err := s.Setting(BudgetKey)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !ok {
		return s.defaultBudget, nil
	}
	b, err := decimal.NewFromString(val)
	if err != nil {
		return s.defaultBudget, nil
	}
	return b, nil
}

func (s *Store) sumRange(userID *int64, from, to time.Time) (decimal.Decimal, error) {
	q := s.db.Model(&model.Expense{}).
		Where("created_at >= ? AND created_at < ?", from, to)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var amounts []decimal.Decimal
	if err := q.Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}

// dayRange is [midnight, next midnight) around now in loc. Bounds are
// converted to UTC because sqlite compares timestamps as text; a bound
// carrying a different offset than the stored rows would order wrongly.
func dayRange(now time.Time, loc *time.Location) (time.Time, time.Time) {
	t := now.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// monthRange is [first of month, first of next month) around now in
// loc, with bounds in UTC for the same reason as dayRange.
func monthRange(now time.Time, loc *time.Location) (time.Time, time.Time) {
	t := now.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}
