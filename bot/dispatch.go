package bot

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"budget-bot/store"
)

// Reply is what the dispatcher hands back to the transport. Markdown
// selects the rich send mode (used by /summary and the daily report).
type Reply struct {
	Text     string
	Markdown bool
}

type request struct {
	userID int64
	name   string
	chatID int64
	args   []string
	raw    string
}

// Dispatcher turns one inbound message into one reply, with ledger
// mutations as the only side effect. It is stateless between calls.
type Dispatcher struct {
	store   *store.Store
	allowed map[int64]struct{}
	log     *slog.Logger
	now     func() time.Time

	table map[string]func(request) Reply
}

func NewDispatcher(st *store.Store, allowedUsers []int64, loc *time.Location, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		store:   st,
		allowed: make(map[int64]struct{}, len(allowedUsers)),
		log:     log,
		now:     func() time.Time { return time.Now().In(loc) },
	}
	for _, id := range allowedUsers {
		d.allowed[id] = struct{}{}
	}
	d.table = map[string]func(request) Reply{
		"/start":     d.cmdStart,
		"/spent":     d.cmdSpent,
		"/daily":     d.cmdDaily,
		"/today":     d.cmdDaily,
		"/monthly":   d.cmdMonthly,
		"/total":     d.cmdMonthly,
		"/predict":   d.cmdPredict,
		"/summary":   d.cmdSummary,
		"/me":        d.cmdMe,
		"/undo":      d.cmdUndo,
		"/setbudget": d.cmdSetBudget,
		"/budget":    d.cmdBudget,
		"/balance":   d.cmdBalance,
		"/daysleft":  d.cmdDaysLeft,
		"/whoami":    d.cmdWhoami,
	}
	return d
}

// Dispatch handles one message. The allow-list is checked before
// anything else; a disallowed user gets the rejection notice and no
// command, read-only ones included, runs.
func (d *Dispatcher) Dispatch(userID int64, displayName string, chatID int64, text string) Reply {
	if len(d.allowed) > 0 {
		if _, ok := d.allowed[userID]; !ok {
			return Reply{Text: "🚫 You are not allowed to use this bot."}
		}
	}

	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/") {
		parts := strings.Fields(text)
		cmd := strings.ToLower(parts[0])
		r := request{userID: userID, name: displayName, chatID: chatID, args: parts[1:], raw: text}
		if h, ok := d.table[cmd]; ok {
			return h(r)
		}
		return Reply{Text: "Unknown command. Use /summary, /spent, /daily, /predict."}
	}

	return d.logExpense(request{userID: userID, name: displayName, chatID: chatID, raw: text}, false)
}

func (d *Dispatcher) cmdStart(request) Reply {
	return Reply{Text: "👋 Hi! Send expenses like: `50 food lunch` or `/spent 50 food lunch`. Use /summary for stats."}
}

func (d *Dispatcher) cmdSpent(r request) Reply {
	return d.logExpense(r, true)
}

// logExpense is the shared insert path for /spent and bare text.
func (d *Dispatcher) logExpense(r request, slash bool) Reply {
	amount, category, note, ok := ParseExpense(r.raw)
	if !ok {
		if slash {
			return Reply{Text: "Usage: /spent <amount> [category] [note]"}
		}
		return Reply{Text: "I didn't understand. Send `/spent 50 food note` or just `50 food note`."}
	}
	if amount.Sign() <= 0 {
		return Reply{Text: "Amount must be greater than zero."}
	}
	if err := d.store.AddExpense(r.userID, r.name, amount, category, note); err != nil {
		d.log.Error("saving expense failed", "user", r.userID, "err", err)
		return Reply{Text: "❌ Failed to save expense."}
	}
	return Reply{Text: fmt.Sprintf("✅ Logged %s AED (%s)", amount.StringFixed(2), category)}
}

func (d *Dispatcher) cmdDaily(r request) Reply {
	total, err := d.store.UserTodayTotal(r.userID, d.now())
	if err != nil {
		return d.storeFailure(err)
	}
	return Reply{Text: fmt.Sprintf("Your spending today: %s AED", total.StringFixed(2))}
}

func (d *Dispatcher) cmdMonthly(request) Reply {
	total, err := d.store.MonthTotal(d.now())
	if err != nil {
		return d.storeFailure(err)
	}
	return Reply{Text: fmt.Sprintf("This month's total: %s AED", total.StringFixed(2))}
}

func (d *Dispatcher) cmdPredict(request) Reply {
	stats, _, err := d.snapshot()
	if err != nil {
		return d.storeFailure(err)
	}
	verdict := "✅ On track"
	if stats.WillExceed {
		verdict = "⚠️ You will exceed budget!"
	}
	return Reply{Text: fmt.Sprintf("Forecast: %s AED. %s", stats.Predicted.StringFixed(2), verdict)}
}

func (d *Dispatcher) cmdSummary(request) Reply {
	now := d.now()
	stats, budget, err := d.snapshot()
	if err != nil {
		return d.storeFailure(err)
	}
	byUser, err := d.store.MonthByUser(now)
	if err != nil {
		return d.storeFailure(err)
	}

	mark := ""
	if stats.WillExceed {
		mark = " ⚠️"
	}
	lines := []string{
		fmt.Sprintf("📊 Summary - %s", now.Format("2006-01")),
		fmt.Sprintf("Today: %s AED", stats.TotalToday.StringFixed(2)),
		fmt.Sprintf("Month: %s AED", stats.TotalMonth.StringFixed(2)),
		fmt.Sprintf("Remaining: %s AED (Budget %s AED)", stats.Remaining.StringFixed(2), budget.StringFixed(2)),
		fmt.Sprintf("Days left: %d", stats.DaysLeft),
		fmt.Sprintf("Forecast: %s AED%s", stats.Predicted.StringFixed(2), mark),
		"",
		"🔎 By user:",
	}
	for _, u := range byUser {
		lines = append(lines, fmt.Sprintf("- %s: %s AED", u.Label, u.Total.StringFixed(2)))
	}
	return Reply{Text: strings.Join(lines, "\n"), Markdown: true}
}

func (d *Dispatcher) cmdMe(r request) Reply {
	total, err := d.store.UserMonthTotal(r.userID, d.now())
	if err != nil {
		return d.storeFailure(err)
	}
	return Reply{Text: fmt.Sprintf("You spent %s AED this month.", total.StringFixed(2))}
}

func (d *Dispatcher) cmdUndo(r request) Reply {
	removed, err := d.store.DeleteLastExpense(r.userID, d.now())
	if err != nil {
		d.log.Error("undo failed", "user", r.userID, "err", err)
		return Reply{Text: "❌ Failed to remove expense."}
	}
	if !removed {
		return Reply{Text: "Nothing to undo."}
	}
	return Reply{Text: "✅ Last expense removed."}
}

func (d *Dispatcher) cmdSetBudget(r request) Reply {
	if len(r.args) == 0 {
		return Reply{Text: "Usage: /setbudget <amount>"}
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(r.args[0], ",", ""))
	if err != nil || amount.Sign() <= 0 {
		return Reply{Text: "Invalid amount."}
	}
	if err := d.store.SetSetting(store.BudgetKey, amount.String()); err != nil {
		d.log.Error("updating budget failed", "err", err)
		return Reply{Text: "❌ Failed to update budget."}
	}
	return Reply{Text: fmt.Sprintf("✅ Budget updated to %s AED", amount.StringFixed(2))}
}

func (d *Dispatcher) cmdBudget(request) Reply {
	budget, err := d.store.Budget()
	if err != nil {
		return d.storeFailure(err)
	}
	return Reply{Text: fmt.Sprintf("Budget: %s AED", budget.StringFixed(2))}
}

func (d *Dispatcher) cmdBalance(request) Reply {
	stats, _, err := d.snapshot()
	if err != nil {
		return d.storeFailure(err)
	}
	return Reply{Text: fmt.Sprintf("Remaining this month: %s AED", stats.Remaining.StringFixed(2))}
}

func (d *Dispatcher) cmdDaysLeft(request) Reply {
	stats, _, err := d.snapshot()
	if err != nil {
		return d.storeFailure(err)
	}
	return Reply{Text: fmt.Sprintf("Days left: %d of %d", stats.DaysLeft, stats.DaysInMonth)}
}

func (d *Dispatcher) cmdWhoami(r request) Reply {
	return Reply{Text: fmt.Sprintf("Your ID: %d\nChat ID: %d", r.userID, r.chatID)}
}

// DailyReport composes the scheduled summary sent to the report chat.
func (d *Dispatcher) DailyReport() (Reply, error) {
	stats, budget, err := d.snapshot()
	if err != nil {
		return Reply{}, err
	}
	verdict := "✅ On track"
	if stats.WillExceed {
		verdict = "⚠️ Over budget"
	}
	lines := []string{
		"⏰ Daily Budget Summary",
		fmt.Sprintf("Today: %s AED", stats.TotalToday.StringFixed(2)),
		fmt.Sprintf("This month: %s AED", stats.TotalMonth.StringFixed(2)),
		fmt.Sprintf("Days left: %d / %d", stats.DaysLeft, stats.DaysInMonth),
		fmt.Sprintf("Budget: %s AED, Remaining: %s AED", budget.StringFixed(2), stats.Remaining.StringFixed(2)),
		fmt.Sprintf("Predicted end: %s AED %s", stats.Predicted.StringFixed(2), verdict),
	}
	return Reply{Text: strings.Join(lines, "\n"), Markdown: true}, nil
}

func (d *Dispatcher) snapshot() (Stats, decimal.Decimal, error) {
	now := d.now()
	totalMonth, err := d.store.MonthTotal(now)
	if err != nil {
		return Stats{}, decimal.Decimal{}, err
	}
	totalToday, err := d.store.TodayTotal(now)
	if err != nil {
		return Stats{}, decimal.Decimal{}, err
	}
	budget, err := d.store.Budget()
	if err != nil {
		return Stats{}, decimal.Decimal{}, err
	}
	return Forecast(totalMonth, totalToday, budget, now), budget, nil
}

func (d *Dispatcher) storeFailure(err error) Reply {
	d.log.Error("ledger query failed", "err", err)
	return Reply{Text: "❌ Something went wrong, try again."}
}
