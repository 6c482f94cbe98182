// Package bot holds the chat-facing core: the expense parser, the
// budget forecast, the command dispatcher and the telebot wiring that
// feeds messages into it.
package bot

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gopkg.in/telebot.v3"
)

type Bot struct {
	B    *telebot.Bot
	disp *Dispatcher
	log  *slog.Logger
}

func New(token string, disp *Dispatcher, log *slog.Logger) (*Bot, error) {
	pref := telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := telebot.NewBot(pref)
	if err != nil {
		return nil, err
	}

	bot := &Bot{B: b, disp: disp, log: log}

	// Every text message, slash command or not, flows through the one
	// dispatcher. Unregistered commands fall through to OnText.
	b.Handle(telebot.OnText, bot.onText)

	return bot, nil
}

func (bot *Bot) Start() {
	bot.B.Start()
}

func (bot *Bot) onText(c telebot.Context) error {
	sender := c.Sender()
	if sender == nil || c.Chat() == nil {
		return nil
	}

	name := displayName(sender)
	text := strings.TrimSpace(c.Text())
	bot.log.Info("message received", "user", name, "id", sender.ID, "text", text)

	reply := bot.disp.Dispatch(sender.ID, name, c.Chat().ID, text)
	if reply.Text == "" {
		return nil
	}
	if reply.Markdown {
		return c.Send(reply.Text, telebot.ModeMarkdown)
	}
	return c.Send(reply.Text)
}

// SendDailyReport is called by the cron scheduler.
func (bot *Bot) SendDailyReport(chatID int64) {
	reply, err := bot.disp.DailyReport()
	if err != nil {
		bot.log.Error("composing daily report failed", "err", err)
		return
	}
	if _, err := bot.B.Send(telebot.ChatID(chatID), reply.Text, telebot.ModeMarkdown); err != nil {
		bot.log.Error("sending daily report failed", "chat", chatID, "err", err)
		return
	}
	bot.log.Info("daily report sent", "chat", chatID)
}

// displayName is first name, else handle, else the stringified id.
func displayName(u *telebot.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return strconv.FormatInt(u.ID, 10)
}
