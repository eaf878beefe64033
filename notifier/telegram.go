// Package notifier pushes advisory alerts to the admin team's Telegram chat.
// It degrades to a no-op when no bot token is configured; the ledger never
// depends on a notification going out.
package notifier

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    zerolog.Logger
}

// New connects the bot. An empty token or zero chat ID yields a disabled
// notifier rather than an error.
func New(botToken string, chatID int64, log zerolog.Logger) *Notifier {
	n := &Notifier{chatID: chatID, log: log}
	if botToken == "" || chatID == 0 {
		log.Info().Msg("Telegram notifier disabled")
		return n
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Warn().Err(err).Msg("Telegram notifier unavailable, continuing without it")
		return n
	}

	n.bot = bot
	log.Info().Str("bot", bot.Self.UserName).Msg("Telegram notifier connected")
	return n
}

// NotifyAdmin sends a message to the admin chat in the background.
func (n *Notifier) NotifyAdmin(text string) {
	if n.bot == nil {
		return
	}
	go func() {
		msg := tgbotapi.NewMessage(n.chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			n.log.Warn().Err(err).Msg("Failed to send Telegram notification")
		}
	}()
}
