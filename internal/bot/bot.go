// Package bot is the Telegram transport. It owns the API connection
// and the update loop; everything conversational lives in dialog.
package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tazhate/remindbot/config"
	"github.com/tazhate/remindbot/internal/dialog"
	"github.com/tazhate/remindbot/internal/service"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	cfg       *config.Config
	reminders *service.ReminderService
	dialog    *dialog.Manager
}

func New(cfg *config.Config, reminders *service.ReminderService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("Authorized as @%s", api.Self.UserName)

	bot := &Bot{
		api:       api,
		cfg:       cfg,
		reminders: reminders,
	}

	bot.setCommands()

	return bot, nil
}

// SetDialog wires the conversation manager. Set after construction
// because the manager sends through this bot.
func (b *Bot) SetDialog(m *dialog.Manager) {
	b.dialog = m
}

func (b *Bot) setCommands() {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "🤖 Show menu"},
		{Command: "list", Description: "📋 Upcoming reminders"},
		{Command: "add", Description: "➕ Add a reminder"},
		{Command: "delete", Description: "🗑 Delete a reminder"},
		{Command: "status", Description: "📊 Reminder counts"},
		{Command: "export", Description: "📅 Export as calendar file"},
		{Command: "help", Description: "❓ Help"},
	}

	cfg := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(cfg); err != nil {
		log.Printf("Failed to set commands: %v", err)
	}
}

// Start runs long polling until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Println("Listening for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			go b.handleUpdate(update)
		}
	}
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// SendMenu sends text with the main menu keyboard attached.
func (b *Bot) SendMenu(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

// SendPrompt sends text and hides the keyboard for the rest of the flow.
func (b *Bot) SendPrompt(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendDocument(chatID int64, name string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	_, err := b.api.Send(doc)
	return err
}
