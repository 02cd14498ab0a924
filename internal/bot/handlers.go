package bot

import (
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tazhate/remindbot/internal/export"
)

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	// One bad update must not take the loop down with it.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic handling update: %v", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if b.dialog == nil || msg.From == nil {
		return
	}

	userID := msg.From.ID
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		cmd := msg.Command()
		if cmd == "export" {
			b.cmdExport(userID, chatID)
			return
		}
		b.dialog.HandleCommand(userID, chatID, cmd, msg.From.FirstName)
		return
	}

	b.dialog.HandleText(userID, chatID, strings.TrimSpace(msg.Text))
}

// cmdExport sends the user's upcoming reminders as an .ics document.
func (b *Bot) cmdExport(userID, chatID int64) {
	reminders, err := b.reminders.ListUpcoming(userID)
	if err != nil {
		b.trySend(chatID, "😔 Could not load your reminders, please try again.")
		return
	}
	if len(reminders) == 0 {
		b.trySend(chatID, "You have no upcoming reminders.")
		return
	}

	data, err := export.Encode(export.Calendar(reminders))
	if err != nil {
		log.Printf("Error encoding calendar for user %d: %v", userID, err)
		b.trySend(chatID, "😔 Could not build the calendar file, please try again.")
		return
	}

	if err := b.sendDocument(chatID, export.FileName, data); err != nil {
		log.Printf("Error sending calendar to chat %d: %v", chatID, err)
	}
}

func (b *Bot) trySend(chatID int64, text string) {
	if err := b.SendMessage(chatID, text); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}
