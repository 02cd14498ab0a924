package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tazhate/remindbot/internal/dialog"
)

// Main menu reply keyboard. Labels route through dialog's intent table,
// so changing a caption here never breaks routing.
func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(dialog.BtnAdd),
			tgbotapi.NewKeyboardButton(dialog.BtnDelete),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(dialog.BtnList),
			tgbotapi.NewKeyboardButton(dialog.BtnStatus),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(dialog.BtnCancel),
		),
	)
}
