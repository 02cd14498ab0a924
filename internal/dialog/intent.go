package dialog

// Intent is the normalized meaning of a user command, independent of
// whether it arrived as a slash command or a keyboard button press.
type Intent int

const (
	IntentNone Intent = iota
	IntentStart
	IntentHelp
	IntentCancel
	IntentList
	IntentAddReminder
	IntentDeleteReminder
	IntentShowStatus
	IntentReturn
)

// Main menu button labels. Display text only; routing goes through the
// intent tables below.
const (
	BtnAdd    = "➕ Add a reminder"
	BtnDelete = "🗑 Delete a reminder"
	BtnList   = "📋 My reminders"
	BtnStatus = "📊 Status"
	BtnCancel = "Cancel"
	BtnReturn = "⬅️ Return"
)

var commandIntents = map[string]Intent{
	"start":  IntentStart,
	"help":   IntentHelp,
	"cancel": IntentCancel,
	"list":   IntentList,
	"add":    IntentAddReminder,
	"delete": IntentDeleteReminder,
	"status": IntentShowStatus,
	"return": IntentReturn,
}

var buttonIntents = map[string]Intent{
	BtnAdd:    IntentAddReminder,
	BtnDelete: IntentDeleteReminder,
	BtnList:   IntentList,
	BtnStatus: IntentShowStatus,
	BtnCancel: IntentCancel,
	BtnReturn: IntentReturn,
}

// CommandIntent maps a slash command (without the slash) to its intent.
func CommandIntent(cmd string) Intent {
	return commandIntents[cmd]
}

// ButtonIntent maps a keyboard button label to its intent. Free text
// that is not a button maps to IntentNone and is handled by the
// current conversation step.
func ButtonIntent(text string) Intent {
	return buttonIntents[text]
}
