// Package dialog implements the per-user conversation state machine
// that turns multi-step chat input into reminder records.
package dialog

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/tazhate/remindbot/internal/service"
)

type step int

const (
	stepIdle step = iota
	stepAwaitingText
	stepAwaitingMinutes
	stepAwaitingDeleteID
)

// Sender delivers outbound text to the chat transport. SendMenu
// attaches the main menu keyboard, SendPrompt hides it for the
// duration of a flow.
type Sender interface {
	SendMessage(chatID int64, text string) error
	SendMenu(chatID int64, text string) error
	SendPrompt(chatID int64, text string) error
}

// DeliveryScheduler is the slice of the scheduler the dialog needs:
// register a job after insert, drop it after delete.
type DeliveryScheduler interface {
	Schedule(reminderID, chatID int64, text string, fireAt time.Time)
	Cancel(chatID, reminderID int64)
}

// userState tracks one user's progress through a flow. Created on the
// first message, cleared on completion or cancel, lost on restart.
type userState struct {
	mu    sync.Mutex
	step  step
	draft string
}

type Manager struct {
	reminders *service.ReminderService
	scheduler DeliveryScheduler
	sender    Sender

	mu     sync.Mutex
	states map[int64]*userState
}

func NewManager(reminders *service.ReminderService, scheduler DeliveryScheduler, sender Sender) *Manager {
	return &Manager{
		reminders: reminders,
		scheduler: scheduler,
		sender:    sender,
		states:    make(map[int64]*userState),
	}
}

func (m *Manager) state(userID int64) *userState {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[userID]
	if !ok {
		st = &userState{}
		m.states[userID] = st
	}
	return st
}

// HandleCommand processes a slash command. Unknown commands get the menu.
func (m *Manager) HandleCommand(userID, chatID int64, cmd, firstName string) {
	st := m.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	intent := CommandIntent(cmd)
	if intent == IntentNone {
		m.send(chatID, "Unknown command. /help for the list of commands")
		return
	}
	m.applyIntent(st, userID, chatID, intent, firstName)
}

// HandleText processes a free-text message: menu buttons become
// intents, everything else is input for the current step.
func (m *Manager) HandleText(userID, chatID int64, text string) {
	if text == "" {
		return
	}

	st := m.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if intent := ButtonIntent(text); intent != IntentNone {
		m.applyIntent(st, userID, chatID, intent, "")
		return
	}

	switch st.step {
	case stepAwaitingText:
		st.draft = text
		st.step = stepAwaitingMinutes
		m.prompt(chatID, "Nice. In how many minutes? (example: 5)")

	case stepAwaitingMinutes:
		m.handleMinutes(st, userID, chatID, text)

	case stepAwaitingDeleteID:
		m.handleDeleteID(st, userID, chatID, text)

	default:
		m.menu(chatID, "Choose an option:")
	}
}

func (m *Manager) applyIntent(st *userState, userID, chatID int64, intent Intent, firstName string) {
	switch intent {
	case IntentStart:
		st.reset()
		greeting := "Hi! 🤖\nI can remind you of something."
		if firstName != "" {
			greeting = fmt.Sprintf("Hi %s! 🤖\nI can remind you of something.", firstName)
		}
		m.menu(chatID, greeting)

	case IntentHelp:
		m.send(chatID, helpText)

	case IntentCancel:
		st.reset()
		m.menu(chatID, "Canceled ✅")

	case IntentReturn:
		st.reset()
		m.menu(chatID, "Choose an option:")

	case IntentList:
		reminders, err := m.reminders.ListUpcoming(userID)
		if err != nil {
			m.send(chatID, "😔 Could not load your reminders, please try again.")
			return
		}
		m.send(chatID, m.reminders.FormatReminderList(reminders))

	case IntentShowStatus:
		counts, err := m.reminders.StatusCounts(userID)
		if err != nil {
			m.send(chatID, "😔 Could not load your status, please try again.")
			return
		}
		m.send(chatID, m.reminders.FormatStatus(counts))

	case IntentAddReminder:
		st.reset()
		st.step = stepAwaitingText
		m.prompt(chatID, "Cool ✅\nWhat should I remind you about?")

	case IntentDeleteReminder:
		reminders, err := m.reminders.ListUpcoming(userID)
		if err != nil {
			m.send(chatID, "😔 Could not load your reminders, please try again.")
			return
		}
		if len(reminders) == 0 {
			m.menu(chatID, "You have no upcoming reminders.")
			return
		}
		st.reset()
		st.step = stepAwaitingDeleteID
		m.prompt(chatID, m.reminders.FormatReminderList(reminders)+"\nSend me the number (#id) of the reminder to delete.")
	}
}

// handleMinutes finishes the add flow. Invalid input re-prompts and
// leaves both the step and the store untouched.
func (m *Manager) handleMinutes(st *userState, userID, chatID int64, text string) {
	minutes, err := strconv.Atoi(text)
	if err != nil {
		m.send(chatID, "Please enter a number like 5 🙂")
		return
	}
	if minutes < service.MinMinutes || minutes > service.MaxMinutes {
		m.send(chatID, "Enter minutes between 1 and 1440 (24h).")
		return
	}

	reminder, err := m.reminders.Create(userID, chatID, st.draft, minutes)
	if err != nil {
		if service.IsValidation(err) {
			m.send(chatID, "Enter minutes between 1 and 1440 (24h).")
			return
		}
		m.menu(chatID, "😔 Could not save your reminder, please try again.")
		st.reset()
		return
	}

	m.scheduler.Schedule(reminder.ID, reminder.ChatID, reminder.Text, reminder.RemindAt)
	st.reset()
	m.menu(chatID, fmt.Sprintf("✅ Done! I'll remind you in %d minute(s).", minutes))
}

func (m *Manager) handleDeleteID(st *userState, userID, chatID int64, text string) {
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		m.send(chatID, "Please enter a number")
		return
	}

	reminder, err := m.reminders.Delete(id, userID)
	if err != nil {
		st.reset()
		switch {
		case errors.Is(err, service.ErrNotFound):
			m.menu(chatID, "No such reminder.")
		default:
			m.menu(chatID, "😔 Could not delete the reminder, please try again.")
		}
		return
	}

	m.scheduler.Cancel(reminder.ChatID, reminder.ID)
	st.reset()
	m.menu(chatID, fmt.Sprintf("🗑 Deleted reminder #%d.", reminder.ID))
}

func (st *userState) reset() {
	st.step = stepIdle
	st.draft = ""
}

func (m *Manager) send(chatID int64, text string) {
	if err := m.sender.SendMessage(chatID, text); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}

func (m *Manager) menu(chatID int64, text string) {
	if err := m.sender.SendMenu(chatID, text); err != nil {
		log.Printf("Error sending menu to chat %d: %v", chatID, err)
	}
}

func (m *Manager) prompt(chatID int64, text string) {
	if err := m.sender.SendPrompt(chatID, text); err != nil {
		log.Printf("Error sending prompt to chat %d: %v", chatID, err)
	}
}

const helpText = `Commands:
/start — show menu
/help — this help
/cancel — cancel the current flow
/list — upcoming reminders
/status — reminder counts
/export — download reminders as a calendar file

Use: Add a reminder → type the text → type the minutes`
