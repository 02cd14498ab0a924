package domain

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Reminder is a one-shot reminder owned by a single user and delivered
// to a single chat.
type Reminder struct {
	ID        int64
	UserID    int64
	ChatID    int64
	Text      string
	RemindAt  time.Time
	CreatedAt time.Time
	Status    Status
}

func (r *Reminder) IsActive() bool {
	return r.Status == StatusActive
}

// MinutesLeft returns whole minutes until the reminder fires, never negative.
func (r *Reminder) MinutesLeft(now time.Time) int {
	left := int(r.RemindAt.Sub(now).Minutes())
	if left < 0 {
		return 0
	}
	return left
}

// JobKey names the delivery job for a reminder. Keys are unique per
// (chat, reminder) pair so concurrent reminders in one chat never collide.
func (r *Reminder) JobKey() string {
	return JobKey(r.ChatID, r.ID)
}

func JobKey(chatID, reminderID int64) string {
	return fmt.Sprintf("reminder_%d_%d", chatID, reminderID)
}

// StatusCounts is the per-user aggregate over all reminders.
type StatusCounts struct {
	Active    int
	Completed int
	Total     int
}
