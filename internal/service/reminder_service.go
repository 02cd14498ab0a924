package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tazhate/remindbot/internal/domain"
	"github.com/tazhate/remindbot/internal/storage"
)

const (
	MinMinutes = 1
	MaxMinutes = 1440 // 24h
)

type ReminderService struct {
	storage storage.Store
}

func NewReminderService(s storage.Store) *ReminderService {
	return &ReminderService{storage: s}
}

// Create validates the input and inserts a new active reminder due
// minutes from now. Store failures surface as ErrUnavailable.
func (s *ReminderService) Create(userID, chatID int64, text string, minutes int) (*domain.Reminder, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if minutes < MinMinutes || minutes > MaxMinutes {
		return nil, ErrMinutesOutOfRange
	}

	reminder := &domain.Reminder{
		UserID:   userID,
		ChatID:   chatID,
		Text:     text,
		RemindAt: time.Now().Add(time.Duration(minutes) * time.Minute),
		Status:   domain.StatusActive,
	}

	if err := s.storage.CreateReminder(reminder); err != nil {
		log.Printf("Error creating reminder for user %d: %v", userID, err)
		return nil, ErrUnavailable
	}

	return reminder, nil
}

// Delete removes the reminder only when it belongs to userID and
// returns the removed row so the caller can cancel its delivery job.
// A foreign id reports ErrNotFound exactly like a missing one.
func (s *ReminderService) Delete(id, userID int64) (*domain.Reminder, error) {
	reminder, err := s.storage.GetReminder(id)
	if err != nil {
		log.Printf("Error loading reminder %d: %v", id, err)
		return nil, ErrUnavailable
	}
	if reminder == nil || reminder.UserID != userID {
		return nil, ErrNotFound
	}

	if err := s.storage.DeleteReminder(id, userID); err != nil {
		log.Printf("Error deleting reminder %d: %v", id, err)
		return nil, ErrUnavailable
	}

	return reminder, nil
}

func (s *ReminderService) ListUpcoming(userID int64) ([]*domain.Reminder, error) {
	reminders, err := s.storage.ListActiveUpcoming(userID, time.Now())
	if err != nil {
		log.Printf("Error listing reminders for user %d: %v", userID, err)
		return nil, ErrUnavailable
	}
	return reminders, nil
}

func (s *ReminderService) StatusCounts(userID int64) (domain.StatusCounts, error) {
	counts, err := s.storage.StatusCounts(userID)
	if err != nil {
		log.Printf("Error counting reminders for user %d: %v", userID, err)
		return domain.StatusCounts{}, ErrUnavailable
	}
	return counts, nil
}

func (s *ReminderService) FormatReminderList(reminders []*domain.Reminder) string {
	if len(reminders) == 0 {
		return "You have no upcoming reminders."
	}

	now := time.Now()
	var sb strings.Builder
	sb.WriteString("⏰ Your upcoming reminders:\n\n")
	for i, r := range reminders {
		sb.WriteString(fmt.Sprintf("%d. #%d %s — in %d min (%s)\n",
			i+1, r.ID, r.Text, r.MinutesLeft(now), r.RemindAt.Format("15:04")))
	}
	return sb.String()
}

func (s *ReminderService) FormatStatus(c domain.StatusCounts) string {
	return fmt.Sprintf("📊 Your reminders:\n\nActive: %d\nCompleted: %d\nTotal: %d",
		c.Active, c.Completed, c.Total)
}
