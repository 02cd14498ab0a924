// Package scheduler fires reminder deliveries at their due time.
//
// Every active reminder gets a one-shot timer keyed by its (chat, id)
// pair. Timers are in-memory only; on startup Recover rebuilds them
// from the store, which stays the single source of truth. A per-minute
// sweep catches anything a timer missed.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tazhate/remindbot/internal/domain"
	"github.com/tazhate/remindbot/internal/storage"
)

type MessageSender interface {
	SendMessage(chatID int64, text string) error
}

type jobEntry struct {
	timer  *time.Timer
	fireAt time.Time
}

type Scheduler struct {
	cron    *cron.Cron
	storage storage.Store
	sender  MessageSender

	mu   sync.Mutex
	jobs map[string]*jobEntry
}

func New(store storage.Store) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		storage: store,
		jobs:    make(map[string]*jobEntry),
	}
}

func (s *Scheduler) SetSender(sender MessageSender) {
	s.sender = sender
}

// Schedule registers a one-shot delivery for the reminder. Scheduling
// the same key again replaces the prior timer. A fireAt already in the
// past fires immediately.
func (s *Scheduler) Schedule(reminderID, chatID int64, text string, fireAt time.Time) {
	key := domain.JobKey(chatID, reminderID)
	delay := time.Until(fireAt)
	if delay <= 0 {
		log.Printf("Reminder %s is already due, firing now", key)
		go s.fire(key, reminderID, chatID, text)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.jobs[key]; ok {
		old.timer.Stop()
	}
	s.jobs[key] = &jobEntry{
		timer:  time.AfterFunc(delay, func() { s.fire(key, reminderID, chatID, text) }),
		fireAt: fireAt,
	}
}

// Cancel drops the pending timer for a reminder. No-op when none exists.
func (s *Scheduler) Cancel(chatID, reminderID int64) {
	key := domain.JobKey(chatID, reminderID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.jobs[key]; ok {
		entry.timer.Stop()
		delete(s.jobs, key)
	}
}

// PendingCount reports how many timers are currently registered.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Recover re-registers a timer for every active reminder in the store.
// Reminders that came due while the process was down fire immediately
// rather than being dropped.
func (s *Scheduler) Recover() error {
	reminders, err := s.storage.ListActive()
	if err != nil {
		return fmt.Errorf("list active reminders: %w", err)
	}

	for _, r := range reminders {
		s.Schedule(r.ID, r.ChatID, r.Text, r.RemindAt)
	}

	log.Printf("Recovered %d active reminder(s)", len(reminders))
	return nil
}

// Start runs the per-minute sweep until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc("* * * * *", s.sweep); err != nil {
		return fmt.Errorf("add sweep job: %w", err)
	}

	s.cron.Start()
	log.Println("Scheduler started")

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.mu.Lock()
	for _, entry := range s.jobs {
		entry.timer.Stop()
	}
	s.jobs = make(map[string]*jobEntry)
	s.mu.Unlock()

	log.Println("Scheduler stopped")
}

// fire runs when a timer expires. The store is re-checked first: a
// reminder deleted or completed after scheduling must not be delivered.
func (s *Scheduler) fire(key string, reminderID, chatID int64, text string) {
	s.mu.Lock()
	delete(s.jobs, key)
	s.mu.Unlock()

	reminder, err := s.storage.GetReminder(reminderID)
	if err != nil {
		// Store is unreachable; the sweep retries once it is back.
		log.Printf("Error checking reminder %d before delivery: %v", reminderID, err)
		return
	}
	if reminder == nil || !reminder.IsActive() {
		return
	}

	s.deliver(reminderID, chatID, text)
}

// sweep delivers any due reminder that no timer picked up.
func (s *Scheduler) sweep() {
	due, err := s.storage.ListDue(time.Now())
	if err != nil {
		log.Printf("Error listing due reminders: %v", err)
		return
	}

	for _, r := range due {
		s.Cancel(r.ChatID, r.ID)
		s.deliver(r.ID, r.ChatID, r.Text)
	}
}

func (s *Scheduler) deliver(reminderID, chatID int64, text string) {
	if s.sender == nil {
		return
	}

	if err := s.sender.SendMessage(chatID, fmt.Sprintf("⏰ Reminder:\n%s", text)); err != nil {
		// Best effort: the reminder stays active and the sweep retries.
		log.Printf("Error delivering reminder %d to chat %d: %v", reminderID, chatID, err)
		return
	}

	if err := s.storage.MarkCompleted(reminderID); err != nil {
		log.Printf("Error marking reminder %d completed: %v", reminderID, err)
	}
}
