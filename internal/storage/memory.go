package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/tazhate/remindbot/internal/domain"
)

// InMemoryStore keeps reminders in a map. Not durable; it exists for
// tests and local experiments where a database is overkill.
type InMemoryStore struct {
	mu        sync.Mutex
	reminders map[int64]*domain.Reminder
	nextID    int64
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{reminders: make(map[int64]*domain.Reminder)}
}

func (s *InMemoryStore) Close() error {
	return nil
}

func (s *InMemoryStore) CreateReminder(r *domain.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = time.Now()
	if r.Status == "" {
		r.Status = domain.StatusActive
	}

	clone := *r
	s.reminders[r.ID] = &clone
	return nil
}

func (s *InMemoryStore) GetReminder(id int64) (*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reminders[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (s *InMemoryStore) DeleteReminder(id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.reminders[id]; ok && r.UserID == userID {
		delete(s.reminders, id)
	}
	return nil
}

func (s *InMemoryStore) MarkCompleted(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.reminders[id]; ok && r.Status == domain.StatusActive {
		r.Status = domain.StatusCompleted
	}
	return nil
}

func (s *InMemoryStore) ListActiveUpcoming(userID int64, now time.Time) ([]*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(r *domain.Reminder) bool {
		return r.UserID == userID && r.Status == domain.StatusActive && r.RemindAt.After(now)
	}), nil
}

func (s *InMemoryStore) ListActive() ([]*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(r *domain.Reminder) bool {
		return r.Status == domain.StatusActive
	}), nil
}

func (s *InMemoryStore) ListDue(now time.Time) ([]*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(r *domain.Reminder) bool {
		return r.Status == domain.StatusActive && !r.RemindAt.After(now)
	}), nil
}

func (s *InMemoryStore) StatusCounts(userID int64) (domain.StatusCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c domain.StatusCounts
	for _, r := range s.reminders {
		if r.UserID != userID {
			continue
		}
		c.Total++
		switch r.Status {
		case domain.StatusActive:
			c.Active++
		case domain.StatusCompleted:
			c.Completed++
		}
	}
	return c, nil
}

// collect copies matching rows sorted ascending by remind_at. Caller
// must hold s.mu.
func (s *InMemoryStore) collect(match func(*domain.Reminder) bool) []*domain.Reminder {
	var out []*domain.Reminder
	for _, r := range s.reminders {
		if match(r) {
			clone := *r
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RemindAt.Before(out[j].RemindAt) })
	return out
}
