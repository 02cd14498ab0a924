package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tazhate/remindbot/internal/domain"
	"github.com/tazhate/remindbot/internal/storage"
)

// failStore errors on every operation, standing in for a dead database.
type failStore struct{}

var errDown = errors.New("connection refused")

func (failStore) CreateReminder(*domain.Reminder) error                { return errDown }
func (failStore) GetReminder(int64) (*domain.Reminder, error)          { return nil, errDown }
func (failStore) DeleteReminder(int64, int64) error                    { return errDown }
func (failStore) MarkCompleted(int64) error                            { return errDown }
func (failStore) ListActive() ([]*domain.Reminder, error)              { return nil, errDown }
func (failStore) ListDue(time.Time) ([]*domain.Reminder, error)        { return nil, errDown }
func (failStore) StatusCounts(int64) (domain.StatusCounts, error)      { return domain.StatusCounts{}, errDown }
func (failStore) Close() error                                         { return nil }
func (failStore) ListActiveUpcoming(int64, time.Time) ([]*domain.Reminder, error) {
	return nil, errDown
}

func TestCreateValidReminder(t *testing.T) {
	svc := NewReminderService(storage.NewInMemory())

	before := time.Now()
	r, err := svc.Create(1, 10, "Buy milk", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Status != domain.StatusActive {
		t.Errorf("expected active status, got %q", r.Status)
	}
	want := before.Add(5 * time.Minute)
	if diff := r.RemindAt.Sub(want); diff < 0 || diff > time.Second {
		t.Errorf("remind_at off by %v", diff)
	}
}

func TestCreateMinutesBounds(t *testing.T) {
	store := storage.NewInMemory()
	svc := NewReminderService(store)

	for _, minutes := range []int{0, -1, 1441} {
		if _, err := svc.Create(1, 10, "x", minutes); !IsValidation(err) {
			t.Errorf("minutes=%d: expected validation error, got %v", minutes, err)
		}
	}
	// Nothing reached the store
	if counts, _ := store.StatusCounts(1); counts.Total != 0 {
		t.Errorf("expected no rows, got %d", counts.Total)
	}

	for _, minutes := range []int{1, 1440} {
		if _, err := svc.Create(1, 10, "x", minutes); err != nil {
			t.Errorf("minutes=%d: unexpected error: %v", minutes, err)
		}
	}
}

func TestCreateEmptyText(t *testing.T) {
	svc := NewReminderService(storage.NewInMemory())

	for _, text := range []string{"", "   "} {
		if _, err := svc.Create(1, 10, text, 5); !errors.Is(err, ErrEmptyText) {
			t.Errorf("text=%q: expected ErrEmptyText, got %v", text, err)
		}
	}
}

func TestCreateStoreDown(t *testing.T) {
	svc := NewReminderService(failStore{})

	if _, err := svc.Create(1, 10, "x", 5); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestDeleteForeignReportedAsNotFound(t *testing.T) {
	store := storage.NewInMemory()
	svc := NewReminderService(store)

	r, err := svc.Create(1, 10, "mine", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// User 2 must get the same answer for a foreign id and a missing id
	if _, err := svc.Delete(r.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign id: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Delete(9999, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: expected ErrNotFound, got %v", err)
	}

	// Row untouched
	if got, _ := store.GetReminder(r.ID); got == nil {
		t.Fatal("reminder was deleted by non-owner")
	}
}

func TestDeleteOwn(t *testing.T) {
	store := storage.NewInMemory()
	svc := NewReminderService(store)

	r, _ := svc.Create(1, 10, "mine", 5)

	deleted, err := svc.Delete(r.ID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.ID != r.ID || deleted.ChatID != 10 {
		t.Errorf("wrong reminder returned: %+v", deleted)
	}
	if got, _ := store.GetReminder(r.ID); got != nil {
		t.Error("reminder still present after delete")
	}
}

func TestFormatReminderList(t *testing.T) {
	svc := NewReminderService(storage.NewInMemory())

	if got := svc.FormatReminderList(nil); got != "You have no upcoming reminders." {
		t.Errorf("empty list text = %q", got)
	}

	r := &domain.Reminder{ID: 7, Text: "Buy milk", RemindAt: time.Now().Add(5*time.Minute + time.Second)}
	got := svc.FormatReminderList([]*domain.Reminder{r})
	for _, want := range []string{"#7", "Buy milk", "in 5 min"} {
		if !strings.Contains(got, want) {
			t.Errorf("list %q missing %q", got, want)
		}
	}
}

func TestFormatStatus(t *testing.T) {
	svc := NewReminderService(storage.NewInMemory())
	got := svc.FormatStatus(domain.StatusCounts{Active: 2, Completed: 3, Total: 5})
	for _, want := range []string{"Active: 2", "Completed: 3", "Total: 5"} {
		if !strings.Contains(got, want) {
			t.Errorf("status %q missing %q", got, want)
		}
	}
}
