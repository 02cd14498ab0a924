package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/tazhate/remindbot/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func addReminder(t *testing.T, s Store, userID, chatID int64, text string, remindAt time.Time) *domain.Reminder {
	t.Helper()
	r := &domain.Reminder{UserID: userID, ChatID: chatID, Text: text, RemindAt: remindAt}
	if err := s.CreateReminder(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func TestCreateAndGetReminder(t *testing.T) {
	s := newTestStore(t)

	remindAt := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	r := addReminder(t, s, 1, 10, "Buy milk", remindAt)

	if r.ID == 0 {
		t.Error("expected ID to be assigned")
	}

	got, err := s.GetReminder(r.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected reminder, got nil")
	}
	if got.Text != "Buy milk" || got.UserID != 1 || got.ChatID != 10 {
		t.Errorf("reminder fields wrong: %+v", got)
	}
	if got.Status != domain.StatusActive {
		t.Errorf("expected active status, got %q", got.Status)
	}
	if !got.RemindAt.Equal(remindAt) {
		t.Errorf("remind_at = %v, want %v", got.RemindAt, remindAt)
	}
}

func TestGetReminderMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetReminder(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestListActiveUpcomingOrdering(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	// Inserted out of temporal order
	later := addReminder(t, s, 1, 10, "later", now.Add(30*time.Minute))
	sooner := addReminder(t, s, 1, 10, "sooner", now.Add(5*time.Minute))
	addReminder(t, s, 2, 20, "other user", now.Add(10*time.Minute))

	reminders, err := s.ListActiveUpcoming(1, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reminders) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(reminders))
	}
	if reminders[0].ID != sooner.ID || reminders[1].ID != later.ID {
		t.Errorf("wrong order: got %d, %d", reminders[0].ID, reminders[1].ID)
	}
}

func TestListActiveUpcomingExcludesPastAndCompleted(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	addReminder(t, s, 1, 10, "past", now.Add(-5*time.Minute))
	done := addReminder(t, s, 1, 10, "done", now.Add(5*time.Minute))
	keep := addReminder(t, s, 1, 10, "keep", now.Add(10*time.Minute))

	if err := s.MarkCompleted(done.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reminders, err := s.ListActiveUpcoming(1, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reminders) != 1 || reminders[0].ID != keep.ID {
		t.Errorf("expected only %d, got %+v", keep.ID, reminders)
	}
}

func TestDeleteReminderOwnership(t *testing.T) {
	s := newTestStore(t)
	r := addReminder(t, s, 1, 10, "mine", time.Now().Add(5*time.Minute))

	// Wrong owner: row must stay
	if err := s.DeleteReminder(r.ID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := s.GetReminder(r.ID); got == nil {
		t.Fatal("reminder deleted by non-owner")
	}

	// Right owner
	if err := s.DeleteReminder(r.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := s.GetReminder(r.ID); got != nil {
		t.Error("reminder still present after delete")
	}

	// Deleting again is a no-op
	if err := s.DeleteReminder(r.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMarkCompletedIdempotent(t *testing.T) {
	s := newTestStore(t)
	r := addReminder(t, s, 1, 10, "x", time.Now().Add(time.Minute))

	for i := 0; i < 2; i++ {
		if err := s.MarkCompleted(r.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	got, _ := s.GetReminder(r.ID)
	if got.Status != domain.StatusCompleted {
		t.Errorf("expected completed, got %q", got.Status)
	}

	// Absent row is a no-op too
	if err := s.MarkCompleted(9999); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListDue(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	due := addReminder(t, s, 1, 10, "due", now.Add(-time.Minute))
	addReminder(t, s, 1, 10, "future", now.Add(time.Hour))

	reminders, err := s.ListDue(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reminders) != 1 || reminders[0].ID != due.ID {
		t.Errorf("expected only the due reminder, got %+v", reminders)
	}
}

func TestStatusCounts(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	addReminder(t, s, 1, 10, "a", now.Add(time.Minute))
	b := addReminder(t, s, 1, 10, "b", now.Add(time.Minute))
	addReminder(t, s, 2, 20, "other", now.Add(time.Minute))

	if err := s.MarkCompleted(b.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts, err := s.StatusCounts(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.StatusCounts{Active: 1, Completed: 1, Total: 2}
	if counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s1, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addReminder(t, s1, 1, 10, "survives", time.Now().Add(time.Minute))
	s1.Close()

	// Second startup over the same file must not fail or lose rows
	s2, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s2.Close()

	reminders, err := s2.ListActive()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reminders) != 1 || reminders[0].Text != "survives" {
		t.Errorf("expected row to survive restart, got %+v", reminders)
	}
}
