// Package storage provides durable persistence for reminders.
//
// Two backends are supported: SQLite for single-host deployments and
// PostgreSQL when DATABASE_URL is set. Both apply the same additive
// migrations on startup, so either can be pointed at a pre-existing
// reminders table that predates the status column.
package storage

import (
	"time"

	"github.com/tazhate/remindbot/internal/domain"
)

// Store is the single source of truth for reminder rows. All mutations
// are atomic single-row statements.
type Store interface {
	// CreateReminder inserts the reminder and assigns r.ID and r.CreatedAt.
	CreateReminder(r *domain.Reminder) error

	// GetReminder returns (nil, nil) when no row matches.
	GetReminder(id int64) (*domain.Reminder, error)

	// DeleteReminder removes the row only when both id and owner match.
	// A miss on either is a no-op, not an error.
	DeleteReminder(id, userID int64) error

	// MarkCompleted flips status to completed. Idempotent: already
	// completed or absent rows are left untouched.
	MarkCompleted(id int64) error

	// ListActiveUpcoming returns the user's active reminders with
	// remind_at strictly after now, ordered ascending by remind_at.
	ListActiveUpcoming(userID int64, now time.Time) ([]*domain.Reminder, error)

	// ListActive returns every active reminder regardless of remind_at.
	// Used on startup to rebuild the delivery schedule.
	ListActive() ([]*domain.Reminder, error)

	// ListDue returns active reminders whose remind_at is at or before now.
	ListDue(now time.Time) ([]*domain.Reminder, error)

	// StatusCounts aggregates active/completed/total for one user.
	StatusCounts(userID int64) (domain.StatusCounts, error)

	Close() error
}

// Open chooses a backend: Postgres when databaseURL is set, SQLite at
// databasePath otherwise.
func Open(databaseURL, databasePath string) (Store, error) {
	if databaseURL != "" {
		return NewPostgres(databaseURL)
	}
	return NewSQLite(databasePath)
}
