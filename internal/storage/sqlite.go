package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tazhate/remindbot/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS reminders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			chat_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			remind_at DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_user_id ON reminders(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_remind_at ON reminders(remind_at)`,
		// Status column arrived after the first deployments
		`ALTER TABLE reminders ADD COLUMN status TEXT NOT NULL DEFAULT 'active'`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_status ON reminders(status)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			// Ignore "duplicate column" errors for ALTER TABLE
			if !strings.Contains(err.Error(), "duplicate column") {
				return fmt.Errorf("exec migration: %w", err)
			}
		}
	}
	return nil
}

func (s *SQLiteStore) CreateReminder(r *domain.Reminder) error {
	if r.Status == "" {
		r.Status = domain.StatusActive
	}
	res, err := s.db.Exec(
		`INSERT INTO reminders (user_id, chat_id, text, remind_at, status) VALUES (?, ?, ?, ?, ?)`,
		r.UserID, r.ChatID, r.Text, r.RemindAt, r.Status,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	r.ID = id
	r.CreatedAt = time.Now()
	return nil
}

func (s *SQLiteStore) GetReminder(id int64) (*domain.Reminder, error) {
	r := &domain.Reminder{}
	err := s.db.QueryRow(
		`SELECT id, user_id, chat_id, text, remind_at, created_at, status FROM reminders WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.UserID, &r.ChatID, &r.Text, &r.RemindAt, &r.CreatedAt, &r.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

func (s *SQLiteStore) DeleteReminder(id, userID int64) error {
	_, err := s.db.Exec(`DELETE FROM reminders WHERE id = ? AND user_id = ?`, id, userID)
	return err
}

func (s *SQLiteStore) MarkCompleted(id int64) error {
	_, err := s.db.Exec(
		`UPDATE reminders SET status = ? WHERE id = ? AND status = ?`,
		domain.StatusCompleted, id, domain.StatusActive,
	)
	return err
}

func (s *SQLiteStore) ListActiveUpcoming(userID int64, now time.Time) ([]*domain.Reminder, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, chat_id, text, remind_at, created_at, status
		 FROM reminders WHERE user_id = ? AND status = ? AND remind_at > ?
		 ORDER BY remind_at ASC`,
		userID, domain.StatusActive, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *SQLiteStore) ListActive() ([]*domain.Reminder, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, chat_id, text, remind_at, created_at, status
		 FROM reminders WHERE status = ? ORDER BY remind_at ASC`,
		domain.StatusActive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *SQLiteStore) ListDue(now time.Time) ([]*domain.Reminder, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, chat_id, text, remind_at, created_at, status
		 FROM reminders WHERE status = ? AND remind_at <= ? ORDER BY remind_at ASC`,
		domain.StatusActive, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *SQLiteStore) StatusCounts(userID int64) (domain.StatusCounts, error) {
	var c domain.StatusCounts
	err := s.db.QueryRow(
		`SELECT
			COUNT(CASE WHEN status = 'active' THEN 1 END),
			COUNT(CASE WHEN status = 'completed' THEN 1 END),
			COUNT(*)
		 FROM reminders WHERE user_id = ?`,
		userID,
	).Scan(&c.Active, &c.Completed, &c.Total)
	return c, err
}

func scanReminders(rows *sql.Rows) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	for rows.Next() {
		r := &domain.Reminder{}
		if err := rows.Scan(&r.ID, &r.UserID, &r.ChatID, &r.Text, &r.RemindAt, &r.CreatedAt, &r.Status); err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
