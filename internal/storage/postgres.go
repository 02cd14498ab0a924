package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tazhate/remindbot/internal/domain"

	_ "github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS reminders (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			chat_id BIGINT NOT NULL,
			text TEXT NOT NULL,
			remind_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,
		// Safe on tables created before the status column existed
		`ALTER TABLE reminders ADD COLUMN IF NOT EXISTS status TEXT NOT NULL DEFAULT 'active'`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_user_id ON reminders(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_remind_at ON reminders(remind_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_status ON reminders(status)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) CreateReminder(r *domain.Reminder) error {
	if r.Status == "" {
		r.Status = domain.StatusActive
	}
	err := s.db.QueryRow(
		`INSERT INTO reminders (user_id, chat_id, text, remind_at, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		r.UserID, r.ChatID, r.Text, r.RemindAt, r.Status,
	).Scan(&r.ID)
	if err != nil {
		return err
	}
	r.CreatedAt = time.Now()
	return nil
}

func (s *PostgresStore) GetReminder(id int64) (*domain.Reminder, error) {
	r := &domain.Reminder{}
	err := s.db.QueryRow(
		`SELECT id, user_id, chat_id, text, remind_at, created_at, status FROM reminders WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.ChatID, &r.Text, &r.RemindAt, &r.CreatedAt, &r.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

func (s *PostgresStore) DeleteReminder(id, userID int64) error {
	_, err := s.db.Exec(`DELETE FROM reminders WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}

func (s *PostgresStore) MarkCompleted(id int64) error {
	_, err := s.db.Exec(
		`UPDATE reminders SET status = $1 WHERE id = $2 AND status = $3`,
		domain.StatusCompleted, id, domain.StatusActive,
	)
	return err
}

func (s *PostgresStore) ListActiveUpcoming(userID int64, now time.Time) ([]*domain.Reminder, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, chat_id, text, remind_at, created_at, status
		 FROM reminders WHERE user_id = $1 AND status = $2 AND remind_at > $3
		 ORDER BY remind_at ASC`,
		userID, domain.StatusActive, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *PostgresStore) ListActive() ([]*domain.Reminder, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, chat_id, text, remind_at, created_at, status
		 FROM reminders WHERE status = $1 ORDER BY remind_at ASC`,
		domain.StatusActive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *PostgresStore) ListDue(now time.Time) ([]*domain.Reminder, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, chat_id, text, remind_at, created_at, status
		 FROM reminders WHERE status = $1 AND remind_at <= $2 ORDER BY remind_at ASC`,
		domain.StatusActive, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *PostgresStore) StatusCounts(userID int64) (domain.StatusCounts, error) {
	var c domain.StatusCounts
	err := s.db.QueryRow(
		`SELECT
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*)
		 FROM reminders WHERE user_id = $1`,
		userID,
	).Scan(&c.Active, &c.Completed, &c.Total)
	return c, err
}
