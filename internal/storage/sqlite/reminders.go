package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/healthydesk/internal/models"
)

type reminderRow struct {
	ID      string `db:"id"`
	Kind    string `db:"kind"`
	FireAt  string `db:"fire_at"`
	Title   string `db:"title"`
	Message string `db:"message"`
}

func (s *Store) AddPendingReminders(reminders []models.Reminder) error {
	tx, err := s.dbx.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(timeLayout)
	for _, r := range reminders {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO pending_reminders (id, kind, fire_at, title, message, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, string(r.Kind), r.FireAt.UTC().Format(timeLayout), r.Title, r.Message, now)
		if err != nil {
			return fmt.Errorf("failed to store reminder %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetPendingReminders() ([]models.Reminder, error) {
	var rows []reminderRow
	err := s.dbx.Select(&rows, `
		SELECT id, kind, fire_at, title, message
		FROM pending_reminders
		ORDER BY fire_at, id`)
	if err != nil {
		return nil, err
	}

	reminders := make([]models.Reminder, 0, len(rows))
	for _, row := range rows {
		fireAt, err := time.Parse(timeLayout, row.FireAt)
		if err != nil {
			return nil, fmt.Errorf("parsing fire_at for reminder %s: %w", row.ID, err)
		}
		reminders = append(reminders, models.Reminder{
			ID:      row.ID,
			Kind:    models.Kind(row.Kind),
			FireAt:  fireAt,
			Title:   row.Title,
			Message: row.Message,
		})
	}
	return reminders, nil
}

func (s *Store) DeletePendingReminder(id string) error {
	_, err := s.db.Exec("DELETE FROM pending_reminders WHERE id = ?", id)
	return err
}

func (s *Store) ClearPendingReminders() error {
	_, err := s.db.Exec("DELETE FROM pending_reminders")
	return err
}
