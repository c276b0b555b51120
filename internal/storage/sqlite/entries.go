package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/storage/blob"
)

func (s *Store) LoadEntries(kind models.Kind) ([]models.Entry, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM entry_blobs WHERE kind = ?", blob.Key(kind)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return blob.Decode(kind, data)
}

func (s *Store) SaveEntries(kind models.Kind, entries []models.Entry) error {
	data, err := blob.Encode(entries)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO entry_blobs (kind, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		blob.Key(kind), data, time.Now().UTC().Format(timeLayout))
	return err
}

// SaveRawEntries stores data verbatim, bypassing encoding.
func (s *Store) SaveRawEntries(kind models.Kind, data []byte) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO entry_blobs (kind, data, updated_at) VALUES (?, ?, ?)",
		blob.Key(kind), data, time.Now().UTC().Format(timeLayout))
	return err
}
