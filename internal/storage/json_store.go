package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/storage/blob"
)

var ErrNotLoaded = errors.New("storage not loaded")

type document struct {
	Version  int                        `json:"version"`
	Settings map[string]string          `json:"settings"`
	Entries  map[string]json.RawMessage `json:"entries"`
	Pending  []models.Reminder          `json:"pending"`
}

type JSONStore struct {
	mu   sync.Mutex
	path string
	doc  *document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = &document{
		Version:  1,
		Settings: models.SettingsToMap(models.DefaultSettings()),
		Entries:  make(map[string]json.RawMessage),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) read() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage not initialized, run 'healthydesk init' first")
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Settings == nil {
		doc.Settings = make(map[string]string)
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]json.RawMessage)
	}
	return doc, nil
}

// refreshLocked re-reads the file so a mutation starts from what other
// processes have written since Load.
func (s *JSONStore) refreshLocked() error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	doc, err := s.read()
	if err != nil {
		return err
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// write then rename so concurrent readers never see a partial document
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) LoadEntries(kind models.Kind) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(); err != nil {
		return nil, err
	}
	return blob.Decode(kind, s.doc.Entries[blob.Key(kind)])
}

func (s *JSONStore) SaveEntries(kind models.Kind, entries []models.Entry) error {
	data, err := blob.Encode(entries)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(); err != nil {
		return err
	}
	s.doc.Entries[blob.Key(kind)] = data
	return s.save()
}

func (s *JSONStore) GetScalar(key string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(); err != nil {
		return 0, err
	}
	raw, ok := s.doc.Settings[key]
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return v, nil
}

func (s *JSONStore) SaveScalar(key string, value float64) error {
	return s.set(key, models.FormatScalar(value))
}

func (s *JSONStore) GetFlag(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(); err != nil {
		return false, err
	}
	return s.doc.Settings[key] == "true", nil
}

func (s *JSONStore) SaveFlag(key string, value bool) error {
	return s.set(key, strconv.FormatBool(value))
}

func (s *JSONStore) set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(); err != nil {
		return err
	}
	s.doc.Settings[key] = value
	return s.save()
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(); err != nil {
		return models.Settings{}, err
	}
	return models.MapToSettings(s.doc.Settings)
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(); err != nil {
		return err
	}
	for k, v := range models.SettingsToMap(settings) {
		s.doc.Settings[k] = v
	}
	return s.save()
}

func (s *JSONStore) AddPendingReminders(reminders []models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(); err != nil {
		return err
	}

	// Same ID replaces, matching INSERT OR REPLACE in the SQLite store
	byID := make(map[string]int, len(s.doc.Pending))
	for i, r := range s.doc.Pending {
		byID[r.ID] = i
	}
	for _, r := range reminders {
		if i, ok := byID[r.ID]; ok {
			s.doc.Pending[i] = r
			continue
		}
		byID[r.ID] = len(s.doc.Pending)
		s.doc.Pending = append(s.doc.Pending, r)
	}
	return s.save()
}

func (s *JSONStore) GetPendingReminders() ([]models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(); err != nil {
		return nil, err
	}

	pending := make([]models.Reminder, len(s.doc.Pending))
	copy(pending, s.doc.Pending)
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].FireAt.Before(pending[j].FireAt)
	})
	return pending, nil
}

func (s *JSONStore) DeletePendingReminder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(); err != nil {
		return err
	}

	kept := s.doc.Pending[:0]
	for _, r := range s.doc.Pending {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.doc.Pending = kept
	return s.save()
}

func (s *JSONStore) ClearPendingReminders() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(); err != nil {
		return err
	}
	s.doc.Pending = nil
	return s.save()
}
