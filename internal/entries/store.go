// Package entries owns the in-memory water and walking collections and
// writes every change through to storage.
package entries

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/logger"
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/storage"
)

var (
	ErrInvalidValue = errors.New("value must be a finite number >= 0")
	ErrInvalidGoal  = errors.New("goal must be greater than 0")
)

type Option func(*Store)

// WithClock overrides the source of entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides entry ID generation.
func WithIDFunc(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

type Store struct {
	mu       sync.Mutex
	provider storage.Provider
	now      func() time.Time
	newID    func() string

	water   []models.Entry
	walking []models.Entry
	goals   models.Goals
	// kinds whose last write failed; their in-memory entries are merged on reload
	unsaved map[models.Kind]bool
}

func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		now:      time.Now,
		newID:    uuid.NewString,
		water:    []models.Entry{},
		walking:  []models.Entry{},
		unsaved:  make(map[models.Kind]bool),
		goals: models.Goals{
			WaterML:    constants.DefaultWaterGoalML,
			WalkingSec: constants.DefaultWalkingGoalSec,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with what the provider holds, so entries
// written by other processes become visible. Unreadable collections load as
// empty and unset goals fall back to their defaults.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncLocked(models.KindWater)
	s.syncLocked(models.KindWalking)

	settings := models.Settings{
		DailyWaterGoal:   s.loadScalar(constants.SettingDailyWaterGoal),
		DailyWalkingGoal: s.loadScalar(constants.SettingDailyWalkingGoal),
	}
	models.ApplyDefaultSettings(&settings)
	s.goals = settings.Goals()
}

func (s *Store) loadKind(kind models.Kind) []models.Entry {
	list, err := s.provider.LoadEntries(kind)
	if err != nil {
		logger.Warn("Discarding unreadable entries", "kind", kind, "error", err)
		return []models.Entry{}
	}
	if list == nil {
		return []models.Entry{}
	}
	return list
}

func (s *Store) syncLocked(kind models.Kind) {
	list := s.loadKind(kind)
	if s.unsaved[kind] {
		list = mergeByID(list, s.listLocked(kind))
	}
	if kind == models.KindWater {
		s.water = list
	} else {
		s.walking = list
	}
}

func (s *Store) listLocked(kind models.Kind) []models.Entry {
	if kind == models.KindWater {
		return s.water
	}
	return s.walking
}

// mergeByID appends the local entries stored lacks.
func mergeByID(stored, local []models.Entry) []models.Entry {
	seen := make(map[string]bool, len(stored))
	for _, e := range stored {
		seen[e.ID] = true
	}
	for _, e := range local {
		if !seen[e.ID] {
			stored = append(stored, e)
		}
	}
	return stored
}

func (s *Store) loadScalar(key string) float64 {
	v, err := s.provider.GetScalar(key)
	if err != nil {
		logger.Warn("Failed to read setting, using default", "key", key, "error", err)
		return 0
	}
	return v
}

func validValue(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AddWater records amountML milliliters at the current time and returns the new entry ID.
func (s *Store) AddWater(amountML float64) (string, error) {
	return s.add(models.KindWater, amountML)
}

// AddWalk records durationSec seconds of walking at the current time and returns the new entry ID.
func (s *Store) AddWalk(durationSec float64) (string, error) {
	return s.add(models.KindWalking, durationSec)
}

func (s *Store) add(kind models.Kind, value float64) (string, error) {
	if !validValue(value) {
		return "", fmt.Errorf("%w: %v", ErrInvalidValue, value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.Entry{
		ID:        s.newID(),
		Kind:      kind,
		Value:     value,
		Timestamp: s.now(),
	}

	// start from what storage holds now so a concurrent process's entries survive the write
	s.syncLocked(kind)

	if kind == models.KindWater {
		s.water = append(s.water, entry)
		s.persist(kind, s.water)
	} else {
		s.walking = append(s.walking, entry)
		s.persist(kind, s.walking)
	}

	logger.Debug("Added entry", "kind", kind, "id", entry.ID, "value", value)
	return entry.ID, nil
}

// persist writes a collection. The in-memory state stays authoritative when the write fails.
func (s *Store) persist(kind models.Kind, list []models.Entry) {
	err := s.provider.SaveEntries(kind, list)
	s.unsaved[kind] = err != nil
	if err != nil {
		logger.Warn("Failed to persist entries", "kind", kind, "error", err)
	}
}

// EntriesOfKind returns a copy of the kind's entries with timestamp >= since.
// A zero since returns every entry.
func (s *Store) EntriesOfKind(kind models.Kind, since time.Time) []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.walking
	if kind == models.KindWater {
		src = s.water
	}

	out := make([]models.Entry, 0, len(src))
	for _, e := range src {
		if since.IsZero() || !e.Timestamp.Before(since) {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot copies both collections and the goals.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.Snapshot{
		Water:   make([]models.Entry, len(s.water)),
		Walking: make([]models.Entry, len(s.walking)),
		Goals:   s.goals,
	}
	copy(snap.Water, s.water)
	copy(snap.Walking, s.walking)
	return snap
}

func (s *Store) Goals() models.Goals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals
}

// SetGoals replaces both goals. Non-positive goals are rejected and never persisted.
func (s *Store) SetGoals(goals models.Goals) error {
	if !(goals.WaterML > 0) || !(goals.WalkingSec > 0) || math.IsInf(goals.WaterML, 0) || math.IsInf(goals.WalkingSec, 0) {
		return fmt.Errorf("%w: water=%v walking=%v", ErrInvalidGoal, goals.WaterML, goals.WalkingSec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals = goals
	for key, v := range map[string]float64{
		constants.SettingDailyWaterGoal:   goals.WaterML,
		constants.SettingDailyWalkingGoal: goals.WalkingSec,
	} {
		if err := s.provider.SaveScalar(key, v); err != nil {
			logger.Warn("Failed to persist goal", "key", key, "error", err)
		}
	}
	return nil
}

// ResetAll deletes every entry of both kinds. Goals are kept.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.water = []models.Entry{}
	s.walking = []models.Entry{}
	s.persist(models.KindWater, s.water)
	s.persist(models.KindWalking, s.walking)
	logger.Info("All entries reset")
}
