package storage

import (
	"github.com/julianstephens/healthydesk/internal/models"
	"github.com/julianstephens/healthydesk/internal/storage/blob"
)

// ErrDecode wraps failures to decode a persisted entry collection.
var ErrDecode = blob.ErrDecode

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Entry collections, stored as one blob per kind
	LoadEntries(kind models.Kind) ([]models.Entry, error)
	SaveEntries(kind models.Kind, entries []models.Entry) error

	// Scalars and flags; missing keys read as zero values
	GetScalar(key string) (float64, error)
	SaveScalar(key string, value float64) error
	GetFlag(key string) (bool, error)
	SaveFlag(key string, value bool) error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Pending reminders
	AddPendingReminders([]models.Reminder) error
	GetPendingReminders() ([]models.Reminder, error)
	DeletePendingReminder(id string) error
	ClearPendingReminders() error

	// Utils
	GetConfigPath() string
}
