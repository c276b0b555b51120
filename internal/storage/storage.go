package storage

import (
	"path/filepath"
	"strings"

	"github.com/julianstephens/healthydesk/internal/storage/sqlite"
)

// Open returns the provider for path. Paths ending in .json use the JSON
// document store, anything else is a SQLite database.
func Open(path string) Provider {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path)
	}
	return sqlite.NewStore(path)
}
