// Package blob encodes entry collections into the JSON blobs both storage
// backends persist per kind.
package blob

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
)

var ErrDecode = errors.New("failed to decode entries")

// Key returns the persistence key for a kind's collection.
func Key(kind models.Kind) string {
	if kind == models.KindWater {
		return constants.WaterEntriesKey
	}
	return constants.WalkingEntriesKey
}

// Encode serializes entries. A nil slice encodes as an empty array.
func Encode(entries []models.Entry) ([]byte, error) {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entries: %w", err)
	}
	return data, nil
}

// Decode parses a blob. Empty input is an empty collection.
func Decode(kind models.Kind, data []byte) ([]models.Entry, error) {
	if len(data) == 0 {
		return []models.Entry{}, nil
	}
	var entries []models.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w (%s): %v", ErrDecode, kind, err)
	}
	for i := range entries {
		if entries[i].Kind == "" {
			entries[i].Kind = kind
		}
	}
	return entries, nil
}
