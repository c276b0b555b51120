package validation

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictGoalOutOfRange     ConflictType = "goal_out_of_range"
	ConflictIntervalOutOfRange ConflictType = "interval_out_of_range"
	ConflictDuplicateEntryID   ConflictType = "duplicate_entry_id"
	ConflictInvalidEntryValue  ConflictType = "invalid_entry_value"
	ConflictFutureEntry        ConflictType = "future_entry"
	ConflictKindMismatch       ConflictType = "kind_mismatch"
)

// Conflict represents a problem found in settings or entries
type Conflict struct {
	Type        ConflictType
	Description string
	IDs         []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

func (vr *ValidationResult) add(t ConflictType, ids []string, format string, args ...any) {
	vr.Conflicts = append(vr.Conflicts, Conflict{Type: t, Description: fmt.Sprintf(format, args...), IDs: ids})
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// CheckWaterGoal validates a daily water goal in milliliters.
func CheckWaterGoal(ml float64) error {
	if !inRange(ml, constants.MinWaterGoalML, constants.MaxWaterGoalML) {
		return fmt.Errorf("water goal must be between %.0f and %.0f ml, got %v", constants.MinWaterGoalML, constants.MaxWaterGoalML, ml)
	}
	return nil
}

// CheckWalkingGoal validates a daily walking goal in minutes.
func CheckWalkingGoal(minutes float64) error {
	if !inRange(minutes, constants.MinWalkingGoalMin, constants.MaxWalkingGoalMin) {
		return fmt.Errorf("walking goal must be between %.0f and %.0f minutes, got %v", constants.MinWalkingGoalMin, constants.MaxWalkingGoalMin, minutes)
	}
	return nil
}

// CheckInterval validates a reminder interval in minutes for kind.
func CheckInterval(kind models.Kind, minutes float64) error {
	lo, hi := constants.MinWalkingIntervalMin, constants.MaxWalkingIntervalMin
	if kind == models.KindWater {
		lo, hi = constants.MinWaterIntervalMin, constants.MaxWaterIntervalMin
	}
	if !inRange(minutes, lo, hi) {
		return fmt.Errorf("%s reminder interval must be between %.0f and %.0f minutes, got %v", kind, lo, hi, minutes)
	}
	return nil
}

// ValidateSettings checks persisted goals and intervals against the accepted ranges.
func ValidateSettings(s models.Settings) ValidationResult {
	var vr ValidationResult

	if err := CheckWaterGoal(s.DailyWaterGoal); err != nil {
		vr.add(ConflictGoalOutOfRange, nil, "%v", err)
	}
	if err := CheckWalkingGoal(s.DailyWalkingGoal / 60); err != nil {
		vr.add(ConflictGoalOutOfRange, nil, "%v", err)
	}
	for _, kind := range models.Kinds {
		if err := CheckInterval(kind, s.Interval(kind).Minutes()); err != nil {
			vr.add(ConflictIntervalOutOfRange, nil, "%v", err)
		}
	}
	return vr
}

// ValidateEntries checks loaded collections for corruption that decoding alone does not catch.
func ValidateEntries(snap models.Snapshot, now time.Time) ValidationResult {
	var vr ValidationResult
	seen := make(map[string]models.Kind)

	for _, kind := range models.Kinds {
		for _, e := range snap.Entries(kind) {
			if prev, ok := seen[e.ID]; ok {
				vr.add(ConflictDuplicateEntryID, []string{e.ID}, "entry ID %s appears in %s and %s", e.ID, prev, kind)
			}
			seen[e.ID] = kind

			if e.Kind != kind {
				vr.add(ConflictKindMismatch, []string{e.ID}, "entry %s is stored as %s but marked %s", e.ID, kind, e.Kind)
			}
			if e.Value < 0 || math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
				vr.add(ConflictInvalidEntryValue, []string{e.ID}, "entry %s has invalid value %v", e.ID, e.Value)
			}
			if e.Timestamp.After(now) {
				vr.add(ConflictFutureEntry, []string{e.ID}, "entry %s is timestamped in the future (%s)", e.ID, e.Timestamp.Format(time.RFC3339))
			}
		}
	}
	return vr
}
