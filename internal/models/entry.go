package models

import (
	"fmt"
	"time"
)

// Kind identifies which collection an entry belongs to
type Kind string

const (
	KindWater   Kind = "water"
	KindWalking Kind = "walking"
)

// Kinds lists every entry kind in display order.
var Kinds = []Kind{KindWater, KindWalking}

// ParseKind converts a user supplied string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindWater, KindWalking:
		return Kind(s), nil
	case "walk":
		return KindWalking, nil
	}
	return "", fmt.Errorf("invalid kind: %q (expected water or walking)", s)
}

// Entry is a single timestamped water-intake or walking-duration record.
type Entry struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Value     float64   `json:"value"`     // milliliters for water, seconds for walking
	Timestamp time.Time `json:"timestamp"` // set by the store at insertion
}

// Goals holds the daily targets progress is measured against.
type Goals struct {
	WaterML    float64 `json:"water_ml"`
	WalkingSec float64 `json:"walking_sec"`
}

// For returns the goal for the given kind.
func (g Goals) For(kind Kind) float64 {
	if kind == KindWater {
		return g.WaterML
	}
	return g.WalkingSec
}

// Snapshot is a point-in-time copy of both collections and the goals.
type Snapshot struct {
	Water   []Entry
	Walking []Entry
	Goals   Goals
}

// Entries returns the collection for the given kind.
func (s Snapshot) Entries(kind Kind) []Entry {
	if kind == KindWater {
		return s.Water
	}
	return s.Walking
}
