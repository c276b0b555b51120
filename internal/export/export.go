// Package export writes every recorded entry as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/healthydesk/internal/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q (expected csv or json)", s)
}

var csvHeader = []string{"id", "kind", "value", "unit", "timestamp", "local_date"}

func unit(kind models.Kind) string {
	if kind == models.KindWater {
		return "ml"
	}
	return "s"
}

// sorted merges both kinds oldest first.
func sorted(snap models.Snapshot) []models.Entry {
	all := make([]models.Entry, 0, len(snap.Water)+len(snap.Walking))
	all = append(all, snap.Water...)
	all = append(all, snap.Walking...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	return all
}

// Write renders snap's entries to w. Local dates use loc.
func Write(w io.Writer, format Format, snap models.Snapshot, loc *time.Location) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, snap, loc)
	case FormatJSON:
		return writeJSON(w, snap)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func writeCSV(w io.Writer, snap models.Snapshot, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range sorted(snap) {
		record := []string{
			e.ID,
			string(e.Kind),
			models.FormatScalar(e.Value),
			unit(e.Kind),
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Timestamp.In(loc).Format("2006-01-02"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type document struct {
	ExportedAt time.Time      `json:"exported_at"`
	Goals      models.Goals   `json:"goals"`
	Entries    []models.Entry `json:"entries"`
}

func writeJSON(w io.Writer, snap models.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(document{
		ExportedAt: time.Now().UTC(),
		Goals:      snap.Goals,
		Entries:    sorted(snap),
	})
}
