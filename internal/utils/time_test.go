package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		want    string
		wantErr bool
	}{
		{name: "empty is local", tz: "", want: time.Local.String()},
		{name: "Local keyword", tz: "Local", want: time.Local.String()},
		{name: "UTC", tz: "UTC", want: "UTC"},
		{name: "IANA name", tz: "Europe/London", want: "Europe/London"},
		{name: "invalid", tz: "Mars/Olympus_Mons", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.tz)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.tz)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if loc.String() != tt.want {
				t.Errorf("LoadLocation(%q) = %s, want %s", tt.tz, loc, tt.want)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("America/New_York") {
		t.Error("expected America/New_York to be valid")
	}
	if ValidateTimezone("Not/AZone") {
		t.Error("expected Not/AZone to be invalid")
	}
}

func TestFormatters(t *testing.T) {
	if got := FormatMinutes(1799); got != "29min" {
		t.Errorf("FormatMinutes(1799) = %q", got)
	}
	if got := FormatMilliliters(1500.7); got != "1500ml" {
		t.Errorf("FormatMilliliters(1500.7) = %q", got)
	}
	if got := FormatPercent(1.05); got != "105%" {
		t.Errorf("FormatPercent(1.05) = %q", got)
	}

	ts := time.Date(2025, time.March, 9, 23, 59, 59, 0, time.UTC)
	if got := FormatDate(ts, time.UTC); got != "2025-03-09" {
		t.Errorf("FormatDate() = %q", got)
	}
	if got := FormatClock(ts, time.UTC); got != "23:59" {
		t.Errorf("FormatClock() = %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	if got := ExpandHome("~/.config/healthydesk/healthydesk.db"); got != filepath.Join(home, ".config", "healthydesk", "healthydesk.db") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/tmp/data.db"); got != "/tmp/data.db" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := ExpandHome("~other/data.db"); got != "~other/data.db" {
		t.Errorf("other-user path changed: %q", got)
	}
}
