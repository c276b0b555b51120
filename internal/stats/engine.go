// Package stats derives daily totals, weekly series, streaks and
// achievement counts from an entries snapshot. Every method is a pure
// function of the snapshot and a reference time.
package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
)

type StreakMode string

const (
	// StreakToday is 1 when the kind has any activity today, else 0.
	StreakToday StreakMode = constants.StreakModeToday
	// StreakConsecutive counts days ending today on which the goal was met.
	StreakConsecutive StreakMode = constants.StreakModeConsecutive
)

// ParseStreakMode converts a configuration value into a StreakMode.
func ParseStreakMode(s string) (StreakMode, error) {
	switch StreakMode(s) {
	case StreakToday, StreakConsecutive:
		return StreakMode(s), nil
	case "":
		return StreakConsecutive, nil
	}
	return "", fmt.Errorf("invalid streak mode %q (expected %s or %s)", s, StreakConsecutive, StreakToday)
}

type Option func(*Engine)

func WithStreakMode(mode StreakMode) Option {
	return func(e *Engine) { e.streakMode = mode }
}

type Engine struct {
	loc        *time.Location
	streakMode StreakMode
}

// New returns an engine bucketing days in loc. A nil loc means time.Local.
func New(loc *time.Location, opts ...Option) *Engine {
	if loc == nil {
		loc = time.Local
	}
	e := &Engine{loc: loc, streakMode: StreakConsecutive}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) StreakMode() StreakMode { return e.streakMode }

// DayStart returns the first instant of t's calendar day in loc. That is
// local midnight, or the end of the DST gap when midnight does not exist.
func DayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return startOfDate(date{y, m, d}, loc)
}

func startOfDate(c date, loc *time.Location) time.Time {
	for h := 0; h < 24; h++ {
		// a missing midnight can normalize into the previous day
		if t := time.Date(c.year, c.month, c.day, h, 0, 0, 0, loc); t.Day() == c.day {
			return t
		}
	}
	return time.Date(c.year, c.month, c.day, 12, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return dateOf(a, loc) == dateOf(b, loc)
}

// date is a civil calendar day, the bucket key for daily totals.
type date struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time, loc *time.Location) date {
	y, m, d := t.In(loc).Date()
	return date{y, m, d}
}

// addDays steps n calendar days from c, normalizing month and year overflow.
func addDays(c date, n int) date {
	y, m, d := time.Date(c.year, c.month, c.day+n, 12, 0, 0, 0, time.UTC).Date()
	return date{y, m, d}
}

func Clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (e *Engine) dayTotal(list []models.Entry, day time.Time) float64 {
	total := 0.0
	for _, entry := range list {
		if SameDay(entry.Timestamp, day, e.loc) {
			total += entry.Value
		}
	}
	return total
}

// dailyTotals sums a collection by local calendar day.
func (e *Engine) dailyTotals(list []models.Entry) map[date]float64 {
	totals := make(map[date]float64)
	for _, entry := range list {
		totals[dateOf(entry.Timestamp, e.loc)] += entry.Value
	}
	return totals
}

// DailyStats sums each kind over ref's local calendar day.
func (e *Engine) DailyStats(snap models.Snapshot, ref time.Time) models.DailyStats {
	return models.DailyStats{
		Date:        DayStart(ref, e.loc),
		WaterIntake: e.dayTotal(snap.Water, ref),
		WalkingTime: e.dayTotal(snap.Walking, ref),
		WaterGoal:   snap.Goals.WaterML,
		WalkingGoal: snap.Goals.WalkingSec,
	}
}

func progress(total, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return Clamp01(total / goal)
}

// WeeklySeries returns seven days ending on ref's day, oldest first.
func (e *Engine) WeeklySeries(snap models.Snapshot, ref time.Time) []models.DayStats {
	water := e.dailyTotals(snap.Water)
	walking := e.dailyTotals(snap.Walking)
	today := dateOf(ref, e.loc)

	series := make([]models.DayStats, 0, constants.WeekDays)
	for i := constants.WeekDays - 1; i >= 0; i-- {
		day := addDays(today, -i)
		start := startOfDate(day, e.loc)
		series = append(series, models.DayStats{
			Date:            start,
			Label:           start.Format("Mon"),
			WaterIntake:     water[day],
			WalkingTime:     walking[day],
			WaterProgress:   progress(water[day], snap.Goals.WaterML),
			WalkingProgress: progress(walking[day], snap.Goals.WalkingSec),
		})
	}
	return series
}

// Streak reports the kind's streak at ref according to the engine's mode.
func (e *Engine) Streak(snap models.Snapshot, kind models.Kind, ref time.Time) int {
	list := snap.Entries(kind)

	if e.streakMode == StreakToday {
		if e.dayTotal(list, ref) > 0 {
			return 1
		}
		return 0
	}

	goal := snap.Goals.For(kind)
	if goal <= 0 {
		return 0
	}
	totals := e.dailyTotals(list)
	streak := 0
	for day := dateOf(ref, e.loc); totals[day] >= goal; day = addDays(day, -1) {
		streak++
	}
	return streak
}

// AchievementDays counts days in the inclusive window [ref-(lookbackDays-1), ref]
// on which the kind's total reached its goal.
func (e *Engine) AchievementDays(snap models.Snapshot, kind models.Kind, lookbackDays int, ref time.Time) int {
	goal := snap.Goals.For(kind)
	if lookbackDays <= 0 || goal <= 0 {
		return 0
	}

	totals := e.dailyTotals(snap.Entries(kind))
	today := dateOf(ref, e.loc)
	count := 0
	for i := 0; i < lookbackDays; i++ {
		if totals[addDays(today, -i)] >= goal {
			count++
		}
	}
	return count
}

// RecentActivity merges both kinds newest first and keeps at most limit
// entries. A limit <= 0 keeps everything.
func (e *Engine) RecentActivity(snap models.Snapshot, limit int) []models.Entry {
	all := make([]models.Entry, 0, len(snap.Water)+len(snap.Walking))
	all = append(all, snap.Water...)
	all = append(all, snap.Walking...)

	sort.Slice(all, func(i, j int) bool {
		if all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].ID < all[j].ID
		}
		return all[i].Timestamp.After(all[j].Timestamp)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}
