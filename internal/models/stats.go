package models

import "time"

// DailyStats aggregates a single local calendar day.
type DailyStats struct {
	Date        time.Time
	WaterIntake float64 // ml
	WalkingTime float64 // seconds
	WaterGoal   float64 // ml
	WalkingGoal float64 // seconds
}

// WaterProgress is intake divided by goal. It is not clamped.
func (d DailyStats) WaterProgress() float64 {
	if d.WaterGoal <= 0 {
		return 0
	}
	return d.WaterIntake / d.WaterGoal
}

// WalkingProgress is walking time divided by goal. It is not clamped.
func (d DailyStats) WalkingProgress() float64 {
	if d.WalkingGoal <= 0 {
		return 0
	}
	return d.WalkingTime / d.WalkingGoal
}

// DayStats is one bar of the weekly overview. Progress values are clamped to [0,1].
type DayStats struct {
	Date            time.Time
	Label           string
	WaterIntake     float64
	WalkingTime     float64
	WaterProgress   float64
	WalkingProgress float64
}
