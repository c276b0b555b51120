package models

import "time"

// Settings represents the persisted goal and reminder configuration
type Settings struct {
	DailyWaterGoal          float64 `json:"daily_water_goal"`         // ml
	DailyWalkingGoal        float64 `json:"daily_walking_goal"`       // seconds
	WaterInterval           float64 `json:"water_interval"`           // seconds between water reminders
	WalkingInterval         float64 `json:"walking_interval"`         // seconds between walking reminders
	WaterReminderEnabled    bool    `json:"water_reminder_enabled"`   // whether water reminders are scheduled
	WalkingReminderEnabled  bool    `json:"walking_reminder_enabled"` // whether walking reminders are scheduled
	NotificationsAuthorized bool    `json:"notifications_authorized"` // whether the user granted reminder delivery
}

// Goals extracts the goal pair.
func (s Settings) Goals() Goals {
	return Goals{WaterML: s.DailyWaterGoal, WalkingSec: s.DailyWalkingGoal}
}

// Interval returns the reminder interval for the kind.
func (s Settings) Interval(kind Kind) time.Duration {
	sec := s.WalkingInterval
	if kind == KindWater {
		sec = s.WaterInterval
	}
	return time.Duration(sec * float64(time.Second))
}

// ReminderEnabled returns the toggle for the kind.
func (s Settings) ReminderEnabled(kind Kind) bool {
	if kind == KindWater {
		return s.WaterReminderEnabled
	}
	return s.WalkingReminderEnabled
}
