package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/healthydesk/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	parseFloat := func(key, value string, dst *float64) error {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		*dst = f
		return nil
	}

	for key, value := range data {
		var err error
		switch key {
		case constants.SettingDailyWaterGoal:
			err = parseFloat(key, value, &settings.DailyWaterGoal)
		case constants.SettingDailyWalkingGoal:
			err = parseFloat(key, value, &settings.DailyWalkingGoal)
		case constants.SettingWaterInterval:
			err = parseFloat(key, value, &settings.WaterInterval)
		case constants.SettingWalkingInterval:
			err = parseFloat(key, value, &settings.WalkingInterval)
		case constants.SettingWaterReminderEnabled:
			settings.WaterReminderEnabled = value == "true"
		case constants.SettingWalkingReminderEnabled:
			settings.WalkingReminderEnabled = value == "true"
		case constants.SettingNotificationsAuthorized:
			settings.NotificationsAuthorized = value == "true"
		}
		if err != nil {
			return Settings{}, err
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingDailyWaterGoal:          FormatScalar(settings.DailyWaterGoal),
		constants.SettingDailyWalkingGoal:        FormatScalar(settings.DailyWalkingGoal),
		constants.SettingWaterInterval:           FormatScalar(settings.WaterInterval),
		constants.SettingWalkingInterval:         FormatScalar(settings.WalkingInterval),
		constants.SettingWaterReminderEnabled:    strconv.FormatBool(settings.WaterReminderEnabled),
		constants.SettingWalkingReminderEnabled:  strconv.FormatBool(settings.WalkingReminderEnabled),
		constants.SettingNotificationsAuthorized: strconv.FormatBool(settings.NotificationsAuthorized),
	}
}

// FormatScalar renders a float setting without losing precision.
func FormatScalar(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DefaultSettings returns the settings written on first initialization.
func DefaultSettings() Settings {
	return Settings{
		DailyWaterGoal:         constants.DefaultWaterGoalML,
		DailyWalkingGoal:       constants.DefaultWalkingGoalSec,
		WaterInterval:          constants.DefaultWaterIntervalSec,
		WalkingInterval:        constants.DefaultWalkingIntervalSec,
		WaterReminderEnabled:   constants.DefaultWaterReminderEnabled,
		WalkingReminderEnabled: constants.DefaultWalkingReminderEnabled,
	}
}

// ApplyDefaultSettings applies default values to missing settings. A stored
// value of zero means the setting was never configured.
func ApplyDefaultSettings(settings *Settings) {
	if settings.DailyWaterGoal <= 0 {
		settings.DailyWaterGoal = constants.DefaultWaterGoalML
	}
	if settings.DailyWalkingGoal <= 0 {
		settings.DailyWalkingGoal = constants.DefaultWalkingGoalSec
	}
	if settings.WaterInterval <= 0 {
		settings.WaterInterval = constants.DefaultWaterIntervalSec
	}
	if settings.WalkingInterval <= 0 {
		settings.WalkingInterval = constants.DefaultWalkingIntervalSec
	}
}
