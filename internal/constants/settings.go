package constants

const (
	// Persisted settings keys
	SettingDailyWaterGoal          = "daily_water_goal"
	SettingDailyWalkingGoal        = "daily_walking_goal"
	SettingWaterInterval           = "water_interval"
	SettingWalkingInterval         = "walking_interval"
	SettingWaterReminderEnabled    = "water_reminder_enabled"
	SettingWalkingReminderEnabled  = "walking_reminder_enabled"
	SettingNotificationsAuthorized = "notifications_authorized"

	// Entry blob keys
	WaterEntriesKey   = "water_entries"
	WalkingEntriesKey = "walking_entries"

	// Default Settings Values
	DefaultWaterGoalML            = 2000.0
	DefaultWalkingGoalSec         = 1800.0
	DefaultWaterIntervalSec       = 3600.0
	DefaultWalkingIntervalSec     = 1800.0
	DefaultWaterReminderEnabled   = true
	DefaultWalkingReminderEnabled = true

	// Reminder horizons cover roughly 24h at the default intervals
	DefaultWaterHorizon   = 24
	DefaultWalkingHorizon = 48

	// Accepted ranges for user-edited settings
	MinWaterGoalML          = 500.0
	MaxWaterGoalML          = 4000.0
	MinWalkingGoalMin       = 15.0
	MaxWalkingGoalMin       = 120.0
	MinWaterIntervalMin     = 15.0
	MaxWaterIntervalMin     = 240.0
	MinWalkingIntervalMin   = 15.0
	MaxWalkingIntervalMin   = 120.0
	DefaultGracePeriodMin   = 10
	DefaultPollIntervalSecs = 30
)
