package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName           = "healthydesk"
	DefaultConfigPath = "~/.config/healthydesk/config.yaml"
	DefaultDataPath   = "~/.config/healthydesk/healthydesk.db"
	Version           = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "healthydesk-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "healthydesk-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.healthydesk"
	TrayProcessPrefix      = "healthydesk-tray"
	TraySecretHeader       = "X-Healthydesk-Secret"

	// Stats constants
	DefaultLookbackDays   = 30
	DefaultRecentLimit    = 5
	WeekDays              = 7
	StreakModeToday       = "today"
	StreakModeConsecutive = "consecutive"
)

// Session States
const (
	StateToday SessionState = iota
	StateWeek
	StateRecent
	StateAddWater
	StateAddWalk
)
