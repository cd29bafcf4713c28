package conf

import (
	"os"
	"strconv"
	"time"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
)

// Config represents application configuration
type Config struct {
	// Matrix configuration
	Matrix MatrixConfig

	// GitHub project board configuration
	GitHub GitHubConfig

	// Reminder schedule configuration
	Reminder ReminderConfig

	// Initials maps uppercased initials to Matrix user ids
	Initials map[string]string

	// Port for the supervision HTTP server
	APIPort int

	// Debug mode
	Debug bool
}

// MatrixConfig contains homeserver connection configuration
type MatrixConfig struct {
	HomeserverURL string
	AccessToken   string
	NoticeRoom    string // room alias or room id the bot is scoped to
}

// GitHubConfig contains project board configuration
type GitHubConfig struct {
	Token        string
	ProjectOwner string // organization owning the project
	ProjectID    string // trailing path segment of the project html_url
	ColumnName   string // column holding the action cards
}

// ReminderConfig contains the weekly reminder schedule
type ReminderConfig struct {
	Hour          int       // hour of day the reminder may fire (0-23)
	StartDate     time.Time // recurrence anchor; zero disables reminders
	IntervalWeeks int       // week stride of the recurrence
	CooldownDays  int       // minimum days between two reminders
	TickMinutes   int       // scheduler check cadence
}

// Enabled reports whether the reminder schedule is configured
func (c *ReminderConfig) Enabled() bool {
	return !c.StartDate.IsZero()
}

// ToRecurrence converts to the domain recurrence rule
func (c *ReminderConfig) ToRecurrence() domain.Recurrence {
	return domain.Recurrence{
		Start:         c.StartDate,
		IntervalWeeks: c.IntervalWeeks,
		Hour:          c.Hour,
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	var envErr error
	intEnv := func(key string, fallback int) int {
		val, err := envInt(key, fallback)
		if err != nil && envErr == nil {
			envErr = err
		}
		return val
	}

	cfg := &Config{
		Matrix: MatrixConfig{
			HomeserverURL: os.Getenv("HOMESERVER_URL"),
			AccessToken:   os.Getenv("ACCESS_TOKEN"),
			NoticeRoom:    os.Getenv("NOTICE_ROOM"),
		},
		GitHub: GitHubConfig{
			Token:        os.Getenv("GITHUB_TOKEN"),
			ProjectOwner: os.Getenv("PROJECT_OWNER"),
			ProjectID:    os.Getenv("PROJECT_ID"),
			ColumnName:   envOr("COLUMN_NAME", "Actions"),
		},
		Reminder: ReminderConfig{
			Hour:          intEnv("REMINDER_HOUR", 11),
			IntervalWeeks: intEnv("REMINDER_INTERVAL_WEEKS", 2),
			CooldownDays:  intEnv("REMINDER_COOLDOWN_DAYS", 5),
			TickMinutes:   intEnv("REMINDER_TICK_MINUTES", 30),
		},
		APIPort: intEnv("API_PORT", 9876),
		Debug:   os.Getenv("DEBUG") == "true",
	}
	if envErr != nil {
		return nil, envErr
	}

	if val := os.Getenv("REMINDER_START_DATE"); val != "" {
		start, err := time.ParseInLocation("2006-01-02", val, time.Local)
		if err != nil {
			return nil, &ConfigError{Field: "REMINDER_START_DATE", Message: "expected YYYY-MM-DD: " + err.Error()}
		}
		cfg.Reminder.StartDate = start
	}

	initials, err := LoadInitials(os.Getenv("INITIALS_PATH"))
	if err != nil {
		return nil, err
	}
	cfg.Initials = initials

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Matrix.HomeserverURL == "" {
		return &ConfigError{Field: "HOMESERVER_URL", Message: "required"}
	}
	if c.Matrix.AccessToken == "" {
		return &ConfigError{Field: "ACCESS_TOKEN", Message: "required"}
	}
	if c.Matrix.NoticeRoom == "" {
		return &ConfigError{Field: "NOTICE_ROOM", Message: "required"}
	}
	if c.GitHub.ProjectOwner == "" {
		return &ConfigError{Field: "PROJECT_OWNER", Message: "required"}
	}
	if c.GitHub.ProjectID == "" {
		return &ConfigError{Field: "PROJECT_ID", Message: "required"}
	}
	if c.GitHub.ColumnName == "" {
		return &ConfigError{Field: "COLUMN_NAME", Message: "required"}
	}
	if c.Reminder.Hour < 0 || c.Reminder.Hour > 23 {
		return &ConfigError{Field: "REMINDER_HOUR", Message: "must be between 0 and 23"}
	}
	if c.Reminder.IntervalWeeks <= 0 {
		return &ConfigError{Field: "REMINDER_INTERVAL_WEEKS", Message: "must be positive"}
	}
	if c.Reminder.CooldownDays <= 0 {
		return &ConfigError{Field: "REMINDER_COOLDOWN_DAYS", Message: "must be positive"}
	}
	if c.Reminder.TickMinutes < 1 || c.Reminder.TickMinutes > 59 {
		return &ConfigError{Field: "REMINDER_TICK_MINUTES", Message: "must be between 1 and 59"}
	}
	return nil
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, &ConfigError{Field: key, Message: "expected an integer, got " + strconv.Quote(val)}
	}
	return parsed, nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
