package update

import (
	"os"
	"strconv"
	"strings"
)

type UIConfig struct {
	DayStartHour           int
	DayEndHour             int
	DefaultReminderMinutes int
}

func DefaultUIConfig() UIConfig {
	return UIConfig{
		DayStartHour:           6,
		DayEndHour:             22,
		DefaultReminderMinutes: 15,
	}
}

func UIConfigFromEnv(base UIConfig) UIConfig {
	cfg := base
	if v, ok := getEnvInt("WRANGLE_DAY_START_HOUR"); ok && v >= 0 && v < 24 {
		cfg.DayStartHour = v
	}
	if v, ok := getEnvInt("WRANGLE_DAY_END_HOUR"); ok && v > cfg.DayStartHour && v <= 24 {
		cfg.DayEndHour = v
	}
	if v, ok := getEnvInt("WRANGLE_DEFAULT_REMINDER_MINUTES"); ok && v >= 0 {
		cfg.DefaultReminderMinutes = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
