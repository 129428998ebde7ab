package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env files into the
// process environment. Missing files are skipped; existing variables
// are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides config values from environment variables.
// Falls back to the current values if variables are not set.
func ApplyEnv(c *Config) {
	c.Server.Addr = getEnvString("SMTD_ADDR", c.Server.Addr)
	c.Server.DataDir = getEnvString("SMTD_DATA_DIR", c.Server.DataDir)
	c.Server.LogLevel = getEnvString("SMTD_LOG_LEVEL", c.Server.LogLevel)
	c.Server.ShutdownTimeout = getEnvDuration("SMTD_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Store.Backend = getEnvString("SMTD_STORE", c.Store.Backend)
	c.Store.Key = getEnvString("SMTD_STORE_KEY", c.Store.Key)
	c.Store.Path = getEnvString("SMTD_STORE_PATH", c.Store.Path)
	c.Store.RedisURL = getEnvString("SMTD_REDIS_URL", c.Store.RedisURL)

	c.Game.Timezone = getEnvString("SMTD_TIMEZONE", c.Game.Timezone)
	if mode := os.Getenv("SMTD_DIFFICULTY"); mode != "" && mode != c.Game.Difficulty {
		// Switching preset replaces tuned values.
		c.Game.Difficulty = mode
		c.Game.Balance = Preset(mode)
	}
	if val := getEnvInt("SMTD_SEED"); val > 0 {
		c.Game.Seed = uint64(val)
	}

	c.Navigator.APIKey = getEnvString("GEMINI_API_KEY", c.Navigator.APIKey)
	c.Navigator.Model = getEnvString("GEMINI_MODEL", c.Navigator.Model)
	c.Navigator.Timeout = getEnvDuration("SMTD_NAVIGATOR_TIMEOUT", c.Navigator.Timeout)

	c.Slack.BotToken = getEnvString("SLACK_BOT_TOKEN", c.Slack.BotToken)
	c.Slack.Channel = getEnvString("SLACK_CHANNEL", c.Slack.Channel)
	c.Slack.CronSecret = getEnvString("CRON_SECRET", c.Slack.CronSecret)
	c.Slack.Enabled = getEnvBool("SMTD_SLACK_ENABLED", c.Slack.Enabled)
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvString(key, defaultVal string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
