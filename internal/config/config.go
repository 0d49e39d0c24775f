package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full server configuration, loaded from a YAML file with
// ${ENV_VAR} expansion. Secrets (API key, auth project) normally come from
// the environment rather than the file itself.
type Config struct {
	Port int `yaml:"port"`

	App struct {
		BaseURL string `yaml:"baseURL"`
	} `yaml:"app"`

	Gemini struct {
		APIKey    string `yaml:"apiKey"`
		Model     string `yaml:"model"`
		LiveModel string `yaml:"liveModel"`
	} `yaml:"gemini"`

	Auth struct {
		FirebaseProjectID string `yaml:"firebaseProjectID"`
	} `yaml:"auth"`

	Live struct {
		SetupTimeoutSeconds    int `yaml:"setupTimeoutSeconds"`
		SessionTimeLimitSecond int `yaml:"sessionTimeLimitSeconds"`
		InputSampleRate        int `yaml:"inputSampleRate"`
	} `yaml:"live"`

	Database struct {
		SQLitePath string `yaml:"sqlitePath"`
	} `yaml:"database"`

	Reminder struct {
		Enabled        string `yaml:"enabled"`
		Schedule       string `yaml:"schedule"`
		PushGatewayURL string `yaml:"pushGatewayURL"`
	} `yaml:"reminder"`
}

// Load reads the config file at path, expands environment variables, and
// applies defaults. A missing file is not an error: the defaults plus
// environment variables are enough to run.
func Load(path string) (Config, error) {
	var c Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return c, fmt.Errorf("read config: %w", err)
			}
		} else {
			if err := LoadFromBytes(data, &c); err != nil {
				return c, err
			}
		}
	}
	c.applyDefaults()
	return c, nil
}

// LoadFromBytes loads configuration from YAML bytes with environment
// variable expansion.
func LoadFromBytes(data []byte, c *Config) error {
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = envInt("PORT", 8080)
	}
	if c.Gemini.APIKey == "" {
		c.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = envString("GEMINI_MODEL", "gemini-2.5-flash")
	}
	if c.Gemini.LiveModel == "" {
		c.Gemini.LiveModel = envString("LIVE_MODEL", "gemini-2.5-flash-native-audio-preview-12-2025")
	}
	if c.Auth.FirebaseProjectID == "" {
		c.Auth.FirebaseProjectID = os.Getenv("FIREBASE_PROJECT_ID")
	}
	if c.Live.SetupTimeoutSeconds == 0 {
		c.Live.SetupTimeoutSeconds = 15
	}
	if c.Live.SessionTimeLimitSecond == 0 {
		c.Live.SessionTimeLimitSecond = envInt("SESSION_TIME_LIMIT", 600)
	}
	if c.Live.InputSampleRate == 0 {
		c.Live.InputSampleRate = 16000
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = envString("SQLITE_PATH", "./data/cookai.db")
	}
	if c.Reminder.Schedule == "" {
		c.Reminder.Schedule = "*/15 * * * *"
	}
	if c.App.BaseURL == "" {
		c.App.BaseURL = strings.TrimRight(envString("APP_BASE_URL", "https://cooking-ai.netlify.app"), "/")
	}
}

// SetupTimeout returns the handshake wait as a duration.
func (c Config) SetupTimeout() time.Duration {
	return time.Duration(c.Live.SetupTimeoutSeconds) * time.Second
}

// SessionTimeLimit returns the hard per-session deadline as a duration.
func (c Config) SessionTimeLimit() time.Duration {
	return time.Duration(c.Live.SessionTimeLimitSecond) * time.Second
}

// IsReminderEnabled reports whether the cron reminder dispatcher should run.
func (c Config) IsReminderEnabled() bool {
	return parseBool(c.Reminder.Enabled, true)
}

// parseBool parses a string as boolean with a default value.
// Accepts "true", "1", "yes" as true; empty returns the default.
func parseBool(s string, defaultVal bool) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return defaultVal
	}
	return s == "true" || s == "1" || s == "yes"
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return defaultVal
	}
	return n
}
