package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds the daemon configuration.
type Config struct {
	// Identity
	Name string `json:"name"` // "aura"

	// Matrix channel
	Matrix MatrixConfig `json:"matrix"`

	// LLM providers
	LLM LLMConfig `json:"llm"`

	// YouTube video search (research tool)
	YouTube YouTubeConfig `json:"youtube"`

	// State file for habit/activity tracking
	StatePath string `json:"state_path"`

	// ReminderDelay is how long after a research reply the missed-habit
	// reminder fires. Go duration string, e.g. "2s".
	ReminderDelay string `json:"reminder_delay,omitempty"`

	// HTTP API (health, dashboard, events)
	HTTPAddr string `json:"http_addr,omitempty"`
}

// MatrixConfig holds Matrix connection settings.
type MatrixConfig struct {
	Homeserver   string   `json:"homeserver"`    // e.g., http://synapse:8008
	UserID       string   `json:"user_id"`       // localpart, e.g., "aura"
	Password     string   `json:"password"`      // bot password
	ServerName   string   `json:"server_name"`   // e.g., matrix.example.com
	AllowedUsers []string `json:"allowed_users"` // who can talk to Aura
	DataDir      string   `json:"data_dir"`      // persistent channel state
}

// LLMConfig holds LLM provider settings. Gemini is primary (and the
// only audio-capable provider); Anthropic is the text fallback.
type LLMConfig struct {
	Gemini    ProviderConfig `json:"gemini"`
	Anthropic ProviderConfig `json:"anthropic"`
}

// ProviderConfig holds settings for a single LLM provider.
type ProviderConfig struct {
	Model       string  `json:"model"`                 // e.g., "gemini-2.5-flash"
	APIKey      string  `json:"api_key"`               // can use env var reference: "$GEMINI_API_KEY"
	MaxOutput   int     `json:"max_output,omitempty"`  // max output tokens per request
	Temperature float64 `json:"temperature,omitempty"` // sampling temperature (0.0-1.0)
}

// YouTubeConfig holds video search settings. An empty key disables
// live search; the research tool then serves canned answers.
type YouTubeConfig struct {
	APIKey string `json:"api_key"`
}

// ReminderDelayDuration parses ReminderDelay, defaulting to 2s.
func (c *Config) ReminderDelayDuration() time.Duration {
	if c.ReminderDelay == "" {
		return 2 * time.Second
	}
	d, err := time.ParseDuration(c.ReminderDelay)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// LoadConfig reads config from a file path or environment.
// If path is empty, uses defaults suitable for container deployment.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Resolve env var references in all $-prefixed values
	cfg.Matrix.Homeserver = resolveEnv(cfg.Matrix.Homeserver)
	cfg.Matrix.UserID = resolveEnv(cfg.Matrix.UserID)
	cfg.Matrix.Password = resolveEnv(cfg.Matrix.Password)
	cfg.Matrix.ServerName = resolveEnv(cfg.Matrix.ServerName)
	cfg.LLM.Gemini.APIKey = resolveEnv(cfg.LLM.Gemini.APIKey)
	cfg.LLM.Anthropic.APIKey = resolveEnv(cfg.LLM.Anthropic.APIKey)
	cfg.YouTube.APIKey = resolveEnv(cfg.YouTube.APIKey)
	cfg.StatePath = resolveEnv(cfg.StatePath)

	return &cfg, nil
}

// resolveEnv replaces $ENV_VAR references with actual values.
func resolveEnv(s string) string {
	if len(s) > 1 && s[0] == '$' {
		if v := os.Getenv(s[1:]); v != "" {
			return v
		}
	}
	return s
}

// defaultConfig returns a config using environment variables,
// suitable for container deployment.
func defaultConfig() *Config {
	return &Config{
		Name: "aura",
		Matrix: MatrixConfig{
			Homeserver:   envOr("MATRIX_HOMESERVER", "http://synapse:8008"),
			UserID:       envOr("MATRIX_BOT_USER", "aura"),
			Password:     envOr("MATRIX_BOT_PASSWORD", ""),
			ServerName:   envOr("MATRIX_SERVER_NAME", "matrix.example.com"),
			AllowedUsers: []string{envOr("ALLOWED_USERS", "@admin:matrix.example.com")},
			DataDir:      envOr("AURA_DATA_DIR", "/data"),
		},
		LLM: LLMConfig{
			Gemini: ProviderConfig{
				Model:       "gemini-2.5-flash",
				APIKey:      os.Getenv("GEMINI_API_KEY"),
				MaxOutput:   2048,
				Temperature: 0.7,
			},
			Anthropic: ProviderConfig{
				Model:       "claude-sonnet-4-5",
				APIKey:      os.Getenv("ANTHROPIC_API_KEY"),
				MaxOutput:   2048,
				Temperature: 0.7,
			},
		},
		YouTube: YouTubeConfig{
			APIKey: os.Getenv("YOUTUBE_API_KEY"),
		},
		StatePath:     envOr("AURA_STATE_PATH", "/data/habit-data.json"),
		ReminderDelay: envOr("AURA_REMINDER_DELAY", "2s"),
		HTTPAddr:      envOr("AURA_HTTP_ADDR", ":8080"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
