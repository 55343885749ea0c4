package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigResolvesEnvReferences(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "gk-123")

	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"name": "aura",
		"matrix": {"homeserver": "http://synapse:8008", "user_id": "aura"},
		"llm": {"gemini": {"model": "gemini-2.5-flash", "api_key": "$TEST_GEMINI_KEY"}},
		"state_path": "/data/habit-data.json"
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.Gemini.APIKey != "gk-123" {
		t.Errorf("APIKey = %q, want resolved env value", cfg.LLM.Gemini.APIKey)
	}
	if cfg.StatePath != "/data/habit-data.json" {
		t.Errorf("StatePath = %q", cfg.StatePath)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nope/missing.json"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestReminderDelayDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", 2 * time.Second},
		{"5s", 5 * time.Second},
		{"0s", 0},
		{"bogus", 2 * time.Second},
	}
	for _, tt := range tests {
		cfg := &Config{ReminderDelay: tt.raw}
		if got := cfg.ReminderDelayDuration(); got != tt.want {
			t.Errorf("ReminderDelayDuration(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
