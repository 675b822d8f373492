package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/generation"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}

func TestGetEnvAsDurationOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal time.Duration
		expected   time.Duration
	}{
		{"parses duration", "TEST_DUR_1", "250ms", time.Second, 250 * time.Millisecond},
		{"uses default for empty", "TEST_DUR_2", "", time.Second, time.Second},
		{"uses default for garbage", "TEST_DUR_3", "soon", time.Second, time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			result := getEnvAsDurationOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, result)
			}
		})
	}
}

func TestLoadKeys(t *testing.T) {
	t.Run("numbered keys until first gap", func(t *testing.T) {
		t.Setenv("TESTKEY_1", "a")
		t.Setenv("TESTKEY_2", "b")
		t.Setenv("TESTKEY_4", "d")
		t.Setenv("TESTKEY", "single")

		if got := loadKeys("TESTKEY"); !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Errorf("Expected [a b], got %v", got)
		}
	})

	t.Run("falls back to single key", func(t *testing.T) {
		t.Setenv("OTHERKEY", "single")
		if got := loadKeys("OTHERKEY"); !reflect.DeepEqual(got, []string{"single"}) {
			t.Errorf("Expected [single], got %v", got)
		}
	})

	t.Run("none", func(t *testing.T) {
		if got := loadKeys("MISSINGKEY"); len(got) != 0 {
			t.Errorf("Expected no keys, got %v", got)
		}
	})
}

func TestLoadGeneration(t *testing.T) {
	t.Setenv("GENERATION_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY_1", "sk-1")
	t.Setenv("OPENAI_API_KEY_2", "sk-2")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:1234/v1")
	t.Setenv("GENERATION_TIERS", "gpt-4o-mini|cheap|1024,gpt-4o")
	t.Setenv("GENERATION_ROTATION_POLICY", "next_tier")

	cfg, err := LoadGeneration()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Credentials(), []string{"sk-1", "sk-2"}) {
		t.Errorf("Unexpected credentials %v", cfg.Credentials())
	}
	if cfg.BaseURL() != "http://localhost:1234/v1" {
		t.Errorf("Unexpected base URL %q", cfg.BaseURL())
	}
	if len(cfg.Tiers) != 2 || cfg.Tiers[0].MaxOutputTokens != 1024 {
		t.Errorf("Unexpected tiers %+v", cfg.Tiers)
	}
	if cfg.RotationPolicy != generation.RotationNextTier {
		t.Errorf("Expected next_tier, got %q", cfg.RotationPolicy)
	}
}

func TestLoadGeneration_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"GENERATION_PROVIDER", "llama"},
		{"GENERATION_TIERS", "a|b|c"},
		{"GENERATION_ROTATION_POLICY", "random"},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := LoadGeneration(); err == nil {
				t.Errorf("Expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoadGeneration_ProviderDefaultTiers(t *testing.T) {
	tests := []struct {
		provider string
		firstID  string
	}{
		{"gemini", "gemini-2.5-flash-lite"},
		{"openai", "gpt-4o-mini"},
		{"anthropic", "claude-3-5-haiku-latest"},
	}

	for _, tc := range tests {
		t.Run(tc.provider, func(t *testing.T) {
			t.Setenv("GENERATION_PROVIDER", tc.provider)
			t.Setenv("GENERATION_TIERS", "")

			cfg, err := LoadGeneration()
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(cfg.Tiers) == 0 || cfg.Tiers[0].ID != tc.firstID {
				t.Fatalf("Expected first tier %q, got %+v", tc.firstID, cfg.Tiers)
			}
			if tc.provider != "gemini" {
				for _, tier := range cfg.Tiers {
					if strings.HasPrefix(tier.ID, "gemini") {
						t.Errorf("Expected no Gemini model for %s, got %q", tc.provider, tier.ID)
					}
				}
			}
		})
	}
}
