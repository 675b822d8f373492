package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/generation"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Redis
	RedisURL string

	// JWT
	JWTSecret  string
	SessionTTL time.Duration

	// Generation
	GenerationProvider   string
	GeminiAPIKeys        []string
	OpenAIAPIKeys        []string
	OpenAIBaseURL        string
	AnthropicAPIKeys     []string
	AnthropicBaseURL     string
	GeminiConcurrentReqs int
	Tiers                []generation.Tier
	RotationPolicy       generation.RotationPolicy
	TierPause            time.Duration
	AttemptTimeout       time.Duration
	TranscriptionModel   string

	// Uploads
	MaxUploadBytes int64

	// Workers
	WorkerCount int

	// Frontend
	FrontendURL string
}

// Load reads the full server configuration. Missing required variables
// and malformed generation settings panic.
func Load() *Config {
	cfg, err := LoadGeneration()
	if err != nil {
		panic(err.Error())
	}

	cfg.RedisURL = mustGetEnv("REDIS_URL")
	cfg.JWTSecret = mustGetEnv("JWT_SECRET")
	return cfg
}

// LoadGeneration reads everything except the server secrets, so the CLI
// can run without Redis or JWT settings.
func LoadGeneration() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		JWTSecret:            getEnvOrDefault("JWT_SECRET", ""),
		SessionTTL:           getEnvAsDurationOrDefault("SESSION_TTL", 6*time.Hour),
		GenerationProvider:   getEnvOrDefault("GENERATION_PROVIDER", "gemini"),
		GeminiAPIKeys:        loadKeys("GEMINI_API_KEY"),
		OpenAIAPIKeys:        loadKeys("OPENAI_API_KEY"),
		OpenAIBaseURL:        getEnvOrDefault("OPENAI_BASE_URL", ""),
		AnthropicAPIKeys:     loadKeys("ANTHROPIC_API_KEY"),
		AnthropicBaseURL:     getEnvOrDefault("ANTHROPIC_BASE_URL", ""),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		TierPause:            getEnvAsDurationOrDefault("GENERATION_TIER_PAUSE", time.Second),
		AttemptTimeout:       getEnvAsDurationOrDefault("GENERATION_ATTEMPT_TIMEOUT", 60*time.Second),
		TranscriptionModel:   getEnvOrDefault("TRANSCRIPTION_MODEL", "gemini-2.5-flash"),
		MaxUploadBytes:       int64(getEnvAsIntOrDefault("MAX_UPLOAD_BYTES", 10<<20)),
		WorkerCount:          getEnvAsIntOrDefault("WORKER_COUNT", 4),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	switch cfg.GenerationProvider {
	case "gemini", "openai", "anthropic":
	default:
		return nil, fmt.Errorf("GENERATION_PROVIDER must be gemini, openai or anthropic, got %q", cfg.GenerationProvider)
	}

	cfg.Tiers = generation.DefaultTiersFor(cfg.GenerationProvider)
	if raw := os.Getenv("GENERATION_TIERS"); raw != "" {
		tiers, err := generation.ParseTiers(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid GENERATION_TIERS: %w", err)
		}
		cfg.Tiers = tiers
	}

	policy, err := generation.ParseRotationPolicy(os.Getenv("GENERATION_ROTATION_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid GENERATION_ROTATION_POLICY: %w", err)
	}
	cfg.RotationPolicy = policy

	return cfg, nil
}

// Credentials returns the API keys of the selected provider, in rotation
// order.
func (c *Config) Credentials() []string {
	switch c.GenerationProvider {
	case "openai":
		return c.OpenAIAPIKeys
	case "anthropic":
		return c.AnthropicAPIKeys
	default:
		return c.GeminiAPIKeys
	}
}

func (c *Config) BaseURL() string {
	switch c.GenerationProvider {
	case "openai":
		return c.OpenAIBaseURL
	case "anthropic":
		return c.AnthropicBaseURL
	default:
		return ""
	}
}

// loadKeys reads PREFIX_1, PREFIX_2, ... until the first gap, falling back
// to the single PREFIX variable when no numbered key is set.
func loadKeys(prefix string) []string {
	var keys []string
	for i := 1; ; i++ {
		val := os.Getenv(fmt.Sprintf("%s_%d", prefix, i))
		if val == "" {
			break
		}
		keys = append(keys, val)
	}
	if len(keys) == 0 {
		if val := os.Getenv(prefix); val != "" {
			keys = append(keys, val)
		}
	}
	return keys
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
