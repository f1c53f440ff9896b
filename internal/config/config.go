package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service needs at startup.
type Config struct {
	Server ServerConfig
	Twilio TwilioConfig
	AI     AIConfig
	Diary  DiaryConfig
}

// Load reads configuration from environment variables. Missing required
// credentials are an error; the process must refuse to start without them.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	twilio, err := loadTwilioConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	diary, err := loadDiaryConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Twilio: twilio, AI: ai, Diary: diary}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// TwilioConfig holds the messaging provider credentials and the sandbox
// number whose conversation is monitored.
type TwilioConfig struct {
	AccountSID    string
	AuthToken     string
	SandboxNumber string
	BaseURL       string
}

func loadTwilioConfig() (TwilioConfig, error) {
	cfg := TwilioConfig{
		AccountSID:    strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
		AuthToken:     strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")),
		SandboxNumber: strings.TrimSpace(os.Getenv("TWILIO_SANDBOX_NUMBER")),
		BaseURL:       getEnvOrDefault("TWILIO_BASE_URL", "https://api.twilio.com"),
	}

	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return TwilioConfig{}, fmt.Errorf("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN are required")
	}
	if cfg.SandboxNumber == "" {
		return TwilioConfig{}, fmt.Errorf("TWILIO_SANDBOX_NUMBER is required")
	}

	return cfg, nil
}

// AIConfig describes the text-generation model.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	MaxTokens   *int
}

// Enabled reports whether the required model credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("model credentials missing: set ARK_API_KEY (or AK/SK pair) and ARK_MODEL")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	cfg := AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	if !cfg.Enabled() {
		return AIConfig{}, fmt.Errorf("model credentials missing: set ARK_API_KEY (or AK/SK pair) and ARK_MODEL")
	}

	return cfg, nil
}

// DiaryConfig controls the aggregation pipeline and the record store.
type DiaryConfig struct {
	DBPath     string
	Window     time.Duration
	FetchLimit int
}

func loadDiaryConfig() (DiaryConfig, error) {
	window := 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("DIARY_WINDOW")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return DiaryConfig{}, fmt.Errorf("invalid DIARY_WINDOW value %q: %w", raw, err)
		}
		if parsed <= 0 {
			return DiaryConfig{}, fmt.Errorf("DIARY_WINDOW must be positive, got %q", raw)
		}
		window = parsed
	}

	limit := 50
	if override, err := parseOptionalIntEnv("DIARY_FETCH_LIMIT"); err != nil {
		return DiaryConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return DiaryConfig{}, fmt.Errorf("DIARY_FETCH_LIMIT must be at least 1")
		}
		limit = *override
	}

	return DiaryConfig{
		DBPath:     getEnvOrDefault("DIARY_DB_PATH", "diary.db"),
		Window:     window,
		FetchLimit: limit,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
