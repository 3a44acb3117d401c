package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the API service
type Config struct {
	// Server
	Port         string        `envconfig:"PORT" default:"8080"`
	Environment  string        `envconfig:"GO_ENV" default:"development"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"0s"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// Comma separated; "*" allows any origin
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	Model     ModelConfig     `ignored:"true"`
	Tokenizer TokenizerConfig `ignored:"true"`

	// Observability
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Events
	NATSURL           string `envconfig:"NATS_URL"`
	NATSSubjectPrefix string `envconfig:"NATS_SUBJECT_PREFIX" default:"domaingen.generation"`
}

// ModelConfig describes the local inference backend serving the model.
type ModelConfig struct {
	Backend     string        `envconfig:"MODEL_BACKEND" default:"ollama"`
	BaseURL     string        `envconfig:"MODEL_BASE_URL" default:"http://localhost:11434"`
	Name        string        `envconfig:"MODEL_NAME" default:"model_v1"`
	APIKey      string        `envconfig:"MODEL_API_KEY"`
	Device      string        `envconfig:"MODEL_DEVICE" default:"auto"`
	Temperature float64       `envconfig:"MODEL_TEMPERATURE" default:"1.0"`
	TopP        float64       `envconfig:"MODEL_TOP_P" default:"1.0"`
	TopK        int           `envconfig:"MODEL_TOP_K" default:"50"`
	Timeout     time.Duration `envconfig:"MODEL_TIMEOUT" default:"0s"`
}

// TokenizerConfig controls prompt truncation.
type TokenizerConfig struct {
	Encoding       string `envconfig:"TOKENIZER_ENCODING" default:"cl100k_base"`
	MaxInputTokens int    `envconfig:"TOKENIZER_MAX_INPUT_TOKENS" default:"512"`
}

const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
)

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present; real environment wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	for _, spec := range []interface{}{&cfg, &cfg.Model, &cfg.Tokenizer} {
		if err := envconfig.Process("", spec); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Model.Backend {
	case BackendOllama, BackendOpenAI:
	default:
		errs = append(errs, fmt.Errorf("MODEL_BACKEND must be %q or %q, got %q", BackendOllama, BackendOpenAI, c.Model.Backend))
	}

	switch c.Model.Device {
	case "auto", "cuda", "cpu":
	default:
		errs = append(errs, fmt.Errorf("MODEL_DEVICE must be auto, cuda or cpu, got %q", c.Model.Device))
	}

	if c.Model.Name == "" {
		errs = append(errs, errors.New("MODEL_NAME is required"))
	}
	// greedy decoding is known to break the model, so sampling must stay on
	if c.Model.Temperature <= 0 {
		errs = append(errs, fmt.Errorf("MODEL_TEMPERATURE must be > 0 for sampling, got %v", c.Model.Temperature))
	}
	if c.Model.TopP <= 0 || c.Model.TopP > 1 {
		errs = append(errs, fmt.Errorf("MODEL_TOP_P must be in (0, 1], got %v", c.Model.TopP))
	}
	if c.Tokenizer.MaxInputTokens <= 0 {
		errs = append(errs, fmt.Errorf("TOKENIZER_MAX_INPUT_TOKENS must be positive, got %d", c.Tokenizer.MaxInputTokens))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
