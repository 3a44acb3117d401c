package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/domaingen/api/internal/config"
	"go.uber.org/zap"
)

const (
	// NumSequences is the number of suggestions requested per call
	NumSequences = 3
	// MaxNewTokens bounds each generated suggestion
	MaxNewTokens = 20
)

// Load builds the model handle once at startup. It resolves the compute
// device, builds the tokenizer and backend client, and checks that the model
// is already present on the backend. Any error here must stop the process.
func Load(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Model, error) {
	device := ResolveDevice(cfg.Model.Device)

	tokenizer, err := NewTiktokenTokenizer(cfg.Tokenizer.Encoding, cfg.Tokenizer.MaxInputTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}

	backend, err := NewBackend(cfg.Model, device)
	if err != nil {
		return nil, err
	}

	if err := backend.EnsureModel(ctx); err != nil {
		return nil, fmt.Errorf("failed to load model %q from %s: %w", cfg.Model.Name, backend.Kind(), err)
	}

	model, err := NewModel(cfg.Model.Name, backend, tokenizer, device, Sampling{
		NumSequences: NumSequences,
		MaxNewTokens: MaxNewTokens,
		Temperature:  cfg.Model.Temperature,
		TopP:         cfg.Model.TopP,
		TopK:         cfg.Model.TopK,
	}, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("model loaded",
		zap.String("model", cfg.Model.Name),
		zap.String("backend", backend.Kind()),
		zap.String("device", string(device)),
		zap.String("tokenizer", cfg.Tokenizer.Encoding),
		zap.Int("max_input_tokens", cfg.Tokenizer.MaxInputTokens),
	)
	return model, nil
}

// NewBackend constructs the backend client selected by cfg.Backend.
func NewBackend(cfg config.ModelConfig, device Device) (Backend, error) {
	// A zero timeout leaves generation calls unbounded.
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Backend {
	case config.BackendOllama:
		return NewOllamaBackend(cfg.BaseURL, cfg.Name, device, httpClient)
	case config.BackendOpenAI:
		return NewOpenAIBackend(cfg.BaseURL, cfg.APIKey, cfg.Name, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Backend)
	}
}
