package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaBackend serves the model from a local ollama server
type OllamaBackend struct {
	client *api.Client
	model  string
	device Device
}

// NewOllamaBackend creates a client for the ollama server at baseURL
func NewOllamaBackend(baseURL, model string, device Device, httpClient *http.Client) (*OllamaBackend, error) {
	// api.NewClient wants the server root, not the OpenAI-compatible /v1 path
	base := strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL %q: %w", baseURL, err)
	}
	return &OllamaBackend{
		client: api.NewClient(parsed, httpClient),
		model:  model,
		device: device,
	}, nil
}

func (b *OllamaBackend) Kind() string { return "ollama" }

func (b *OllamaBackend) Ping(ctx context.Context) error {
	return b.client.Heartbeat(ctx)
}

// EnsureModel asks the server to describe the model. Missing models are
// reported, never pulled.
func (b *OllamaBackend) EnsureModel(ctx context.Context) error {
	_, err := b.client.Show(ctx, &api.ShowRequest{Model: b.model})
	if err == nil {
		return nil
	}
	var statusErr api.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrModelNotFound, b.model)
	}
	return err
}

// Sample issues one raw generate call per requested sequence. Calls run one
// after another; each draws its own sample.
func (b *OllamaBackend) Sample(ctx context.Context, prompt string, s Sampling) ([]string, error) {
	stream := false
	sequences := make([]string, 0, s.NumSequences)

	for i := 0; i < s.NumSequences; i++ {
		req := &api.GenerateRequest{
			Model:   b.model,
			Prompt:  prompt,
			Raw:     true,
			Stream:  &stream,
			Options: b.options(s),
		}

		var sb strings.Builder
		err := b.client.Generate(ctx, req, func(r api.GenerateResponse) error {
			sb.WriteString(r.Response)
			return nil
		})
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, sb.String())
	}

	return sequences, nil
}

func (b *OllamaBackend) options(s Sampling) map[string]interface{} {
	opts := map[string]interface{}{
		"num_predict": s.MaxNewTokens,
		"temperature": s.Temperature,
		"top_p":       s.TopP,
	}
	if s.TopK > 0 {
		opts["top_k"] = s.TopK
	}
	if b.device == DeviceCPU {
		opts["num_gpu"] = 0
	}
	return opts
}
