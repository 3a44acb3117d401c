package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend talks to a local OpenAI-compatible completions server
// (vLLM, text-generation-inference and similar). The device is managed by
// the server; top_k is not part of the completions API and is not sent.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend creates a client for baseURL, which includes the /v1 suffix
func NewOpenAIBackend(baseURL, apiKey, model string, httpClient *http.Client) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = httpClient
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (b *OpenAIBackend) Kind() string { return "openai" }

func (b *OpenAIBackend) Ping(ctx context.Context) error {
	_, err := b.client.ListModels(ctx)
	return err
}

func (b *OpenAIBackend) EnsureModel(ctx context.Context) error {
	_, err := b.client.GetModel(ctx, b.model)
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrModelNotFound, b.model)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrModelNotFound, b.model)
	}
	return err
}

// Sample requests all sequences in a single completions call with n set.
func (b *OpenAIBackend) Sample(ctx context.Context, prompt string, s Sampling) ([]string, error) {
	resp, err := b.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       b.model,
		Prompt:      prompt,
		MaxTokens:   s.MaxNewTokens,
		N:           s.NumSequences,
		Temperature: float32(s.Temperature),
		TopP:        float32(s.TopP),
	})
	if err != nil {
		return nil, err
	}

	items := make([]indexedText, len(resp.Choices))
	for i, choice := range resp.Choices {
		items[i] = indexedText{index: choice.Index, text: choice.Text}
	}
	return orderedTexts(items), nil
}
