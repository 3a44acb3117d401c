// Package llm holds the process-wide handle on the domain-name model: the
// inference backend serving it, the tokenizer used to truncate prompts and the
// compute device chosen at startup.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/domaingen/api/internal/llm")

var (
	// ErrModelNotFound is returned when the backend does not have the model locally
	ErrModelNotFound = errors.New("model not found on backend")
	// ErrSamplingRequired is returned for greedy (temperature 0) settings
	ErrSamplingRequired = errors.New("sampling is required: temperature must be > 0")
	// ErrUnexpectedSequenceCount is returned when the backend returns the wrong number of sequences
	ErrUnexpectedSequenceCount = errors.New("unexpected number of generated sequences")
)

// Sampling describes how candidate sequences are drawn from the model
type Sampling struct {
	NumSequences int
	MaxNewTokens int
	Temperature  float64
	TopP         float64
	TopK         int
}

// Validate rejects settings that would fall back to greedy decoding.
func (s Sampling) Validate() error {
	if s.Temperature <= 0 {
		return ErrSamplingRequired
	}
	if s.NumSequences <= 0 || s.MaxNewTokens <= 0 {
		return fmt.Errorf("invalid sampling: %d sequences of %d tokens", s.NumSequences, s.MaxNewTokens)
	}
	return nil
}

// Backend is an inference server that can return sampled completions.
type Backend interface {
	// Kind names the backend implementation, e.g. "ollama".
	Kind() string
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// EnsureModel checks the model is already present. It must never download it.
	EnsureModel(ctx context.Context) error
	// Sample returns s.NumSequences independently sampled completions of prompt.
	Sample(ctx context.Context, prompt string, s Sampling) ([]string, error)
}

// Result is the outcome of one model invocation. Exactly one of Sequences
// or Failure is meaningful.
type Result struct {
	Sequences []string
	Failure   string
}

// OK reports whether the invocation produced sequences
func (r Result) OK() bool {
	return r.Failure == ""
}

// Model is shared read-only by every request for the lifetime of the process.
type Model struct {
	name      string
	backend   Backend
	tokenizer Tokenizer
	device    Device
	sampling  Sampling
	logger    *zap.Logger
}

// NewModel wires an already constructed backend and tokenizer together.
func NewModel(name string, backend Backend, tokenizer Tokenizer, device Device, sampling Sampling, logger *zap.Logger) (*Model, error) {
	if err := sampling.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		name:      name,
		backend:   backend,
		tokenizer: tokenizer,
		device:    device,
		sampling:  sampling,
		logger:    logger,
	}, nil
}

// Name returns the model identifier on the backend
func (m *Model) Name() string { return m.name }

// Device returns the compute device resolved at startup
func (m *Model) Device() Device { return m.device }

// Backend returns the backend kind
func (m *Model) Backend() string { return m.backend.Kind() }

// Ping checks the backend is reachable
func (m *Model) Ping(ctx context.Context) error {
	return m.backend.Ping(ctx)
}

// Generate truncates prompt to the tokenizer limit and asks the backend for
// the configured number of sampled sequences. Backend errors, a wrong number
// of sequences and panics inside the backend call all become a failed Result.
func (m *Model) Generate(ctx context.Context, prompt string) Result {
	input, truncated := m.tokenizer.Truncate(prompt)
	if truncated {
		m.logger.Debug("prompt truncated",
			zap.Int("original_len", len(prompt)),
			zap.Int("truncated_len", len(input)),
		)
	}

	ctx, span := tracer.Start(ctx, "llm.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.backend", m.backend.Kind()),
		attribute.String("llm.model", m.name),
		attribute.String("llm.device", string(m.device)),
		attribute.Int("llm.num_sequences", m.sampling.NumSequences),
		attribute.Bool("llm.prompt_truncated", truncated),
	)

	start := time.Now()
	sequences, err := m.sample(ctx, input)
	duration := time.Since(start)

	if err == nil && len(sequences) != m.sampling.NumSequences {
		err = fmt.Errorf("%w: want %d, got %d", ErrUnexpectedSequenceCount, m.sampling.NumSequences, len(sequences))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		modelRequestsTotal.WithLabelValues(m.backend.Kind(), "error").Inc()
		failure := err.Error()
		if failure == "" {
			failure = "unknown error"
		}
		return Result{Failure: failure}
	}

	modelRequestsTotal.WithLabelValues(m.backend.Kind(), "success").Inc()
	modelRequestDuration.WithLabelValues(m.backend.Kind()).Observe(duration.Seconds())
	return Result{Sequences: sequences}
}

func (m *Model) sample(ctx context.Context, prompt string) (sequences []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return m.backend.Sample(ctx, prompt, m.sampling)
}

// indexedText orders backend choices that carry an explicit index
type indexedText struct {
	index int
	text  string
}

func orderedTexts(items []indexedText) []string {
	sort.SliceStable(items, func(i, j int) bool { return items[i].index < items[j].index })
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.text
	}
	return out
}
