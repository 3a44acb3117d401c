package generation

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/domaingen/api/internal/llm"
	"github.com/domaingen/api/internal/models"
	"github.com/domaingen/api/internal/safety"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/domaingen/api/internal/generation")

const (
	promptPrefix = "Business: "
	// PromptMarker precedes the generated text in the prompt
	PromptMarker = "Domain Name:"

	minConfidence   = 0.70
	confidenceRange = 0.30
)

// Model is the part of llm.Model the service depends on
type Model interface {
	Name() string
	Generate(ctx context.Context, prompt string) llm.Result
}

// EventPublisher receives one event per handled request
type EventPublisher interface {
	PublishGeneration(ctx context.Context, event models.GenerationEvent) error
}

// Service turns business descriptions into domain-name suggestions
type Service struct {
	model     Model
	publisher EventPublisher
	logger    *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Service
type Option func(*Service)

// WithPublisher sets the outcome event publisher
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithRand sets the random source used for confidence scores
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// NewService creates a service around an already loaded model
func NewService(model Model, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		model:  model,
		logger: logger,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildPrompt wraps the description in the fixed prompt template
func BuildPrompt(description string) string {
	return promptPrefix + description + "\n" + PromptMarker
}

// Generate runs the content filter, invokes the model and formats the
// suggestions. Every call ends in exactly one of success, blocked or error.
func (s *Service) Generate(ctx context.Context, description string) models.GenerationResponse {
	ctx, span := tracer.Start(ctx, "generation.Generate")
	defer span.End()

	start := time.Now()
	s.logger.Info("received description", zap.String("description", description))

	if word, blocked := safety.Match(description); blocked {
		s.logger.Info("blocked unsafe input", zap.String("keyword", word))
		resp := models.Blocked()
		s.finish(ctx, resp, start, word)
		span.SetAttributes(attribute.String("generation.status", string(resp.Status)))
		return resp
	}

	result := s.model.Generate(ctx, BuildPrompt(description))
	if !result.OK() {
		s.logger.Error("model generation failed",
			zap.String("model", s.model.Name()),
			zap.String("error", result.Failure),
		)
		resp := models.Failed(result.Failure)
		s.finish(ctx, resp, start, "")
		span.SetAttributes(attribute.String("generation.status", string(resp.Status)))
		return resp
	}

	suggestions := make([]models.Suggestion, 0, len(result.Sequences))
	for _, seq := range result.Sequences {
		suggestions = append(suggestions, models.Suggestion{
			Domain:     ExtractDomain(seq),
			Confidence: s.confidence(),
		})
	}

	resp := models.Succeeded(suggestions)
	s.finish(ctx, resp, start, "")
	span.SetAttributes(
		attribute.String("generation.status", string(resp.Status)),
		attribute.Int("generation.suggestions", len(suggestions)),
	)
	return resp
}

// confidence is a display value in [0.70, 1.00], not a model probability.
func (s *Service) confidence() float64 {
	s.rngMu.Lock()
	u := s.rng.Float64()
	s.rngMu.Unlock()
	return math.Round((minConfidence+u*confidenceRange)*100) / 100
}

func (s *Service) finish(ctx context.Context, resp models.GenerationResponse, start time.Time, keyword string) {
	latency := time.Since(start)
	generationRequestsTotal.WithLabelValues(string(resp.Status)).Inc()
	generationDuration.WithLabelValues(string(resp.Status)).Observe(latency.Seconds())

	if resp.Status == models.GenerationStatusSuccess {
		s.logger.Info("generation completed",
			zap.Int("suggestions", len(resp.Suggestions)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	if s.publisher == nil {
		return
	}
	requestID, _ := models.GetRequestIDFromContext(ctx)
	event := models.GenerationEvent{
		RequestID:       requestID,
		Status:          resp.Status,
		SuggestionCount: len(resp.Suggestions),
		BlockedKeyword:  keyword,
		Model:           s.model.Name(),
		LatencyMs:       latency.Milliseconds(),
		Timestamp:       time.Now().UTC(),
	}
	if err := s.publisher.PublishGeneration(ctx, event); err != nil {
		s.logger.Warn("failed to publish generation event", zap.Error(err))
	}
}
