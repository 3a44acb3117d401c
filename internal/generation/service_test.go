package generation

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/domaingen/api/internal/llm"
	"github.com/domaingen/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeModel struct {
	result  llm.Result
	prompts []string
}

func (f *fakeModel) Name() string { return "model_v1" }

func (f *fakeModel) Generate(ctx context.Context, prompt string) llm.Result {
	f.prompts = append(f.prompts, prompt)
	return f.result
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.GenerationEvent
	err    error
}

func (p *recordingPublisher) PublishGeneration(ctx context.Context, event models.GenerationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func newTestService(model Model, opts ...Option) *Service {
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	return NewService(model, zap.NewNop(), opts...)
}

func TestGenerateBlockedSkipsModel(t *testing.T) {
	model := &fakeModel{}
	svc := newTestService(model)

	resp := svc.Generate(context.Background(), "adult content website with explicit nude content")

	assert.Equal(t, models.GenerationStatusBlocked, resp.Status)
	assert.Equal(t, "Request contains inappropriate content", resp.Message)
	assert.Empty(t, resp.Suggestions)
	assert.NotNil(t, resp.Suggestions)
	assert.Empty(t, model.prompts)
}

func TestGenerateBlocksSubstringMatches(t *testing.T) {
	model := &fakeModel{}
	svc := newTestService(model)

	resp := svc.Generate(context.Background(), "Skill-sharing platform")

	assert.Equal(t, models.GenerationStatusBlocked, resp.Status)
	assert.Empty(t, model.prompts)
}

func TestGenerateSuccess(t *testing.T) {
	model := &fakeModel{result: llm.Result{Sequences: []string{
		" artisanbread.com",
		"<pad> freshloaf.com</s>",
		"Business: A small bakery\nDomain Name: bakehouse.net ",
	}}}
	svc := newTestService(model)

	resp := svc.Generate(context.Background(), "A small bakery selling artisan bread")

	require.Equal(t, models.GenerationStatusSuccess, resp.Status)
	assert.Empty(t, resp.Message)
	require.Len(t, resp.Suggestions, 3)

	domains := []string{resp.Suggestions[0].Domain, resp.Suggestions[1].Domain, resp.Suggestions[2].Domain}
	assert.Equal(t, []string{"artisanbread.com", "freshloaf.com", "bakehouse.net"}, domains)

	for _, s := range resp.Suggestions {
		assert.GreaterOrEqual(t, s.Confidence, 0.70)
		assert.LessOrEqual(t, s.Confidence, 1.00)
		assert.Equal(t, math.Round(s.Confidence*100)/100, s.Confidence)
	}

	require.Len(t, model.prompts, 1)
	assert.Equal(t, "Business: A small bakery selling artisan bread\nDomain Name:", model.prompts[0])
}

func TestGenerateEmptyDescriptionReachesModel(t *testing.T) {
	model := &fakeModel{result: llm.Result{Sequences: []string{"a", "b", "c"}}}
	svc := newTestService(model)

	resp := svc.Generate(context.Background(), "")

	assert.Equal(t, models.GenerationStatusSuccess, resp.Status)
	require.Len(t, model.prompts, 1)
	assert.Equal(t, "Business: \nDomain Name:", model.prompts[0])
}

func TestGenerateModelFailure(t *testing.T) {
	model := &fakeModel{result: llm.Result{Failure: "CUDA out of memory"}}
	svc := newTestService(model)

	resp := svc.Generate(context.Background(), "A small bakery")

	assert.Equal(t, models.GenerationStatusError, resp.Status)
	assert.Equal(t, "Generation failed: CUDA out of memory", resp.Message)
	assert.Empty(t, resp.Suggestions)
	assert.NotNil(t, resp.Suggestions)
}

func TestGeneratePublishesEvents(t *testing.T) {
	pub := &recordingPublisher{}
	model := &fakeModel{result: llm.Result{Sequences: []string{"a.com", "b.com", "c.com"}}}
	svc := newTestService(model, WithPublisher(pub))
	ctx := models.WithRequestID(context.Background(), "req-1")

	svc.Generate(ctx, "A small bakery")
	svc.Generate(ctx, "porn site")

	require.Len(t, pub.events, 2)

	assert.Equal(t, "req-1", pub.events[0].RequestID)
	assert.Equal(t, models.GenerationStatusSuccess, pub.events[0].Status)
	assert.Equal(t, 3, pub.events[0].SuggestionCount)
	assert.Equal(t, "model_v1", pub.events[0].Model)
	assert.Empty(t, pub.events[0].BlockedKeyword)

	assert.Equal(t, models.GenerationStatusBlocked, pub.events[1].Status)
	assert.Equal(t, "porn", pub.events[1].BlockedKeyword)
	assert.Zero(t, pub.events[1].SuggestionCount)
}

func TestGeneratePublishErrorDoesNotChangeResponse(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("nats: connection closed")}
	model := &fakeModel{result: llm.Result{Sequences: []string{"a.com", "b.com", "c.com"}}}
	svc := newTestService(model, WithPublisher(pub))

	resp := svc.Generate(context.Background(), "A small bakery")

	assert.Equal(t, models.GenerationStatusSuccess, resp.Status)
	assert.Len(t, pub.events, 1)
}

func TestConfidenceDistribution(t *testing.T) {
	svc := newTestService(&fakeModel{})

	for i := 0; i < 1000; i++ {
		c := svc.confidence()
		require.GreaterOrEqual(t, c, 0.70)
		require.LessOrEqual(t, c, 1.00)
	}
}

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "Business: Organic coffee shop\nDomain Name:", BuildPrompt("Organic coffee shop"))
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "coffee.com", "coffee.com"},
		{"surrounding whitespace", "  coffee.com \n", "coffee.com"},
		{"echoed prompt", "Business: coffee\nDomain Name: beanhouse.com", "beanhouse.com"},
		{"last marker wins", "Domain Name: a.com Domain Name: b.com", "b.com"},
		{"special tokens", "<pad> brew.io</s>", "brew.io"},
		{"sentinel tokens", "<extra_id_0>roast.net<extra_id_1>", "roast.net"},
		{"chat tokens", "<|endoftext|>cup.org", "cup.org"},
		{"control characters", "mug\x00.com\x07", "mug.com"},
		{"no validation", "not a domain at all", "not a domain at all"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDomain(tt.raw))
		})
	}
}

// sharedModel is safe for concurrent use, like the real model handle
type sharedModel struct {
	mu    sync.Mutex
	calls int
}

func (m *sharedModel) Name() string { return "model_v1" }

func (m *sharedModel) Generate(ctx context.Context, prompt string) llm.Result {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return llm.Result{Sequences: []string{" a.com", " b.com", " c.com"}}
}

func TestGenerateConcurrentRequestsShareService(t *testing.T) {
	const workers = 50
	model := &sharedModel{}
	pub := &recordingPublisher{}
	svc := newTestService(model, WithPublisher(pub))

	responses := make([]models.GenerationResponse, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i] = svc.Generate(context.Background(), "A small bakery")
		}(i)
	}
	wg.Wait()

	for _, resp := range responses {
		require.Equal(t, models.GenerationStatusSuccess, resp.Status)
		require.Len(t, resp.Suggestions, 3)
		for _, s := range resp.Suggestions {
			assert.GreaterOrEqual(t, s.Confidence, 0.70)
			assert.LessOrEqual(t, s.Confidence, 1.00)
		}
	}
	assert.Equal(t, workers, model.calls)
	assert.Len(t, pub.events, workers)
}
