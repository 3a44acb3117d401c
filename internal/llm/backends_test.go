package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/domaingen/api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaBackendSample(t *testing.T) {
	var calls atomic.Int32
	replies := []string{" bread.com", " artisanloaf.io", " bakehouse.net"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "model_v1", req["model"])
		assert.Equal(t, "Business: bakery\nDomain Name:", req["prompt"])
		assert.Equal(t, true, req["raw"])

		opts, _ := req["options"].(map[string]interface{})
		assert.Equal(t, float64(20), opts["num_predict"])
		assert.Equal(t, float64(1), opts["temperature"])
		assert.Equal(t, float64(0), opts["num_gpu"])

		n := calls.Add(1) - 1
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model":    "model_v1",
			"response": replies[n],
			"done":     true,
		})
	}))
	defer srv.Close()

	b, err := NewOllamaBackend(srv.URL, "model_v1", DeviceCPU, srv.Client())
	require.NoError(t, err)

	seqs, err := b.Sample(context.Background(), "Business: bakery\nDomain Name:", testSampling)

	require.NoError(t, err)
	assert.Equal(t, replies, seqs)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOllamaBackendEnsureModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/show", r.URL.Path)

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["model"] == "model_v1" {
			json.NewEncoder(w).Encode(map[string]interface{}{"modelfile": "FROM model_v1"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "model not found"})
	}))
	defer srv.Close()

	present, err := NewOllamaBackend(srv.URL+"/v1", "model_v1", DeviceCUDA, srv.Client())
	require.NoError(t, err)
	assert.NoError(t, present.EnsureModel(context.Background()))

	missing, err := NewOllamaBackend(srv.URL, "other", DeviceCUDA, srv.Client())
	require.NoError(t, err)
	assert.ErrorIs(t, missing.EnsureModel(context.Background()), ErrModelNotFound)
}

func TestOllamaBackendOptionsOnCUDA(t *testing.T) {
	b, err := NewOllamaBackend("http://localhost:11434", "model_v1", DeviceCUDA, http.DefaultClient)
	require.NoError(t, err)

	opts := b.options(testSampling)

	assert.NotContains(t, opts, "num_gpu")
	assert.Equal(t, 50, opts["top_k"])
}

func TestOpenAIBackendSample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/completions", r.URL.Path)

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "model_v1", req["model"])
		assert.Equal(t, float64(3), req["n"])
		assert.Equal(t, float64(20), req["max_tokens"])
		assert.Equal(t, float64(1), req["temperature"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "cmpl-1",
			"object": "text_completion",
			"model":  "model_v1",
			"choices": []map[string]interface{}{
				{"index": 2, "text": " third.com"},
				{"index": 0, "text": " first.com"},
				{"index": 1, "text": " second.com"},
			},
		})
	}))
	defer srv.Close()

	b := NewOpenAIBackend(srv.URL+"/v1", "", "model_v1", srv.Client())

	seqs, err := b.Sample(context.Background(), "Business: bakery\nDomain Name:", testSampling)

	require.NoError(t, err)
	assert.Equal(t, []string{" first.com", " second.com", " third.com"}, seqs)
}

func TestOpenAIBackendEnsureModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/models/model_v1" {
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "model_v1", "object": "model"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"message": "model does not exist", "type": "invalid_request_error"},
		})
	}))
	defer srv.Close()

	assert.NoError(t, NewOpenAIBackend(srv.URL+"/v1", "", "model_v1", srv.Client()).EnsureModel(context.Background()))

	err := NewOpenAIBackend(srv.URL+"/v1", "", "missing", srv.Client()).EnsureModel(context.Background())
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestOpenAIBackendErrorFailsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"message": "sampler crashed", "type": "server_error"},
		})
	}))
	defer srv.Close()

	m, err := NewModel("model_v1", NewOpenAIBackend(srv.URL+"/v1", "", "model_v1", srv.Client()), wordTokenizer{max: 512}, DeviceCPU, testSampling, nil)
	require.NoError(t, err)

	res := m.Generate(context.Background(), "prompt")

	assert.False(t, res.OK())
	assert.Contains(t, res.Failure, "sampler crashed")
}

func TestNewBackend(t *testing.T) {
	ollama, err := NewBackend(config.ModelConfig{Backend: config.BackendOllama, BaseURL: "http://localhost:11434", Name: "m"}, DeviceCPU)
	require.NoError(t, err)
	assert.Equal(t, "ollama", ollama.Kind())

	oai, err := NewBackend(config.ModelConfig{Backend: config.BackendOpenAI, BaseURL: "http://localhost:8000/v1", Name: "m"}, DeviceCPU)
	require.NoError(t, err)
	assert.Equal(t, "openai", oai.Kind())

	_, err = NewBackend(config.ModelConfig{Backend: "tgi"}, DeviceCPU)
	assert.Error(t, err)
}
