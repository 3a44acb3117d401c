package models

import "time"

// GenerationEvent is published on the event bus once a request reaches its
// terminal state. It never carries the description or the suggestions.
type GenerationEvent struct {
	RequestID       string           `json:"request_id"`
	Status          GenerationStatus `json:"status"`
	SuggestionCount int              `json:"suggestion_count"`
	BlockedKeyword  string           `json:"blocked_keyword,omitempty"`
	Model           string           `json:"model,omitempty"`
	LatencyMs       int64            `json:"latency_ms"`
	Timestamp       time.Time        `json:"timestamp"`
}
