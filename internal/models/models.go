package models

// GenerationStatus represents the terminal state of a generation request
type GenerationStatus string

const (
	GenerationStatusSuccess GenerationStatus = "success"
	GenerationStatusBlocked GenerationStatus = "blocked"
	GenerationStatusError   GenerationStatus = "error"
)

// Response messages returned to the caller
const (
	MessageBlocked          = "Request contains inappropriate content"
	MessageGenerationFailed = "Generation failed: "
)

// GenerationRequest is the body of POST /generate.
// The field is a pointer so that an empty description is accepted while a
// missing one fails binding.
type GenerationRequest struct {
	BusinessDescription *string `json:"business_description" binding:"required" example:"A small bakery selling artisan bread"`
}

// Suggestion is a single generated domain name
type Suggestion struct {
	Domain     string  `json:"domain" example:"artisanbread.com"`
	Confidence float64 `json:"confidence" example:"0.87"`
}

// GenerationResponse is the envelope returned for every handled request
type GenerationResponse struct {
	Suggestions []Suggestion     `json:"suggestions"`
	Status      GenerationStatus `json:"status" enums:"success,blocked,error"`
	Message     string           `json:"message,omitempty"`
}

// Blocked builds the response for input rejected by the content filter
func Blocked() GenerationResponse {
	return GenerationResponse{
		Suggestions: []Suggestion{},
		Status:      GenerationStatusBlocked,
		Message:     MessageBlocked,
	}
}

// Failed builds the response for a failed model invocation
func Failed(reason string) GenerationResponse {
	return GenerationResponse{
		Suggestions: []Suggestion{},
		Status:      GenerationStatusError,
		Message:     MessageGenerationFailed + reason,
	}
}

// Succeeded builds the response for a successful generation
func Succeeded(suggestions []Suggestion) GenerationResponse {
	if suggestions == nil {
		suggestions = []Suggestion{}
	}
	return GenerationResponse{
		Suggestions: suggestions,
		Status:      GenerationStatusSuccess,
	}
}
