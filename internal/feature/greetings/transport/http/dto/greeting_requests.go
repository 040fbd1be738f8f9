// Package dto defines data transfer objects for the greetings feature's HTTP transport layer.
package dto

// CreateGreetingReq represents the request body for creating a greeting.
type CreateGreetingReq struct {
	RecipientName string   `json:"recipient_name" binding:"required"`
	Message       string   `json:"message" binding:"required"`
	MediaKeys     []string `json:"media_keys"`
}

// UpdateGreetingReq represents the request body for a partial greeting update.
type UpdateGreetingReq struct {
	RecipientName *string `json:"recipient_name"`
	Message       *string `json:"message"`
}

// SuggestReq represents the request body for a greeting text suggestion.
type SuggestReq struct {
	RecipientName string `json:"recipient_name" binding:"required"`
	Tone          string `json:"tone"`
}

// SuggestRes represents the response for a greeting text suggestion.
type SuggestRes struct {
	Message string `json:"message"`
}
