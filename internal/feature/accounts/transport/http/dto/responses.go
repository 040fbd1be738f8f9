package dto

// ErrorRes is the error envelope returned by all endpoints.
type ErrorRes struct {
	Error string `json:"error"`
}

// MessageRes is the generic success envelope.
type MessageRes struct {
	Message string `json:"message"`
}
