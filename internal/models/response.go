package models

import "time"

// APIResponse is a generic API response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
	}
}

// NewValidationErrorResponse creates a validation error response
func NewValidationErrorResponse(errors map[string]string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   "Validation failed",
		Errors:  errors,
	}
}

// ConvertRequest is the body of POST /convert.
type ConvertRequest struct {
	Text string `json:"text"`
}

// ConvertResponse keeps the flat shape existing clients read.
type ConvertResponse struct {
	Success     bool   `json:"success"`
	BengaliText string `json:"bengali_text"`
	Title       string `json:"title"`
	Caption     string `json:"caption"`
}

// ExportRequest is the body of POST /export-pdf.
type ExportRequest struct {
	Text    string `json:"text"`
	Title   string `json:"title"`
	Caption string `json:"caption"`
	Font    string `json:"font"`
}

// MessageResponse is returned by endpoints that only acknowledge an action.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReply is what the chat service produces for one message.
type ChatReply struct {
	ID         string    `json:"id"`
	Response   string    `json:"response"`
	Translated bool      `json:"translated"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatResponse is the flat body returned by POST /chat.
type ChatResponse struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}
