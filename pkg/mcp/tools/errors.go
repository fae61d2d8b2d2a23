package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekaya-inc/study-sensei/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// Returned as the text of an IsError tool result so the calling model can
// read the failure and correct its arguments.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable errors the caller can fix (bad parameters,
// unknown ids). System failures should still return Go errors.
//
// Example:
//
//	if title == "" {
//	    return NewErrorResult("invalid_parameters", "parameter 'title' cannot be empty"), nil
//	}
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return NewErrorResultWithDetails(code, message, nil)
}

// NewErrorResultWithDetails creates an error result with additional context.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// HandleServiceError converts a study service error into a tool result.
// Client errors become structured error results; anything else is returned
// as a Go error tagged with failureCode.
func HandleServiceError(err error, failureCode string) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return NewErrorResult("validation_error", err.Error()), nil
	case errors.Is(err, apperrors.ErrInvalidReference):
		return NewErrorResult("unknown_subject", err.Error()), nil
	case errors.Is(err, apperrors.ErrNotFound):
		return NewErrorResult("not_found", err.Error()), nil
	default:
		return nil, fmt.Errorf("%s: %w", failureCode, err)
	}
}
