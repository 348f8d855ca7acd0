/*
Copyright © 2025 thoughtbruno
*/
package types

import "fmt"

// ToolError provides structured error information for MCP tool responses
type ToolError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewToolError creates a new structured tool error
func NewToolError(code string, message string, details map[string]interface{}) *ToolError {
	return &ToolError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
