/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/thoughtbruno/llm-researcher/types"
)

// Type alias for convenience in this package
type ToolError = types.ToolError

// NewToolError is an alias for types.NewToolError
var NewToolError = types.NewToolError

// WrapArchiveError maps archive store failures onto typed tool errors.
func WrapArchiveError(err error, operation string, id string) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if strings.Contains(errStr, "not found") {
		return NewToolError("REPORT_NOT_FOUND", fmt.Sprintf("Archived report %s not found", id), map[string]interface{}{
			"operation": operation,
			"id":        id,
		})
	}

	if strings.Contains(errStr, "ambiguous") {
		return NewToolError("AMBIGUOUS_REPORT_ID", fmt.Sprintf("Report ID prefix %q matches more than one report", id), map[string]interface{}{
			"operation": operation,
			"id":        id,
		})
	}

	return NewToolError("ARCHIVE_OPERATION_FAILED", fmt.Sprintf("%s operation failed: %v", operation, err), map[string]interface{}{
		"operation":      operation,
		"id":             id,
		"original_error": err.Error(),
	})
}
