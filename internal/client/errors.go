package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/taskpath/taskpath/internal/domain"
)

// Client-specific errors.
var (
	// ErrServerNotRunning indicates the server is not reachable.
	ErrServerNotRunning = errors.New("server is not running or unreachable")
	// ErrServerUnhealthy indicates the health check failed.
	ErrServerUnhealthy = errors.New("server health check failed")
)

// APIError represents an error response from the API.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// apiErrorResponse wraps the error in the API response format.
type apiErrorResponse struct {
	Error APIError `json:"error"`
}

// parseErrorResponse parses an error response from the API and returns the
// appropriate domain error or a generic API error.
func parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return fmt.Errorf("server error: %s", string(body))
	}

	return mapAPIErrorToDomain(resp.StatusCode, &apiErr.Error)
}

// mapAPIErrorToDomain maps an API error to the appropriate domain error.
func mapAPIErrorToDomain(statusCode int, apiErr *APIError) error {
	switch {
	case statusCode == http.StatusNotFound && apiErr.Code == string(domain.ErrCodeTaskNotFound):
		taskID := extractID(apiErr.Context, "id")
		return domain.NewTaskNotFoundError(taskID)

	case statusCode == http.StatusConflict && apiErr.Code == string(domain.ErrCodeAlreadyClaimed):
		claimedBy, _ := apiErr.Context["claimed_by"].(string)
		claimedAt, _ := apiErr.Context["claimed_at"].(string)
		return domain.NewAlreadyClaimedError(claimedBy, claimedAt)

	case statusCode == http.StatusForbidden && apiErr.Code == string(domain.ErrCodeNotOwner):
		claimedBy, _ := apiErr.Context["claimed_by"].(string)
		return domain.NewNotOwnerError(claimedBy)

	case statusCode == http.StatusBadRequest && apiErr.Code == string(domain.ErrCodeInvalidTransition):
		from, _ := apiErr.Context["from"].(string)
		to, _ := apiErr.Context["to"].(string)
		return domain.NewInvalidTransitionError(domain.TaskStatus(from), domain.TaskStatus(to))

	case statusCode == http.StatusBadRequest && apiErr.Code == string(domain.ErrCodeCycleDetected):
		path := extractIDSlice(apiErr.Context, "path")
		return domain.NewCycleDetectedError(path)

	case statusCode == http.StatusBadRequest && apiErr.Code == string(domain.ErrCodeInvalidGraph):
		taskIDs := extractIDSlice(apiErr.Context, "task_ids")
		reason, _ := apiErr.Context["reason"].(string)
		return domain.NewInvalidGraphError(taskIDs, reason)

	case statusCode == http.StatusBadRequest && apiErr.Code == string(domain.ErrCodeValidationFailed):
		details := extractStringSlice(apiErr.Context, "details")
		return domain.NewValidationError(details)

	case statusCode == http.StatusNotFound && apiErr.Code == string(domain.ErrCodeProjectNotFound):
		project, _ := apiErr.Context["project"].(string)
		return domain.NewProjectNotFoundError(project)

	case statusCode == http.StatusNotFound && apiErr.Code == string(domain.ErrCodeDependencyNotFound):
		childID := extractID(apiErr.Context, "child_id")
		parentID := extractID(apiErr.Context, "parent_id")
		return domain.NewDependencyNotFoundError(childID, parentID)

	default:
		return &domain.DomainError{
			Code:    domain.ErrorCode(apiErr.Code),
			Message: apiErr.Message,
			Context: apiErr.Context,
		}
	}
}

// extractID extracts a task id from a context map. JSON numbers
// unmarshal as float64.
func extractID(ctx map[string]interface{}, key string) int64 {
	if f, ok := ctx[key].(float64); ok {
		return int64(f)
	}
	return 0
}

// extractIDSlice extracts a slice of task ids from a context map.
func extractIDSlice(ctx map[string]interface{}, key string) []int64 {
	val, ok := ctx[key]
	if !ok {
		return nil
	}

	slice, ok := val.([]interface{})
	if !ok {
		return nil
	}

	result := make([]int64, 0, len(slice))
	for _, v := range slice {
		if f, ok := v.(float64); ok {
			result = append(result, int64(f))
		}
	}
	return result
}

// extractStringSlice extracts a string slice from a context map.
func extractStringSlice(ctx map[string]interface{}, key string) []string {
	val, ok := ctx[key]
	if !ok {
		return nil
	}

	slice, ok := val.([]interface{})
	if !ok {
		return nil
	}

	result := make([]string, 0, len(slice))
	for _, v := range slice {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// isConnectionRefused checks if the error is a connection refused error.
func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		(strings.Contains(errStr, "dial tcp") && strings.Contains(errStr, "refused"))
}
