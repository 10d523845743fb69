package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors distinguishing the failure classes the console handles
// differently: a missing or rejected credential versus an unreachable
// service. Remote rejections with a structured body become *APIError.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnreachable      = errors.New("cannot connect to the monitoring service")
)

// APIError is a rejection from the remote API: a 4xx/5xx response whose
// body carried a structured error object.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected with status %d", e.StatusCode)
}

// errorBody is the error object shape the remote API responds with. The
// fields are consulted in priority order: message, then error, then the
// per-field errors map.
type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

// extractMessage pulls a display message out of a rejection body. A
// per-field error map is joined into one string, in sorted key order so the
// rendering is deterministic. Returns "" when the body is not a recognized
// error object.
func extractMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	if eb.Error != "" {
		return eb.Error
	}
	if len(eb.Errors) > 0 {
		keys := make([]string, 0, len(eb.Errors))
		for k := range eb.Errors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, eb.Errors[k])
		}
		return strings.Join(parts, ", ")
	}
	return ""
}
