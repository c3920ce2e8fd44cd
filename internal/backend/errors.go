package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnavailable wraps transport failures (connection refused, timeout, ...).
var ErrUnavailable = errors.New("serveur injoignable")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
	// Body is the decoded JSON error body, nil when it was not JSON.
	Body map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
}

// NotFound reports a 404.
func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

// newAPIError extracts a message from the body. Precedence: "message",
// then "errors" (strings or objects with message/defaultMessage), then
// "error", then the HTTP status text.
func newAPIError(status int, raw []byte) *APIError {
	e := &APIError{Status: status}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		e.Body = body
		e.Message = messageFrom(body)
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("erreur HTTP %d", status)
	}
	return e
}

func messageFrom(body map[string]any) string {
	if s, ok := body["message"].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	if list, ok := body["errors"].([]any); ok {
		var parts []string
		for _, item := range list {
			switch v := item.(type) {
			case string:
				parts = append(parts, v)
			case map[string]any:
				for _, k := range []string{"message", "defaultMessage"} {
					if s, ok := v[k].(string); ok && s != "" {
						if f, ok := v["field"].(string); ok && f != "" {
							s = f + ": " + s
						}
						parts = append(parts, s)
						break
					}
				}
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	if s, ok := body["error"].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return ""
}

// Message turns any client error into a line that can be shown to a user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnavailable) {
		return ErrUnavailable.Error()
	}
	if errors.Is(err, ErrInvalidResponse) {
		return ErrInvalidResponse.Error()
	}
	return err.Error()
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}
