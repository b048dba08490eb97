package hrisapi

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnreachable means no response was received at all
	ErrUnreachable = errors.New("hris backend unreachable")
	// ErrTimeout means the fixed per-call ceiling elapsed
	ErrTimeout = errors.New("hris backend timed out")
)

// APIError is a non-2xx reply from the HRIS backend
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("hris api error [%d] %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("hris api error [%d]: %s", e.StatusCode, e.Message)
}

// errorEnvelope matches the backend's response envelope
type errorEnvelope struct {
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		if apiErr.Message == "" {
			apiErr.Message = env.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = "request failed"
	}
	return apiErr
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an
// APIError
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
