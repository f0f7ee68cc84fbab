package models

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Completion is a finished generation.
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// ServiceError describes a failed call to a generation service.
type ServiceError struct {
	Provider   string
	StatusCode int
	Message    string
	Transient  bool
	Err        error
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status code '%d' - %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s request failed - %s", e.Provider, msg)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// AIError is the common error envelope returned by hosted APIs.
type AIError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// TransientStatus reports whether an HTTP status is worth retrying.
func TransientStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout,
		529: // anthropic "overloaded"
		return true
	}
	return false
}

// IsTransient reports whether err is worth one more attempt.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) && serviceErr.Transient {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
