package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

const (
	CodeTimeout            = "TIMEOUT"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeUnknown            = "UNKNOWN_ERROR"
)

// APIError is the single error type callers see. Code is empty when the
// server answered with a non-2xx status.
type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// HasCode reports whether err is an APIError with the given code.
func HasCode(err error, code string) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Code == code
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

func timeoutError() *APIError {
	return &APIError{Message: "Request timeout", Status: http.StatusRequestTimeout, Code: CodeTimeout}
}

func unavailableError() *APIError {
	return &APIError{
		Message: "Service unavailable. Please check if the backend is running.",
		Status:  http.StatusServiceUnavailable,
		Code:    CodeServiceUnavailable,
	}
}

func unknownError(err error) *APIError {
	return &APIError{Message: err.Error(), Status: http.StatusInternalServerError, Code: CodeUnknown}
}

// classifyTransport maps an error from http.Client.Do.
func classifyTransport(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutError()
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return timeoutError()
	}
	if errors.Is(err, context.Canceled) {
		return unknownError(err)
	}
	// anything else on the way out means nothing answered
	return unavailableError()
}

// statusError builds the error for a non-2xx response from its raw body.
func statusError(status int, body []byte, decode func([]byte, any) error) *APIError {
	msg := fmt.Sprintf("HTTP Error: %d", status)

	var payload struct {
		Message string `json:"message"`
	}
	if err := decode(body, &payload); err != nil {
		if text := http.StatusText(status); text != "" {
			msg = text
		}
	} else if payload.Message != "" {
		msg = payload.Message
	}

	return &APIError{Message: msg, Status: status}
}
