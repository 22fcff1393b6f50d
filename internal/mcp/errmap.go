// ABOUTME: Error mapper converting backend failures into protocol errors
// ABOUTME: Maps HTTP-like status codes to JSON-RPC codes via a fixed table

package mcp

import (
	"errors"
	"net/http"

	"github.com/2389/rag-gateway/internal/rag"
)

// protocolError pairs a JSON-RPC error object with the HTTP status the
// transport should use.
type protocolError struct {
	code    int
	message string
	data    map[string]any
	status  int
}

func (e *protocolError) Error() string {
	return e.message
}

func (e *protocolError) wire() *Error {
	return &Error{Code: e.code, Message: e.message, Data: e.data}
}

// asProtocolError converts any handler failure into a protocolError:
// already-shaped errors pass through, everything else goes through the
// error mapper.
func asProtocolError(err error) *protocolError {
	var perr *protocolError
	if errors.As(err, &perr) {
		return perr
	}
	return mapError(err)
}

// httpStatusTable maps HTTP-like status codes carried by backend
// failures to protocol codes and their fixed messages.
var httpStatusTable = map[int]struct {
	code    int
	message string
}{
	http.StatusBadRequest:          {codeInvalidRequest, "Invalid Request"},
	http.StatusUnauthorized:        {codeUnauthorized, "Unauthorized"},
	http.StatusForbidden:           {codeServerForbidden, "Forbidden"},
	http.StatusNotFound:            {codeMethodNotFound, "Method not found"},
	http.StatusUnprocessableEntity: {codeInvalidParams, "Invalid params"},
	http.StatusTooManyRequests:     {codeTooManyRequests, "Too many requests"},
	http.StatusInternalServerError: {codeInternalError, "Internal error"},
	http.StatusBadGateway:          {codeInternalError, "Service unavailable"},
	http.StatusServiceUnavailable:  {codeInternalError, "Service unavailable"},
	http.StatusGatewayTimeout:      {codeInternalError, "Service unavailable"},
}

// mapError converts an arbitrary failure into a protocol error. A
// failure carrying an HTTP-like status is mapped through the fixed
// table and keeps its status in data.httpStatusCode and as the
// transport status; a failure with only a message surfaces that
// message at -32603.
func mapError(err error) *protocolError {
	mapped := &protocolError{
		code:    codeInternalError,
		message: "Internal error",
		status:  http.StatusInternalServerError,
	}
	if err == nil {
		return mapped
	}

	var backendErr *rag.Error
	if !errors.As(err, &backendErr) {
		mapped.message = err.Error()
		return mapped
	}

	if backendErr.Status != 0 {
		mapped.status = backendErr.Status
		mapped.data = map[string]any{"httpStatusCode": backendErr.Status}
		if entry, ok := httpStatusTable[backendErr.Status]; ok {
			mapped.code = entry.code
			mapped.message = entry.message
		} else if backendErr.Message != "" {
			mapped.message = backendErr.Message
		}
	} else if backendErr.Message != "" {
		mapped.message = backendErr.Message
	}

	if len(backendErr.Details) > 0 {
		if mapped.data == nil {
			mapped.data = map[string]any{}
		}
		mapped.data["details"] = backendErr.Details
	}

	return mapped
}
