// internal/app/system/apiclient/errors.go
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized means the API rejected the admin's session (401/403).
	ErrUnauthorized = errors.New("apiclient: unauthorized")
	// ErrNotFound means the API answered 404.
	ErrNotFound = errors.New("apiclient: not found")
	// ErrNetwork means no response was received (DNS, refused, timeout).
	ErrNetwork = errors.New("apiclient: network error")
)

// APIError is a non-2xx answer from the content API.
type APIError struct {
	Status   int
	Message  string
	Resource string
	Op       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Resource, e.Op, e.Status, e.Message)
}

// Unwrap maps auth and not-found statuses to their sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// newAPIError builds an APIError, preferring the server's "message" and then
// its "error" field over a generic phrase.
func newAPIError(resource, op string, status int, body []byte) *APIError {
	msg := serverMessage(body)
	if msg == "" {
		msg = statusPhrase(status)
	}
	return &APIError{Status: status, Message: msg, Resource: resource, Op: op}
}

func serverMessage(body []byte) string {
	var v struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &v) != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{v.Message, v.Error} {
		var s string
		if len(raw) > 0 && json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func statusPhrase(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "The request was invalid."
	case status == http.StatusUnauthorized:
		return "Your session has expired. Please sign in again."
	case status == http.StatusForbidden:
		return "You do not have permission to do that."
	case status == http.StatusNotFound:
		return "The item no longer exists."
	case status == http.StatusRequestEntityTooLarge:
		return "The upload is too large."
	case status >= 500:
		return "Server error. Please try again later."
	default:
		return "The request failed."
	}
}

// UserMessage returns text suitable for showing the admin after a failed call.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return "The server took too long to respond. Please try again."
	}
	if errors.Is(err, ErrNetwork) {
		return "Could not reach the server. Please try again."
	}
	return "Something went wrong. Please try again."
}

// IsClientError reports whether the API rejected the request itself (4xx),
// as opposed to failing or being unreachable.
func IsClientError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status >= 400 && ae.Status < 500
}
