package services

import (
	"errors"
	"net/http"

	"bookstore-web/clients"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
	// Fields maps form field names to validation messages.
	Fields map[string]string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) HTTPStatus() int {
	return e.StatusCode
}

// Unauthorized reports whether the backend rejected the session token.
func (e *ServiceError) Unauthorized() bool {
	return e != nil && e.StatusCode == http.StatusUnauthorized
}

var ErrSessionExpired = &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Your session has expired, please sign in again"}

// fromBackend turns a backend client error into a ServiceError. The backend's
// own message is kept for 4xx answers; anything else gets the fallback.
func fromBackend(err error, fallback string) *ServiceError {
	var apiErr *clients.APIError
	if !errors.As(err, &apiErr) {
		return &ServiceError{StatusCode: http.StatusBadGateway, Message: fallback}
	}

	switch {
	case apiErr.IsUnauthorized():
		return ErrSessionExpired
	case apiErr.Status >= 500:
		return &ServiceError{StatusCode: http.StatusBadGateway, Message: fallback}
	case apiErr.Message != "":
		return &ServiceError{StatusCode: apiErr.Status, Message: apiErr.Message}
	default:
		return &ServiceError{StatusCode: apiErr.Status, Message: fallback}
	}
}

func badRequest(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Message: msg}
}
