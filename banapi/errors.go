package banapi

import (
	"fmt"
	"net/http"
)

// StatusTooManyRequests is the non standard code used by the API when too
// many requests are in flight
const StatusTooManyRequests = 492

var statusReasons = map[int]string{
	http.StatusMovedPermanently:   "Request must be made over HTTPS",
	StatusTooManyRequests:         "Too many requests. Please perform fewer requests at the same time",
	http.StatusBadGateway:         "Server bootstrap in progress. Please try again later",
	http.StatusServiceUnavailable: "Server loading. Please try again later",
}

// HTTPError is returned when the API replies with a non-2xx status
type HTTPError struct {
	StatusCode int
	Reason     string
}

func NewHTTPError(statusCode int) *HTTPError {
	reason, found := statusReasons[statusCode]
	if !found {
		reason = fmt.Sprintf("HTTP Error: %d", statusCode)
	}
	return &HTTPError{
		StatusCode: statusCode,
		Reason:     reason,
	}
}

func (e *HTTPError) Error() string {
	return e.Reason
}

// APIError is returned when the payload carries an error message
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "API Error: " + e.Message
}

// ValidationError is returned before any request is made when a required
// argument is missing
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
