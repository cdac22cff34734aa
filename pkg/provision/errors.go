package provision

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the platform.
type APIError struct {
	StatusCode int
	Message    string
	TrackingID string
	Body       []byte
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.TrackingID != "" {
		return fmt.Sprintf("platform API error %d: %s (trackingId=%s)", e.StatusCode, msg, e.TrackingID)
	}
	return fmt.Sprintf("platform API error %d: %s", e.StatusCode, msg)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ErrorBody returns the raw response body carried by err, if any.
func ErrorBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return string(apiErr.Body)
	}
	return ""
}

func newAPIError(resp *http.Response, body []byte, trackingID string) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		TrackingID: trackingID,
		Body:       body,
	}

	var payload struct {
		Message    string `json:"message"`
		TrackingID string `json:"trackingId"`
		Errors     []struct {
			Description string `json:"description"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" && len(payload.Errors) > 0 {
			apiErr.Message = payload.Errors[0].Description
		}
		if payload.TrackingID != "" {
			apiErr.TrackingID = payload.TrackingID
		}
	}
	return apiErr
}
