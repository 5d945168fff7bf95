package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrSessionExpired is returned when the backend answers 401. The session has already been
	// cleared by the time the caller sees it.
	ErrSessionExpired = errors.New("unauthorized, redirecting to login")

	// ErrMalformedResponse is returned when a response body cannot be decoded
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnsuccessful is returned by Envelope.Err for 2xx envelopes with success=false
	ErrUnsuccessful = errors.New("request unsuccessful")
)

// FieldError is a single validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a non-2xx, non-401 response, or a payload rejected before it was sent (Status 0)
type Error struct {
	Message          string
	Status           int
	ValidationErrors []FieldError
	Body             map[string]any
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Field returns the validation message for field, if any
func (e *Error) Field(field string) (string, bool) {
	for _, fe := range e.ValidationErrors {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

// errorBody is the shape of a failed response. The error member is kept raw so that a plain
// string value does not break decoding of the message.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type errorDetails struct {
	Details []FieldError `json:"details"`
}

func newHTTPError(status int, raw []byte) *Error {
	apiErr := &Error{
		Message: fmt.Sprintf("HTTP error! status: %d", status),
		Status:  status,
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	apiErr.Body = body

	var parsed errorBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return apiErr
	}
	if parsed.Message != "" {
		apiErr.Message = parsed.Message
	}

	var details errorDetails
	if len(parsed.Error) > 0 && json.Unmarshal(parsed.Error, &details) == nil {
		apiErr.ValidationErrors = details.Details
	}

	return apiErr
}
