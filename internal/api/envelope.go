package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Envelope is the uniform response wrapper used by the backend
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`

	// Body is the raw response body as received
	Body json.RawMessage `json:"-"`
}

// RawEnvelope is an envelope whose data has not been interpreted
type RawEnvelope = Envelope[json.RawMessage]

// Err returns nil for a successful envelope, or an error carrying the backend message
func (e *Envelope[T]) Err() error {
	if e.Success {
		return nil
	}
	if e.Message == "" {
		return ErrUnsuccessful
	}
	return fmt.Errorf("%w: %s", ErrUnsuccessful, e.Message)
}

// Decode interprets the data of a raw envelope as T. A missing or null data member yields a nil
// Data; data that does not match T is ErrMalformedResponse.
func Decode[T any](env *RawEnvelope) (*Envelope[T], error) {
	out := &Envelope[T]{
		Success: env.Success,
		Message: env.Message,
		Body:    env.Body,
	}

	if env.Data == nil || isNull(*env.Data) {
		return out, nil
	}

	var data T
	if err := json.Unmarshal(*env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrMalformedResponse, err)
	}
	out.Data = &data
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Pagination is the page block returned by list endpoints
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages,omitempty"`

	// TotalPages is used instead of Pages by the bookings endpoints
	TotalPages int `json:"totalPages,omitempty"`
}

// PageCount returns the number of pages whichever member the backend filled in
func (p Pagination) PageCount() int {
	if p.Pages > 0 {
		return p.Pages
	}
	return p.TotalPages
}

// Count is an integer that the backend sometimes sends as a string (SQL aggregates)
type Count int64

func (c *Count) UnmarshalJSON(b []byte) error {
	n, err := parseNumber(b)
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", b, err)
	}
	*c = Count(n)
	return nil
}

// parseNumber accepts a JSON number, a quoted number, an empty string or null
func parseNumber(b []byte) (float64, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0, nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		b = []byte(s)
	}
	return strconv.ParseFloat(string(b), 64)
}

// Amount is a decimal value that may arrive as a JSON number or a numeric string
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	n, err := parseNumber(b)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", b, err)
	}
	*a = Amount(n)
	return nil
}
