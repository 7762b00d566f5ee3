package util

import "github.com/google/uuid"

// NewRequestID returns an id for the X-Request-Id header so client and
// server logs can be correlated per call.
func NewRequestID() string {
	return uuid.NewString()
}
