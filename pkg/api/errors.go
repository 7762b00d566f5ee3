// Package api implements the typed HTTP request pipeline for the content
// API: request descriptors, a retrying transport and a closed error
// taxonomy. Exactly one taxonomy variant holds per failed call.
package api

import "fmt"

// InvalidResponseError reports a response that violated the protocol, such
// as a stream closing before any terminal frame.
type InvalidResponseError struct {
	Reason string
}

func (e *InvalidResponseError) Error() string {
	if e.Reason == "" {
		return "invalid response"
	}
	return "invalid response: " + e.Reason
}

// ClientError is a 4xx response. Body carries the raw, undecoded response
// bytes; interpreting them (e.g. a 409 duplicate-entity payload) is the
// caller's job.
type ClientError struct {
	StatusCode int
	Body       []byte
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client error: status %d", e.StatusCode)
}

// ServerError is a 5xx response.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status %d", e.StatusCode)
}

// UnexpectedStatusError is any status outside 2xx, 4xx and 5xx.
type UnexpectedStatusError struct {
	StatusCode int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// TransportError is a failure before any HTTP response was received
// (connection refused, DNS, timeout). Only this variant is retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport failure: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is a malformed body behind a 2xx status.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode failure: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ClassifyStatus maps a received status code onto the taxonomy.
// Returns nil for 2xx. The raw body is attached to 4xx errors only.
func ClassifyStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status <= 299:
		return nil
	case status >= 400 && status <= 499:
		return &ClientError{StatusCode: status, Body: body}
	case status >= 500 && status <= 599:
		return &ServerError{StatusCode: status}
	default:
		return &UnexpectedStatusError{StatusCode: status}
	}
}
