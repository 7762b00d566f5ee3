package api

import (
	"net/http"
	"net/url"
	"time"
)

// Request describes one API call. A fresh value is built per invocation
// and never shared between calls.
type Request struct {
	Method string
	Path   string // relative to the client's base URL
	Query  url.Values
	Body   any // marshaled to JSON when non-nil
	Header http.Header
	// Timeout overrides the client's per-call timeout when positive.
	Timeout time.Duration
}

// Get builds a GET request for path.
func Get(path string) Request {
	return Request{Method: http.MethodGet, Path: path}
}

// Post builds a POST request with a JSON body.
func Post(path string, body any) Request {
	return Request{Method: http.MethodPost, Path: path, Body: body}
}

// Put builds a PUT request with a JSON body.
func Put(path string, body any) Request {
	return Request{Method: http.MethodPut, Path: path, Body: body}
}

// Delete builds a DELETE request for path.
func Delete(path string) Request {
	return Request{Method: http.MethodDelete, Path: path}
}
