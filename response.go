package foal

import (
	"encoding/json"
	"net/http"
)

// Response is what hooks and handlers return to produce an HTTP response.
// It is exported so users can return custom implementations, but most code
// uses the HTTPResponse constructors below.
type Response interface {
	// StatusCode is the HTTP status the response writes.
	StatusCode() int
	// WriteTo serializes the response onto the wire. Headers must be set
	// before the status code is written.
	WriteTo(w http.ResponseWriter) error
}

// HTTPResponse is the standard JSON response. The body, when non-nil, is
// serialized with encoding/json.
type HTTPResponse struct {
	status  int
	body    any
	headers http.Header
}

// NewResponse creates a response with an arbitrary status code.
func NewResponse(status int, body any) *HTTPResponse {
	return &HTTPResponse{
		status:  status,
		body:    body,
		headers: make(http.Header),
	}
}

// OK returns a 200 response.
func OK(body any) *HTTPResponse { return NewResponse(http.StatusOK, body) }

// Created returns a 201 response.
func Created(body any) *HTTPResponse { return NewResponse(http.StatusCreated, body) }

// NoContent returns an empty 204 response.
func NoContent() *HTTPResponse { return NewResponse(http.StatusNoContent, nil) }

// BadRequest returns a 400 response.
func BadRequest(body any) *HTTPResponse { return NewResponse(http.StatusBadRequest, body) }

// Unauthorized returns a 401 response.
func Unauthorized(body any) *HTTPResponse { return NewResponse(http.StatusUnauthorized, body) }

// Forbidden returns a 403 response.
func Forbidden(body any) *HTTPResponse { return NewResponse(http.StatusForbidden, body) }

// NotFoundResponse returns a 404 response.
func NotFoundResponse(body any) *HTTPResponse { return NewResponse(http.StatusNotFound, body) }

// Redirect returns a 302 response with the Location header set.
func Redirect(location string) *HTTPResponse {
	return NewResponse(http.StatusFound, nil).WithHeader("Location", location)
}

// WithHeader sets a response header. It returns the response for chaining.
func (r *HTTPResponse) WithHeader(key, value string) *HTTPResponse {
	r.headers.Set(key, value)
	return r
}

// Body returns the response body value.
func (r *HTTPResponse) Body() any { return r.body }

// StatusCode implements Response.
func (r *HTTPResponse) StatusCode() int { return r.status }

// WriteTo implements Response.
func (r *HTTPResponse) WriteTo(w http.ResponseWriter) error {
	for k, vs := range r.headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if r.body == nil {
		w.WriteHeader(r.status)
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.status)
	return json.NewEncoder(w).Encode(r.body)
}

// errorResponse is the envelope for error responses.
// Wire format: {"error": {...}}
type errorResponse struct {
	Error *Error `json:"error"`
}

func encodeErrorResponse(w http.ResponseWriter, err *Error) error {
	return json.NewEncoder(w).Encode(errorResponse{Error: err})
}
