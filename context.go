package foal

import (
	"context"
	"log/slog"
	"net/http"
)

// Context carries per-request state through the hook chain and handler.
// It embeds the request's context.Context, so it can be passed directly to
// anything that takes a context.
type Context struct {
	context.Context

	w      http.ResponseWriter
	req    *http.Request
	params map[string]string
	logger *slog.Logger

	controller any
	member     string

	maxRequestBodySize uint64
}

func newRequestContext(w http.ResponseWriter, req *http.Request, route *Route, params map[string]string) *Context {
	return &Context{
		Context:    req.Context(),
		w:          w,
		req:        req,
		params:     params,
		controller: route.Controller,
		member:     route.MemberName,
	}
}

// Request returns the underlying HTTP request.
func (c *Context) Request() *http.Request { return c.req }

// Param returns the value bound to a path parameter, e.g. Param("id") for a
// route registered at /tasks/:id. It returns "" when the parameter does not
// exist on the matched route.
func (c *Context) Param(name string) string { return c.params[name] }

// SetHeader sets a header on the response before it is written.
func (c *Context) SetHeader(key, value string) {
	c.w.Header().Set(key, value)
}

// Controller returns the controller instance owning the matched route.
func (c *Context) Controller() any { return c.controller }

// MemberName returns the name of the controller member the route originated from.
func (c *Context) MemberName() string { return c.member }

// Logger returns the request logger.
func (c *Context) Logger() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}
