package foal

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
)

// App is the request dispatcher over a composed route list.
// Controllers are added with AddController, which runs the composer and
// appends the resulting flat routes. Use Handler() to get an http.Handler
// for use with http.ListenAndServe.
type App struct {
	mu                 sync.RWMutex
	routes             []Route
	meta               *Metadata
	registry           *Registry
	composer           *Composer
	errorTransformer   ErrorTransformer
	maskInternalErrors bool
	middlewares        []func(http.Handler) http.Handler
	logger             *slog.Logger
	maxRequestBodySize uint64
}

// NewApp creates an app over a populated metadata table. It owns a fresh
// registry and composer; the same registry resolves every controller the
// app serves.
func NewApp(meta *Metadata) *App {
	registry := NewRegistry()
	return &App{
		meta:               meta,
		registry:           registry,
		composer:           NewComposer(meta, registry),
		maxRequestBodySize: 1 << 20, // 1MB default
	}
}

// WithErrorTransformer adds a custom error transformer.
// It returns the app for chaining.
func (a *App) WithErrorTransformer(fn ErrorTransformer) *App {
	a.errorTransformer = fn
	return a
}

// WithMaskInternalErrors enables masking of internal error messages.
// This is useful in production to avoid leaking sensitive information.
func (a *App) WithMaskInternalErrors() *App {
	a.maskInternalErrors = true
	return a
}

// WithMiddleware adds an HTTP middleware to wrap the app.
// Middleware is applied in the order added (first added is outermost).
func (a *App) WithMiddleware(mw func(http.Handler) http.Handler) *App {
	a.middlewares = append(a.middlewares, mw)
	return a
}

// WithLogger sets a custom logger for the app.
// If not set, slog.Default() will be used.
func (a *App) WithLogger(logger *slog.Logger) *App {
	a.logger = logger
	return a
}

// WithMaxRequestBodySize sets the maximum request body size DecodeBody
// accepts. A value of 0 means no limit. Default is 1MB (1 << 20).
func (a *App) WithMaxRequestBodySize(size uint64) *App {
	a.maxRequestBodySize = size
	return a
}

// Registry returns the app's service registry, for providing factories
// before controllers are added.
func (a *App) Registry() *Registry { return a.registry }

// Documents returns the store holding OpenAPI documents produced while
// adding controllers.
func (a *App) Documents() *DocumentStore { return a.composer.Documents() }

// AddController composes the controller tree rooted at class and appends
// its routes. A route whose (method, path skeleton) pair is already served
// is still appended but can never match; the registration is logged as
// shadowed, since matching is first-registered-wins.
func (a *App) AddController(class Class) error {
	routes, err := a.composer.Compose(class)
	if err != nil {
		return fmt.Errorf("failed to compose %s: %w", class, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range routes {
		for _, existing := range a.routes {
			if existing.Method == r.Method && pathSkeleton(existing.Path) == pathSkeleton(r.Path) {
				logger := a.logger
				if logger == nil {
					logger = slog.Default()
				}
				logger.Warn("shadowed route registration",
					slog.String("method", string(r.Method)),
					slog.String("path", r.Path),
					slog.String("member", r.MemberName))
				break
			}
		}
		a.routes = append(a.routes, r)
	}
	return nil
}

// Routes returns a copy of the flat route list.
func (a *App) Routes() []Route {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Route, len(a.routes))
	copy(out, a.routes)
	return out
}

// Handler returns an http.Handler for use with http.ListenAndServe or other
// HTTP servers. The returned handler includes all configured middleware.
//
// Example:
//
//	app := foal.NewApp(meta).WithMiddleware(cors)
//	http.ListenAndServe(":8080", app.Handler())
func (a *App) Handler() http.Handler {
	var h http.Handler = http.HandlerFunc(a.serveHTTP)
	// Apply middleware in reverse order so first added is outermost
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		h = a.middlewares[i](h)
	}
	return h
}

// serveHTTP handles incoming requests (internal, called via Handler()).
func (a *App) serveHTTP(w http.ResponseWriter, req *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			stack := debug.Stack()
			logger := a.logger
			if logger == nil {
				logger = slog.Default()
			}
			logger.Error("PANIC recovered",
				slog.Any("panic", rec),
				slog.String("stack", string(stack)))
			writeError(w, NewError(CodeInternal, fmt.Sprintf("internal server error (panic): %v", rec)), a.logger)
		}
	}()

	route, params, pathMatched := a.match(req.Method, req.URL.Path)
	if route == nil {
		if pathMatched {
			writeError(w, Errorf(CodeMethodNotAllowed, "method %s not allowed", req.Method), a.logger)
			return
		}
		writeError(w, NewError(CodeNotFound, "route not found"), a.logger)
		return
	}

	ctx := newRequestContext(w, req, route, params)
	ctx.logger = a.logger
	ctx.maxRequestBodySize = a.maxRequestBodySize

	res, err := runHooks(ctx, route.Hooks)
	if err == nil && res == nil {
		res, err = route.Handler(ctx)
	}
	if err != nil {
		a.handleError(w, err)
		return
	}
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if werr := res.WriteTo(w); werr != nil {
		logger := a.logger
		if logger == nil {
			logger = slog.Default()
		}
		// Response may be partially written, nothing we can do. Log for debugging.
		logger.Error("failed to write response",
			slog.String("path", route.Path),
			slog.Any("error", werr))
	}
}

// match finds the first registered route accepting the method and path.
// pathMatched reports whether any route matched the path regardless of
// method, to distinguish 404 from 405.
func (a *App) match(httpMethod, path string) (route *Route, params map[string]string, pathMatched bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for i := range a.routes {
		r := &a.routes[i]
		p, ok := matchPath(r.Path, path)
		if !ok {
			continue
		}
		pathMatched = true
		if r.Method.Matches(httpMethod) {
			return r, p, true
		}
	}
	return nil, nil, pathMatched
}

func (a *App) handleError(w http.ResponseWriter, err error) {
	var svcErr *Error
	if a.errorTransformer != nil {
		svcErr = a.errorTransformer(err)
	}
	if svcErr == nil {
		svcErr = DefaultErrorTransformer(err)
	}
	if a.maskInternalErrors && svcErr.Code == CodeInternal {
		svcErr = NewError(CodeInternal, "internal server error")
	}
	writeError(w, svcErr, a.logger)
}
