package foal

import (
	"reflect"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// Class identifies a controller type. It is the key used by the metadata
// table, the service registry, and the document store.
type Class struct {
	t reflect.Type
}

// ClassOf returns the Class for a controller type T.
// T is the struct type; instances are resolved as *T.
func ClassOf[T any]() Class {
	return Class{t: reflect.TypeOf((*T)(nil)).Elem()}
}

// Name returns the controller type's name.
func (c Class) Name() string { return c.t.Name() }

func (c Class) String() string { return c.t.String() }

// SubControllerProvider is implemented by controller instances that nest
// sub-controllers. The returned classes are composed recursively, with this
// controller's path prefix and hooks applied to every route they produce.
type SubControllerProvider interface {
	SubControllers() []Class
}

// routeMeta is the per-member record: one routable method or one declared
// non-route member (httpMethod empty).
type routeMeta struct {
	member     string
	httpMethod Method
	path       string
	hooks      []HookBinder
	handler    HandlerBinder

	tags       openapi3.Tags
	components *openapi3.Components
	operation  *openapi3.Operation
}

// HandlerBinder produces a HandlerFunc bound to a resolved controller instance.
type HandlerBinder func(instance any) HandlerFunc

// controllerMeta is the per-class record in the metadata table.
type controllerMeta struct {
	path  string
	hooks []HookBinder

	tags       openapi3.Tags
	components *openapi3.Components
	operation  *openapi3.Operation
	info       *openapi3.Info
	infoFn     func(instance any) *openapi3.Info

	members []string // declaration order
	routes  map[string]*routeMeta
}

// Metadata is the table of controller annotations, keyed by class and
// optional member name. It is populated by Register before composition
// begins; the composer only reads it.
type Metadata struct {
	mu      sync.RWMutex
	classes map[reflect.Type]*controllerMeta
}

// NewMetadata creates an empty metadata table.
func NewMetadata() *Metadata {
	return &Metadata{classes: make(map[reflect.Type]*controllerMeta)}
}

func (m *Metadata) controller(t reflect.Type) *controllerMeta {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.classes[t]
	if !ok {
		rec = &controllerMeta{routes: make(map[string]*routeMeta)}
		m.classes[t] = rec
	}
	return rec
}

// lookup returns the record for a class, or nil when the class carries no
// metadata at all. Absence is not an error: the composer treats it as an
// empty prefix and empty hook list.
func (m *Metadata) lookup(t reflect.Type) *controllerMeta {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.classes[t]
}

// Path returns the path prefix attached to a class ("" when absent).
func (m *Metadata) Path(class Class) string {
	if rec := m.lookup(class.t); rec != nil {
		return rec.path
	}
	return ""
}

// Members returns the declared member names of a class in declaration order.
func (m *Metadata) Members(class Class) []string {
	rec := m.lookup(class.t)
	if rec == nil {
		return nil
	}
	out := make([]string, len(rec.members))
	copy(out, rec.members)
	return out
}

// HTTPMethod returns the HTTP method attached to a member. ok is false when
// the member carries no HTTP-method metadata (it is not a route).
func (m *Metadata) HTTPMethod(class Class, member string) (Method, bool) {
	rec := m.lookup(class.t)
	if rec == nil {
		return "", false
	}
	rm := rec.routes[member]
	if rm == nil || rm.httpMethod == "" {
		return "", false
	}
	return rm.httpMethod, true
}

// ControllerMeta is the registration builder for one controller class.
// All methods return the builder for chaining.
type ControllerMeta[T any] struct {
	meta *Metadata
	rec  *controllerMeta
}

// Register opens the registration builder for controller type T on the given
// metadata table. Registering the same class twice returns a builder over the
// same underlying record.
func Register[T any](m *Metadata) *ControllerMeta[T] {
	return &ControllerMeta[T]{
		meta: m,
		rec:  m.controller(reflect.TypeOf((*T)(nil)).Elem()),
	}
}

// Path sets the path prefix applied to every route this controller produces.
func (c *ControllerMeta[T]) Path(prefix string) *ControllerMeta[T] {
	c.rec.path = prefix
	return c
}

// Hooks appends plain hooks to the controller's hook sequence.
func (c *ControllerMeta[T]) Hooks(hooks ...Hook) *ControllerMeta[T] {
	for _, h := range hooks {
		c.rec.hooks = append(c.rec.hooks, constHook(h))
	}
	return c
}

// BoundHooks appends hooks implemented as methods on the controller. Each is
// bound to the singleton instance when routes are composed.
func (c *ControllerMeta[T]) BoundHooks(hooks ...func(*T, *Context) (Response, error)) *ControllerMeta[T] {
	for _, h := range hooks {
		h := h
		c.rec.hooks = append(c.rec.hooks, func(instance any) Hook {
			ctrl := instance.(*T)
			return func(ctx *Context) (Response, error) { return h(ctrl, ctx) }
		})
	}
	return c
}

// Tags attaches OpenAPI tags to the controller.
func (c *ControllerMeta[T]) Tags(tags ...*openapi3.Tag) *ControllerMeta[T] {
	c.rec.tags = append(c.rec.tags, tags...)
	return c
}

// Components attaches reusable OpenAPI components to the controller.
func (c *ControllerMeta[T]) Components(components *openapi3.Components) *ControllerMeta[T] {
	c.rec.components = mergeComponents(c.rec.components, components)
	return c
}

// Operation attaches a controller-level OpenAPI operation fragment. Its
// fields become defaults for every route operation below this controller,
// except servers, security and externalDocs, which only apply to a document
// declared at this level.
func (c *ControllerMeta[T]) Operation(op *openapi3.Operation) *ControllerMeta[T] {
	c.rec.operation = mergeOperations(c.rec.operation, op)
	return c
}

// Info declares this controller as the root of an OpenAPI document.
func (c *ControllerMeta[T]) Info(info *openapi3.Info) *ControllerMeta[T] {
	c.rec.info = info
	c.rec.infoFn = nil
	return c
}

// InfoFunc declares document info computed from the resolved instance.
func (c *ControllerMeta[T]) InfoFunc(fn func(ctrl *T) *openapi3.Info) *ControllerMeta[T] {
	c.rec.info = nil
	c.rec.infoFn = func(instance any) *openapi3.Info {
		return fn(instance.(*T))
	}
	return c
}

// Member declares a non-route member. It records declaration order only;
// composition skips it because it carries no HTTP-method metadata.
func (c *ControllerMeta[T]) Member(name string) *ControllerMeta[T] {
	c.declare(name)
	return c
}

// Get registers a GET route for the named member.
func (c *ControllerMeta[T]) Get(member, path string, h func(*T, *Context) (Response, error)) *RouteMeta[T] {
	return c.route(member, MethodGet, path, h)
}

// Post registers a POST route for the named member.
func (c *ControllerMeta[T]) Post(member, path string, h func(*T, *Context) (Response, error)) *RouteMeta[T] {
	return c.route(member, MethodPost, path, h)
}

// Put registers a PUT route for the named member.
func (c *ControllerMeta[T]) Put(member, path string, h func(*T, *Context) (Response, error)) *RouteMeta[T] {
	return c.route(member, MethodPut, path, h)
}

// Patch registers a PATCH route for the named member.
func (c *ControllerMeta[T]) Patch(member, path string, h func(*T, *Context) (Response, error)) *RouteMeta[T] {
	return c.route(member, MethodPatch, path, h)
}

// Delete registers a DELETE route for the named member.
func (c *ControllerMeta[T]) Delete(member, path string, h func(*T, *Context) (Response, error)) *RouteMeta[T] {
	return c.route(member, MethodDelete, path, h)
}

// All registers a route matching every HTTP method at the path.
func (c *ControllerMeta[T]) All(member, path string, h func(*T, *Context) (Response, error)) *RouteMeta[T] {
	return c.route(member, MethodAll, path, h)
}

func (c *ControllerMeta[T]) declare(member string) *routeMeta {
	rm, ok := c.rec.routes[member]
	if !ok {
		rm = &routeMeta{member: member}
		c.rec.routes[member] = rm
		c.rec.members = append(c.rec.members, member)
	}
	return rm
}

func (c *ControllerMeta[T]) route(member string, method Method, path string, h func(*T, *Context) (Response, error)) *RouteMeta[T] {
	rm := c.declare(member)
	rm.httpMethod = method
	rm.path = path
	rm.handler = func(instance any) HandlerFunc {
		ctrl := instance.(*T)
		return func(ctx *Context) (Response, error) { return h(ctrl, ctx) }
	}
	return &RouteMeta[T]{rec: rm}
}

// RouteMeta is the registration builder for one route member.
type RouteMeta[T any] struct {
	rec *routeMeta
}

// Hooks appends plain hooks to the route's own hook sequence. They run after
// the controller's hooks.
func (r *RouteMeta[T]) Hooks(hooks ...Hook) *RouteMeta[T] {
	for _, h := range hooks {
		r.rec.hooks = append(r.rec.hooks, constHook(h))
	}
	return r
}

// BoundHooks appends hooks implemented as methods on the controller.
func (r *RouteMeta[T]) BoundHooks(hooks ...func(*T, *Context) (Response, error)) *RouteMeta[T] {
	for _, h := range hooks {
		h := h
		r.rec.hooks = append(r.rec.hooks, func(instance any) Hook {
			ctrl := instance.(*T)
			return func(ctx *Context) (Response, error) { return h(ctrl, ctx) }
		})
	}
	return r
}

// Tags attaches OpenAPI tags to the route.
func (r *RouteMeta[T]) Tags(tags ...*openapi3.Tag) *RouteMeta[T] {
	r.rec.tags = append(r.rec.tags, tags...)
	return r
}

// Components attaches reusable OpenAPI components to the route.
func (r *RouteMeta[T]) Components(components *openapi3.Components) *RouteMeta[T] {
	r.rec.components = mergeComponents(r.rec.components, components)
	return r
}

// Operation attaches the route's OpenAPI operation fragment. Its fields win
// over controller-level defaults.
func (r *RouteMeta[T]) Operation(op *openapi3.Operation) *RouteMeta[T] {
	r.rec.operation = mergeOperations(r.rec.operation, op)
	return r
}
