package foal

import (
	"reflect"
	"sync"
)

// Registry resolves singleton controller and service instances by class.
// The first resolution of a class constructs and caches the instance; every
// later resolution returns the same instance. Construction uses the factory
// registered with Provide, or the zero value of the class otherwise.
type Registry struct {
	mu        sync.Mutex
	instances map[reflect.Type]any
	factories map[reflect.Type]func() any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		instances: make(map[reflect.Type]any),
		factories: make(map[reflect.Type]func() any),
	}
}

// Provide registers a factory for T, used on first resolution instead of
// zero-value construction. It has no effect once an instance of T has
// already been resolved.
func Provide[T any](r *Registry, factory func() *T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[t] = func() any { return factory() }
}

// Get resolves the singleton instance for a class, constructing it on first
// use. The mutex makes first-resolution-wins hold even under concurrent
// composition.
func (r *Registry) Get(class Class) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if instance, ok := r.instances[class.t]; ok {
		return instance
	}
	var instance any
	if factory, ok := r.factories[class.t]; ok {
		instance = factory()
	} else {
		instance = reflect.New(class.t).Interface()
	}
	r.instances[class.t] = instance
	return instance
}

// GetAs resolves the singleton instance for T, typed.
func GetAs[T any](r *Registry) *T {
	return r.Get(ClassOf[T]()).(*T)
}
