package foal

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// openAPIVersion is the version string stamped on every generated document.
const openAPIVersion = "3.0.0"

// mergeTags unions tags by name into dst. A later tag with an existing name
// replaces the earlier one in place, so declaration order is stable.
func mergeTags(dst, src openapi3.Tags) openapi3.Tags {
	for _, tag := range src {
		replaced := false
		for i, existing := range dst {
			if existing.Name == tag.Name {
				dst[i] = tag
				replaced = true
				break
			}
		}
		if !replaced {
			dst = append(dst, tag)
		}
	}
	return dst
}

func mergeMap[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// mergeComponents unions src into dst keyed by name; src wins on collision.
// dst may be nil. The returned value is never src itself, so callers can
// keep merging without mutating registered metadata.
func mergeComponents(dst, src *openapi3.Components) *openapi3.Components {
	if src == nil {
		return dst
	}
	if dst == nil {
		dst = &openapi3.Components{}
	}
	dst.Schemas = mergeMap(dst.Schemas, src.Schemas)
	dst.Parameters = mergeMap(dst.Parameters, src.Parameters)
	dst.Headers = mergeMap(dst.Headers, src.Headers)
	dst.RequestBodies = mergeMap(dst.RequestBodies, src.RequestBodies)
	dst.Responses = mergeMap(dst.Responses, src.Responses)
	dst.SecuritySchemes = mergeMap(dst.SecuritySchemes, src.SecuritySchemes)
	dst.Examples = mergeMap(dst.Examples, src.Examples)
	dst.Links = mergeMap(dst.Links, src.Links)
	dst.Callbacks = mergeMap(dst.Callbacks, src.Callbacks)
	return dst
}

func cloneComponents(src *openapi3.Components) *openapi3.Components {
	return mergeComponents(nil, src)
}

// mergeOperations merges two operation fragments field-wise: an explicit
// child field wins, otherwise the parent's is inherited. Neither input is
// mutated; a fresh operation is returned (nil when both inputs are nil).
func mergeOperations(parent, child *openapi3.Operation) *openapi3.Operation {
	if parent == nil && child == nil {
		return nil
	}
	if parent == nil {
		parent = &openapi3.Operation{}
	}
	if child == nil {
		child = &openapi3.Operation{}
	}
	out := &openapi3.Operation{}

	out.Tags = parent.Tags
	if len(child.Tags) > 0 {
		out.Tags = child.Tags
	}
	out.Summary = parent.Summary
	if child.Summary != "" {
		out.Summary = child.Summary
	}
	out.Description = parent.Description
	if child.Description != "" {
		out.Description = child.Description
	}
	out.OperationID = parent.OperationID
	if child.OperationID != "" {
		out.OperationID = child.OperationID
	}
	out.Parameters = parent.Parameters
	if len(child.Parameters) > 0 {
		out.Parameters = child.Parameters
	}
	out.RequestBody = parent.RequestBody
	if child.RequestBody != nil {
		out.RequestBody = child.RequestBody
	}
	out.Responses = parent.Responses
	if len(child.Responses) > 0 {
		out.Responses = child.Responses
	}
	out.Callbacks = parent.Callbacks
	if len(child.Callbacks) > 0 {
		out.Callbacks = child.Callbacks
	}
	out.Deprecated = parent.Deprecated || child.Deprecated
	out.Security = parent.Security
	if child.Security != nil {
		out.Security = child.Security
	}
	out.Servers = parent.Servers
	if child.Servers != nil {
		out.Servers = child.Servers
	}
	out.ExternalDocs = parent.ExternalDocs
	if child.ExternalDocs != nil {
		out.ExternalDocs = child.ExternalDocs
	}
	return out
}

// stripDocumentOnly copies an operation fragment without servers, security
// and externalDocs. Those fields only belong to the document root and are
// never inherited into per-route operations.
func stripDocumentOnly(op *openapi3.Operation) *openapi3.Operation {
	if op == nil {
		return nil
	}
	out := mergeOperations(op, nil)
	out.Servers = nil
	out.Security = nil
	out.ExternalDocs = nil
	return out
}

// checkPathCollisions verifies that no two distinct path templates in a
// document collapse to the same parameter skeleton. Iteration over sorted
// keys keeps the reported pair deterministic.
func checkPathCollisions(paths openapi3.Paths) error {
	seen := make(map[string]string, len(paths))
	for _, p := range sortedKeys(paths) {
		skeleton := pathSkeleton(p)
		if first, ok := seen[skeleton]; ok {
			return &PathConflictError{First: first, Second: p}
		}
		seen[skeleton] = p
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
