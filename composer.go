package foal

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Composer flattens a controller tree into route descriptors. Controllers
// declaring OpenAPI info additionally produce a complete document, which the
// composer registers in its document store as a side effect.
//
// Composition is a one-shot depth-first pass over static metadata. It never
// constructs controller instances itself; every instance comes from the
// registry, so the same class resolves to the same instance everywhere in
// the tree.
type Composer struct {
	meta     *Metadata
	registry *Registry
	docs     *DocumentStore
}

// NewComposer creates a composer over a metadata table and a registry.
func NewComposer(meta *Metadata, registry *Registry) *Composer {
	return &Composer{
		meta:     meta,
		registry: registry,
		docs:     NewDocumentStore(),
	}
}

// Documents returns the store receiving completed OpenAPI documents.
func (c *Composer) Documents() *DocumentStore { return c.docs }

// Compose resolves the controller tree rooted at class into a flat route
// list: one Route per routable member, including members contributed by
// nested sub-controllers. A path-template collision inside a declared
// document aborts with *PathConflictError.
func (c *Composer) Compose(class Class) ([]Route, error) {
	items, _, err := c.compose(class)
	if err != nil {
		return nil, err
	}
	routes := make([]Route, len(items))
	for i, item := range items {
		routes[i] = item.route
	}
	return routes, nil
}

// apiRoute pairs a route descriptor with its merged operation fragment.
type apiRoute struct {
	route     Route
	operation *openapi3.Operation
}

// apiFragment is the tag/component aggregate a subtree hands to its parent.
type apiFragment struct {
	tags       openapi3.Tags
	components *openapi3.Components
}

func (c *Composer) compose(class Class) ([]apiRoute, apiFragment, error) {
	rec := c.meta.lookup(class.t)
	if rec == nil {
		// No metadata at all: empty prefix, no hooks, no routes of its own.
		rec = &controllerMeta{}
	}
	instance := c.registry.Get(class)

	ownHooks := bindHooks(instance, rec.hooks)
	ctrlOperation := stripDocumentOnly(rec.operation)

	frag := apiFragment{
		tags:       mergeTags(nil, rec.tags),
		components: cloneComponents(rec.components),
	}

	doc := c.beginDocument(rec, instance)

	var out []apiRoute

	if provider, ok := instance.(SubControllerProvider); ok {
		for _, sub := range provider.SubControllers() {
			subRoutes, subFrag, err := c.compose(sub)
			if err != nil {
				return nil, apiFragment{}, err
			}
			frag.tags = mergeTags(frag.tags, subFrag.tags)
			frag.components = mergeComponents(frag.components, subFrag.components)
			if doc != nil {
				doc.Tags = mergeTags(doc.Tags, subFrag.tags)
				doc.Components = mergeComponents(doc.Components, subFrag.components)
			}
			for _, sr := range subRoutes {
				r := sr.route
				r.Path = joinPaths(rec.path, r.Path)
				r.Hooks = append(append([]Hook{}, ownHooks...), r.Hooks...)
				op := mergeOperations(ctrlOperation, sr.operation)
				if doc != nil {
					insertOperation(doc, r, op)
				}
				out = append(out, apiRoute{route: r, operation: op})
			}
		}
	}

	// Own routable members, in declaration order. Members without
	// HTTP-method metadata are not routes and are skipped.
	for _, member := range rec.members {
		rm := rec.routes[member]
		if rm == nil || rm.httpMethod == "" {
			continue
		}
		frag.tags = mergeTags(frag.tags, rm.tags)
		frag.components = mergeComponents(frag.components, rm.components)
		if doc != nil {
			doc.Tags = mergeTags(doc.Tags, rm.tags)
			doc.Components = mergeComponents(doc.Components, rm.components)
		}
		r := Route{
			Controller: instance,
			Method:     rm.httpMethod,
			Path:       joinPaths(rec.path, rm.path),
			Hooks:      append(append([]Hook{}, ownHooks...), bindHooks(instance, rm.hooks)...),
			Handler:    rm.handler(instance),
			MemberName: member,
		}
		op := mergeOperations(ctrlOperation, rm.operation)
		if doc != nil {
			insertOperation(doc, r, op)
		}
		out = append(out, apiRoute{route: r, operation: op})
	}

	if doc != nil {
		if err := checkPathCollisions(doc.Paths); err != nil {
			return nil, apiFragment{}, err
		}
		c.docs.put(class, doc)
	}

	return out, frag, nil
}

// beginDocument starts an OpenAPI document when the controller declares
// info. The document root pulls servers, security and externalDocs from the
// undiminished controller operation fragment, plus the controller's own tags
// and components.
func (c *Composer) beginDocument(rec *controllerMeta, instance any) *openapi3.T {
	info := rec.info
	if rec.infoFn != nil {
		info = rec.infoFn(instance)
	}
	if info == nil {
		return nil
	}
	doc := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info:    info,
		Paths:   openapi3.Paths{},
	}
	doc.Tags = mergeTags(nil, rec.tags)
	doc.Components = cloneComponents(rec.components)
	if op := rec.operation; op != nil {
		if op.Servers != nil {
			doc.Servers = *op.Servers
		}
		if op.Security != nil {
			doc.Security = *op.Security
		}
		doc.ExternalDocs = op.ExternalDocs
	}
	return doc
}

// insertOperation records a route's operation under the document's paths,
// with :name parameters rewritten to {name} and the method lowercased by the
// document serializer. Wildcard-method routes have no single OpenAPI
// operation slot and are left out of the document.
func insertOperation(doc *openapi3.T, r Route, op *openapi3.Operation) {
	if r.Method == MethodAll {
		return
	}
	if op == nil {
		op = &openapi3.Operation{}
	}
	if op.Responses == nil {
		op.Responses = openapi3.Responses{}
	}
	path := openAPIPath(r.Path)
	item := doc.Paths[path]
	if item == nil {
		item = &openapi3.PathItem{}
		doc.Paths[path] = item
	}
	item.SetOperation(string(r.Method), op)
}
