package foal

import "strings"

// Route is the flat descriptor binding an HTTP method and path to a bound
// handler and its hook chain. The dispatcher matches requests against the
// composed route list and runs Hooks in order before Handler.
type Route struct {
	// Controller is the singleton instance owning the route.
	Controller any
	// Method is the HTTP method, or MethodAll for every method.
	Method Method
	// Path is the normalized route path with parameters in :name form.
	Path string
	// Hooks is the effective hook chain, ancestors first, bound to their
	// controller instances.
	Hooks []Hook
	// Handler is the route handler bound to Controller.
	Handler HandlerFunc
	// MemberName is the controller member the route originated from.
	MemberName string
}

// joinPaths joins a controller prefix with a route suffix, collapsing double
// slashes and enforcing a leading slash. Joining "/a/" with "/b" yields
// "/a/b"; joining "" with "" yields "/".
func joinPaths(prefix, suffix string) string {
	p := prefix + suffix
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// openAPIPath rewrites :name parameter segments to {name} for document
// purposes. Route matching keeps the :name form.
func openAPIPath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") {
			segments[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

// pathSkeleton collapses every parameter segment (:name or {name}) to "#".
// Two distinct templates with the same skeleton are ambiguous.
func pathSkeleton(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") || (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) {
			segments[i] = "#"
		}
	}
	return strings.Join(segments, "/")
}

// matchPath matches a request path against a route template, binding :name
// segments. It returns nil, false on mismatch.
func matchPath(template, requestPath string) (map[string]string, bool) {
	if len(requestPath) > 1 {
		requestPath = strings.TrimSuffix(requestPath, "/")
	}
	tsegs := strings.Split(template, "/")
	rsegs := strings.Split(requestPath, "/")
	if len(tsegs) != len(rsegs) {
		return nil, false
	}
	var params map[string]string
	for i, ts := range tsegs {
		if strings.HasPrefix(ts, ":") {
			if rsegs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[ts[1:]] = rsegs[i]
			continue
		}
		if ts != rsegs[i] {
			return nil, false
		}
	}
	return params, true
}
