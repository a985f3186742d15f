package foal

// Method identifies the HTTP method a route responds to.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"

	// MethodAll matches every HTTP method at the route's path.
	MethodAll Method = "*"
)

// Matches reports whether the route method accepts the given HTTP method.
func (m Method) Matches(httpMethod string) bool {
	return m == MethodAll || string(m) == httpMethod
}
