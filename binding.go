package foal

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

// DecodeQuery decodes URL query parameters into v (a struct pointer with
// `schema` tags) and validates it with `validate` tags. Validation failures
// surface as validator.ValidationErrors, which the default error transformer
// maps to an invalid_argument response with per-field details.
func (c *Context) DecodeQuery(v any) error {
	if err := schemaDecoder.Decode(v, c.req.URL.Query()); err != nil {
		return Errorf(CodeInvalidArgument, "failed to decode query: %v", err)
	}
	return validate.Struct(v)
}

// DecodeBody decodes the JSON request body into v and validates it with
// `validate` tags. The body is capped at the app's configured maximum size.
func (c *Context) DecodeBody(v any) error {
	if c.req.Body == nil {
		return Errorf(CodeInvalidArgument, "missing request body")
	}
	body := c.req.Body
	if c.maxRequestBodySize > 0 {
		body = http.MaxBytesReader(c.w, body, int64(c.maxRequestBodySize))
	}
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return Errorf(CodeInvalidArgument, "failed to decode body: %v", err)
	}
	return validate.Struct(v)
}
