package foal

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/forkdown/foal/testutil"
)

type docsFixtureController struct{}

func (c *docsFixtureController) List(ctx *Context) (Response, error) {
	return OK([]string{}), nil
}

func newDocsStore(t *testing.T) *DocumentStore {
	t.Helper()
	meta := NewMetadata()
	b := Register[docsFixtureController](meta).
		Path("/pets").
		Info(&openapi3.Info{Title: "Pet API", Version: "1.0.0"})
	b.Get("List", "", (*docsFixtureController).List)

	composer := NewComposer(meta, NewRegistry())
	if _, err := composer.Compose(ClassOf[docsFixtureController]()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return composer.Documents()
}

func TestDocsHandler_JSON(t *testing.T) {
	handler := DocsHandler(newDocsStore(t), ClassOf[docsFixtureController]())

	req, w := testutil.NewRequest().GET("/openapi.json").Build()
	handler.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		t.Errorf("expected JSON content type, got %s", w.Header().Get("Content-Type"))
	}

	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON document: %v", err)
	}
	if doc["openapi"] != "3.0.0" {
		t.Errorf("expected openapi 3.0.0, got %v", doc["openapi"])
	}
	paths, ok := doc["paths"].(map[string]any)
	if !ok || paths["/pets"] == nil {
		t.Errorf("expected /pets in paths, got %v", doc["paths"])
	}
}

func TestDocsHandler_YAML(t *testing.T) {
	handler := DocsHandler(newDocsStore(t), ClassOf[docsFixtureController]())

	req, w := testutil.NewRequest().GET("/openapi").WithQuery("format", "yaml").Build()
	handler.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Header().Get("Content-Type"), "yaml") {
		t.Errorf("expected YAML content type, got %s", w.Header().Get("Content-Type"))
	}

	var doc map[string]any
	if err := yaml.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("invalid YAML document: %v", err)
	}
	info, ok := doc["info"].(map[string]any)
	if !ok || info["title"] != "Pet API" {
		t.Errorf("expected document info, got %v", doc["info"])
	}
}

func TestDocsHandler_AcceptHeader(t *testing.T) {
	handler := DocsHandler(newDocsStore(t), ClassOf[docsFixtureController]())

	req, w := testutil.NewRequest().GET("/openapi").
		WithHeader("Accept", "application/yaml").Build()
	handler.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Header().Get("Content-Type"), "yaml") {
		t.Errorf("expected YAML via Accept header, got %s", w.Header().Get("Content-Type"))
	}
}

func TestDocsHandler_UnknownClass(t *testing.T) {
	type unregistered struct{}

	handler := DocsHandler(NewDocumentStore(), ClassOf[unregistered]())

	req, w := testutil.NewRequest().GET("/openapi.json").Build()
	handler.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
	testutil.AssertJSONError(t, w, string(CodeNotFound))
}
