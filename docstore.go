package foal

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// DocumentStore holds completed OpenAPI documents keyed by the controller
// class that declared info. Documents are written once per composition pass
// and read at serving time.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[reflect.Type]*openapi3.T
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[reflect.Type]*openapi3.T)}
}

func (s *DocumentStore) put(class Class, doc *openapi3.T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[class.t] = doc
}

// Document returns the document registered for a class, if any.
func (s *DocumentStore) Document(class Class) (*openapi3.T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[class.t]
	return doc, ok
}

// DocsHandler serves the OpenAPI document of a class as JSON, or as YAML
// when the client sends Accept: application/yaml or ?format=yaml. It returns
// 404 until a composition pass has registered the document.
func DocsHandler(store *DocumentStore, class Class) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, ok := store.Document(class)
		if !ok {
			writeError(w, Errorf(CodeNotFound, "no OpenAPI document for %s", class.Name()), nil)
			return
		}
		data, err := json.Marshal(doc)
		if err != nil {
			writeError(w, Errorf(CodeInternal, "failed to serialize document: %v", err), nil)
			return
		}
		if wantsYAML(r) {
			var tree map[string]any
			if err := json.Unmarshal(data, &tree); err != nil {
				writeError(w, Errorf(CodeInternal, "failed to serialize document: %v", err), nil)
				return
			}
			out, err := yaml.Marshal(tree)
			if err != nil {
				writeError(w, Errorf(CodeInternal, "failed to serialize document: %v", err), nil)
				return
			}
			w.Header().Set("Content-Type", "application/yaml")
			if _, err := w.Write(out); err != nil {
				slog.Default().Error("failed to write document", slog.Any("error", err))
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(data); err != nil {
			slog.Default().Error("failed to write document", slog.Any("error", err))
		}
	})
}

func wantsYAML(r *http.Request) bool {
	if r.URL.Query().Get("format") == "yaml" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "yaml")
}
