package foal

import (
	"errors"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

func TestMergeOperations_FieldWise(t *testing.T) {
	parent := &openapi3.Operation{
		Summary:  "A",
		Security: &openapi3.SecurityRequirements{{"bearer": []string{}}},
	}
	child := &openapi3.Operation{Summary: "B"}

	merged := mergeOperations(parent, child)
	if merged.Summary != "B" {
		t.Errorf("expected child summary to win, got %q", merged.Summary)
	}
	if merged.Security == nil {
		t.Error("expected parent security to be inherited")
	}

	// Merge is per-field, not whole-object replacement.
	merged = mergeOperations(parent, &openapi3.Operation{})
	if merged.Summary != "A" {
		t.Errorf("expected parent summary on empty child, got %q", merged.Summary)
	}
}

func TestMergeOperations_Nil(t *testing.T) {
	if mergeOperations(nil, nil) != nil {
		t.Error("expected nil for two nil fragments")
	}
	merged := mergeOperations(nil, &openapi3.Operation{Summary: "B"})
	if merged == nil || merged.Summary != "B" {
		t.Errorf("unexpected merge result: %+v", merged)
	}
}

func TestMergeOperations_DoesNotMutateInputs(t *testing.T) {
	parent := &openapi3.Operation{Summary: "A"}
	child := &openapi3.Operation{Description: "child"}
	mergeOperations(parent, child)
	if parent.Description != "" || child.Summary != "" {
		t.Error("expected inputs to be left untouched")
	}
}

func TestStripDocumentOnly(t *testing.T) {
	op := &openapi3.Operation{
		Summary:      "kept",
		Servers:      &openapi3.Servers{{URL: "https://example.com"}},
		Security:     &openapi3.SecurityRequirements{{"bearer": []string{}}},
		ExternalDocs: &openapi3.ExternalDocs{URL: "https://docs.example.com"},
	}

	stripped := stripDocumentOnly(op)
	if stripped.Summary != "kept" {
		t.Errorf("expected summary kept, got %q", stripped.Summary)
	}
	if stripped.Servers != nil || stripped.Security != nil || stripped.ExternalDocs != nil {
		t.Error("expected document-only fields to be stripped")
	}
	if op.Servers == nil {
		t.Error("expected the original fragment to keep its fields")
	}
}

func TestMergeComponents_LaterWins(t *testing.T) {
	parent := &openapi3.Components{
		Schemas: openapi3.Schemas{
			"Foo": openapi3.NewSchemaRef("", &openapi3.Schema{Description: "X"}),
			"Bar": openapi3.NewSchemaRef("", &openapi3.Schema{Description: "bar"}),
		},
	}
	child := &openapi3.Components{
		Schemas: openapi3.Schemas{
			"Foo": openapi3.NewSchemaRef("", &openapi3.Schema{Description: "Y"}),
		},
	}

	merged := mergeComponents(cloneComponents(parent), child)
	if merged.Schemas["Foo"].Value.Description != "Y" {
		t.Error("expected later-declared Foo to win")
	}
	if merged.Schemas["Bar"] == nil {
		t.Error("expected Bar to survive the merge")
	}
	if parent.Schemas["Foo"].Value.Description != "X" {
		t.Error("expected the parent fragment to be unchanged")
	}
}

func TestMergeTags_UnionByName(t *testing.T) {
	tags := mergeTags(nil, openapi3.Tags{
		{Name: "a", Description: "first"},
		{Name: "b"},
	})
	tags = mergeTags(tags, openapi3.Tags{
		{Name: "a", Description: "second"},
		{Name: "c"},
	})

	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}
	if tags[0].Name != "a" || tags[0].Description != "second" {
		t.Errorf("expected tag a replaced in place, got %+v", tags[0])
	}
	if tags[2].Name != "c" {
		t.Errorf("expected stable order, got %+v", tags)
	}
}

func TestCheckPathCollisions(t *testing.T) {
	ok := openapi3.Paths{
		"/items":        &openapi3.PathItem{},
		"/items/{id}":   &openapi3.PathItem{},
		"/items/{id}/x": &openapi3.PathItem{},
	}
	if err := checkPathCollisions(ok); err != nil {
		t.Errorf("unexpected collision: %v", err)
	}

	bad := openapi3.Paths{
		"/items/{a}": &openapi3.PathItem{},
		"/items/{b}": &openapi3.PathItem{},
	}
	err := checkPathCollisions(bad)
	if err == nil {
		t.Fatal("expected a collision")
	}
	var conflict *PathConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *PathConflictError, got %T", err)
	}
	if conflict.First != "/items/{a}" || conflict.Second != "/items/{b}" {
		t.Errorf("expected deterministic template order, got %q and %q", conflict.First, conflict.Second)
	}
}
