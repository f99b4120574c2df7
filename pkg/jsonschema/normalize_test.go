package jsonschema

import (
	"reflect"
	"testing"
)

func mustPayload(t *testing.T, raw string) *RawObject {
	t.Helper()
	payload, err := parseSchemaPayload([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return payload
}

func TestSchemaFromRaw_Scalars(t *testing.T) {
	payload := mustPayload(t, `{
  "type": "string",
  "title": "Display name",
  "description": "Shown in the header.",
  "format": "email",
  "pattern": "^[a-z]+$",
  "minLength": 3,
  "maxLength": 64,
  "default": "anon",
  "enum": ["anon", "admin"]
}`)

	out, err := schemaFromRaw(payload, "#")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Type != "string" || out.Format != "email" || out.Pattern != "^[a-z]+$" {
		t.Fatalf("unexpected scalar fields: %#v", out)
	}
	if out.Title != "Display name" || out.Description != "Shown in the header." {
		t.Fatalf("unexpected text fields: %#v", out)
	}
	if out.MinLength == nil || *out.MinLength != 3 || out.MaxLength == nil || *out.MaxLength != 64 {
		t.Fatalf("unexpected length bounds: %#v", out)
	}
	if out.Default != "anon" {
		t.Fatalf("unexpected default: %#v", out.Default)
	}
	if !reflect.DeepEqual(out.Enum, []any{"anon", "admin"}) {
		t.Fatalf("unexpected enum: %#v", out.Enum)
	}
}

func TestSchemaFromRaw_PropertyOrder(t *testing.T) {
	payload := mustPayload(t, `{
  "type": "object",
  "required": ["zeta"],
  "properties": {
    "zeta": {"type": "string"},
    "alpha": {"type": "integer"},
    "mid": {"type": "boolean"}
  }
}`)

	out, err := schemaFromRaw(payload, "#")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := []string{"zeta", "alpha", "mid"}
	if !reflect.DeepEqual(out.PropertyOrder, want) {
		t.Fatalf("expected property order %v, got %v", want, out.PropertyOrder)
	}
	if !reflect.DeepEqual(out.PropertyNames(), want) {
		t.Fatalf("expected PropertyNames %v, got %v", want, out.PropertyNames())
	}
	if _, ok := out.RequiredSet()["zeta"]; !ok {
		t.Fatalf("expected zeta required")
	}
}

func TestSchemaFromRaw_SingleItemsBecomesSequence(t *testing.T) {
	payload := mustPayload(t, `{
  "type": "array",
  "items": {"type": "string"}
}`)

	out, err := schemaFromRaw(payload, "#")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].Type != "string" {
		t.Fatalf("expected one string item, got %#v", out.Items)
	}
}

func TestSchemaFromRaw_TupleItems(t *testing.T) {
	payload := mustPayload(t, `{
  "type": "array",
  "items": [
    {"type": "string"},
    {"type": "object", "properties": {"id": {"type": "integer"}}}
  ]
}`)

	out, err := schemaFromRaw(payload, "#")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("expected two items, got %d", len(out.Items))
	}
	if out.Items[0].Type != "string" || out.Items[1].Type != "object" {
		t.Fatalf("unexpected item types: %#v", out.Items)
	}
}

func TestSchemaFromRaw_ArrayBounds(t *testing.T) {
	payload := mustPayload(t, `{
  "type": "array",
  "minItems": 1,
  "maxItems": 10
}`)

	out, err := schemaFromRaw(payload, "#")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Items != nil {
		t.Fatalf("expected nil items, got %#v", out.Items)
	}
	if out.MinItems == nil || *out.MinItems != 1 || out.MaxItems == nil || *out.MaxItems != 10 {
		t.Fatalf("unexpected item bounds: %#v", out)
	}
}

func TestSchemaFromRaw_ExclusiveBoundForms(t *testing.T) {
	boolForm := mustPayload(t, `{
  "type": "integer",
  "minimum": 0,
  "exclusiveMinimum": true
}`)
	out, err := schemaFromRaw(boolForm, "#")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Minimum == nil || *out.Minimum != 0 || !out.ExclusiveMinimum {
		t.Fatalf("unexpected boolean-form bounds: %#v", out)
	}

	numeric := mustPayload(t, `{
  "type": "integer",
  "exclusiveMaximum": 100
}`)
	out, err = schemaFromRaw(numeric, "#")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Maximum == nil || *out.Maximum != 100 || !out.ExclusiveMaximum {
		t.Fatalf("unexpected numeric-form bounds: %#v", out)
	}

	conflict := mustPayload(t, `{
  "type": "integer",
  "minimum": 0,
  "exclusiveMinimum": 5
}`)
	if _, err := schemaFromRaw(conflict, "#"); err == nil {
		t.Fatalf("expected conflict error")
	}
}

func TestSchemaFromRaw_IgnoresUnknownKeywords(t *testing.T) {
	payload := mustPayload(t, `{
  "type": "object",
  "additionalProperties": false,
  "unevaluatedProperties": false,
  "deprecated": true,
  "properties": {
    "name": {"type": "string", "contentEncoding": "base64"}
  }
}`)

	out, err := schemaFromRaw(payload, "#")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out.Properties) != 1 {
		t.Fatalf("expected one property, got %#v", out.Properties)
	}
}

func TestSchemaFromRaw_Extensions(t *testing.T) {
	payload := mustPayload(t, `{
  "type": "string",
  "x-internal": true,
  "x-owner": "platform"
}`)

	out, err := schemaFromRaw(payload, "#")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Extensions["x-internal"] != true || out.Extensions["x-owner"] != "platform" {
		t.Fatalf("unexpected extensions: %#v", out.Extensions)
	}
}

func TestSchemaFromRaw_NullDefaultDropped(t *testing.T) {
	payload := mustPayload(t, `{
  "type": "string",
  "default": null
}`)

	out, err := schemaFromRaw(payload, "#")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Default != nil {
		t.Fatalf("expected nil default, got %#v", out.Default)
	}
}

func TestSchemaFromRaw_AllOfCaptured(t *testing.T) {
	payload := mustPayload(t, `{
  "allOf": [
    {"type": "object", "properties": {"a": {"type": "string"}}},
    {"type": "object", "properties": {"b": {"type": "integer"}}}
  ]
}`)

	out, err := schemaFromRaw(payload, "#")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out.AllOf) != 2 {
		t.Fatalf("expected two allOf members, got %d", len(out.AllOf))
	}
}

func TestSchemaFromRaw_UnresolvedRefRejected(t *testing.T) {
	payload := mustPayload(t, `{"$ref": "#/$defs/thing"}`)
	if _, err := schemaFromRaw(payload, "#"); err == nil {
		t.Fatalf("expected unresolved ref error")
	}
}

func TestSchemaFromRaw_MalformedRequired(t *testing.T) {
	payload := mustPayload(t, `{
  "type": "object",
  "required": [42]
}`)
	if _, err := schemaFromRaw(payload, "#"); err == nil {
		t.Fatalf("expected malformed required error")
	}
}
