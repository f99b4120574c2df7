package jsonschema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/goliatone/go-schemadoc/pkg/schema"
)

type memoryLoader struct {
	docs  map[string]string
	calls map[string]int
}

func (m *memoryLoader) Load(ctx context.Context, src Source) (schema.Document, error) {
	if m.calls != nil {
		m.calls[src.Location()]++
	}
	raw, ok := m.docs[src.Location()]
	if !ok {
		return schema.Document{}, fmt.Errorf("missing document %q: %w", src.Location(), fs.ErrNotExist)
	}
	return schema.NewDocument(src, []byte(raw))
}

type httpLoader struct {
	client *http.Client
}

func (h *httpLoader) Load(ctx context.Context, src Source) (schema.Document, error) {
	if src.Kind() != SourceKindURL {
		return schema.Document{}, errors.New("http loader: unsupported source kind")
	}
	if h.client == nil {
		return schema.Document{}, errors.New("http loader: client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Location(), nil)
	if err != nil {
		return schema.Document{}, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return schema.Document{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return schema.Document{}, fmt.Errorf("http loader: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return schema.Document{}, err
	}
	return schema.NewDocument(src, body)
}

func childObject(t *testing.T, obj *RawObject, key string) *RawObject {
	t.Helper()
	raw, ok := obj.Get(key)
	if !ok {
		t.Fatalf("expected key %q", key)
	}
	typed, ok := raw.(*RawObject)
	if !ok {
		t.Fatalf("expected %q to be an object, got %T", key, raw)
	}
	return typed
}

func TestResolver_ResolveLocalRef(t *testing.T) {
	root := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "name": {"type":"string"}
  },
  "type":"object",
  "properties": {
    "name": {"$ref": "#/$defs/name"}
  }
}`
	loader := &memoryLoader{docs: map[string]string{"root.json": root}}
	resolver := NewResolver(loader, ResolveOptions{})
	doc := MustNewDocument(SourceFromFS("root.json"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	resolved, err := resolver.Resolve(context.Background(), doc, payload)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	name := childObject(t, childObject(t, resolved, "properties"), "name")
	if typ, _ := name.Get("type"); typ != "string" {
		t.Fatalf("expected name type string, got %#v", typ)
	}
	if _, ok := name.Get("$ref"); ok {
		t.Fatalf("expected $ref to be resolved")
	}
}

func TestResolver_ResolveAnchorRef(t *testing.T) {
	root := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "title": {"$anchor":"Title", "type":"string"}
  },
  "type":"object",
  "properties": {
    "title": {"$ref": "#Title"}
  }
}`
	loader := &memoryLoader{docs: map[string]string{"root.json": root}}
	resolver := NewResolver(loader, ResolveOptions{})
	doc := MustNewDocument(SourceFromFS("root.json"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	resolved, err := resolver.Resolve(context.Background(), doc, payload)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	title := childObject(t, childObject(t, resolved, "properties"), "title")
	if typ, _ := title.Get("type"); typ != "string" {
		t.Fatalf("expected title type string, got %#v", typ)
	}
}

func TestResolver_CycleDetection(t *testing.T) {
	root := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "a": {"$ref":"#/$defs/b"},
    "b": {"$ref":"#/$defs/a"}
  },
  "type":"object"
}`
	loader := &memoryLoader{docs: map[string]string{"root.json": root}}
	resolver := NewResolver(loader, ResolveOptions{})
	doc := MustNewDocument(SourceFromFS("root.json"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), doc, payload)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
}

func TestResolver_ResolveExternalFSRef(t *testing.T) {
	root := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "type":"object",
  "properties": {
    "name": {"$ref": "defs.json#/$defs/name"}
  }
}`
	defs := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "name": {"type":"string"}
  }
}`
	loader := &memoryLoader{docs: map[string]string{
		"root.json": root,
		"defs.json": defs,
	}}
	resolver := NewResolver(loader, ResolveOptions{})
	doc := MustNewDocument(SourceFromFS("root.json"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	resolved, err := resolver.Resolve(context.Background(), doc, payload)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	name := childObject(t, childObject(t, resolved, "properties"), "name")
	if typ, _ := name.Get("type"); typ != "string" {
		t.Fatalf("expected name type string, got %#v", typ)
	}
}

func TestResolver_BaseDirCandidates(t *testing.T) {
	root := `{
  "type":"object",
  "properties": {
    "name": {"$ref": "defs.json#/$defs/name"}
  }
}`
	defs := `{
  "$defs": {"name": {"type":"string"}}
}`
	loader := &memoryLoader{
		docs:  map[string]string{"schemas/defs.json": defs},
		calls: make(map[string]int),
	}
	resolver := NewResolver(loader, ResolveOptions{BaseDirs: []string{"missing", "schemas"}})
	doc := MustNewDocument(SourceFromMemory("inline"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	resolved, err := resolver.Resolve(context.Background(), doc, payload)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	name := childObject(t, childObject(t, resolved, "properties"), "name")
	if typ, _ := name.Get("type"); typ != "string" {
		t.Fatalf("expected name type string, got %#v", typ)
	}
	if loader.calls["missing/defs.json"] != 1 {
		t.Fatalf("expected first candidate to be tried, calls %#v", loader.calls)
	}
}

func TestResolver_RefNotResolved(t *testing.T) {
	root := `{
  "type":"object",
  "properties": {
    "name": {"$ref": "defs.json#/$defs/name"}
  }
}`
	loader := &memoryLoader{docs: map[string]string{}}
	resolver := NewResolver(loader, ResolveOptions{BaseDirs: []string{"a", "b"}})
	doc := MustNewDocument(SourceFromMemory("inline"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), doc, payload)
	if !errors.Is(err, ErrRefNotResolved) {
		t.Fatalf("expected ErrRefNotResolved, got %v", err)
	}
}

func TestResolver_BadCandidateStopsSearch(t *testing.T) {
	root := `{
  "type":"object",
  "properties": {
    "name": {"$ref": "defs.json#/$defs/name"}
  }
}`
	good := `{
  "$defs": {"name": {"type":"string"}}
}`
	loader := &memoryLoader{
		docs: map[string]string{
			"bad/defs.json":  `{"$schema": "https://example.com/not-a-draft"}`,
			"good/defs.json": good,
		},
		calls: make(map[string]int),
	}
	resolver := NewResolver(loader, ResolveOptions{BaseDirs: []string{"bad", "good"}})
	doc := MustNewDocument(SourceFromMemory("inline"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), doc, payload)
	if !errors.Is(err, ErrUnsupportedDialect) {
		t.Fatalf("expected dialect error from first candidate, got %v", err)
	}
	if loader.calls["good/defs.json"] != 0 {
		t.Fatalf("expected search to stop at the bad candidate, calls %#v", loader.calls)
	}
}

func TestResolver_UnsupportedRefExtension(t *testing.T) {
	root := `{
  "type":"object",
  "properties": {
    "name": {"$ref": "defs.txt#/$defs/name"}
  }
}`
	loader := &memoryLoader{docs: map[string]string{"defs.txt": "{}"}}
	resolver := NewResolver(loader, ResolveOptions{})
	doc := MustNewDocument(SourceFromMemory("inline"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), doc, payload)
	if !errors.Is(err, ErrUnsupportedExtension) {
		t.Fatalf("expected ErrUnsupportedExtension, got %v", err)
	}
}

func TestResolver_PathTraversalGuard(t *testing.T) {
	root := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "type":"object",
  "properties": {
    "secret": {"$ref": "../secret.json"}
  }
}`
	loader := &memoryLoader{docs: map[string]string{"schemas/root.json": root}}
	resolver := NewResolver(loader, ResolveOptions{})
	doc := MustNewDocument(SourceFromFS("schemas/root.json"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), doc, payload)
	if err == nil {
		t.Fatalf("expected path traversal error")
	}
}

func TestResolver_MaxDocuments(t *testing.T) {
	root := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "type":"object",
  "properties": {
    "name": {"$ref": "defs.json#/$defs/name"}
  }
}`
	defs := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "$defs": {"name": {"type":"string"}}
}`
	loader := &memoryLoader{docs: map[string]string{
		"root.json": root,
		"defs.json": defs,
	}}
	resolver := NewResolver(loader, ResolveOptions{MaxDocuments: 1})
	doc := MustNewDocument(SourceFromFS("root.json"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), doc, payload)
	if err == nil {
		t.Fatalf("expected max documents error")
	}
}

func TestResolver_MaxDocumentBytes(t *testing.T) {
	root := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "type":"object",
  "properties": {
    "name": {"$ref": "defs.json#/$defs/name"}
  }
}`
	defs := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "$defs": {"name": {"type":"string", "description":"this-is-way-too-long"}}
}`
	loader := &memoryLoader{docs: map[string]string{
		"root.json": root,
		"defs.json": defs,
	}}
	resolver := NewResolver(loader, ResolveOptions{MaxDocumentBytes: 50})
	doc := MustNewDocument(SourceFromFS("root.json"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), doc, payload)
	if err == nil {
		t.Fatalf("expected max document size error")
	}
}

func TestResolver_HTTPRefsDisabled(t *testing.T) {
	root := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "type":"object",
  "properties": {
    "remote": {"$ref": "http://example.com/schema.json"}
  }
}`
	loader := &memoryLoader{docs: map[string]string{"root.json": root}}
	resolver := NewResolver(loader, ResolveOptions{})
	doc := MustNewDocument(SourceFromFS("root.json"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), doc, payload)
	if err == nil {
		t.Fatalf("expected http refs disabled error")
	}
}

func TestResolver_HTTPRefsEnabled(t *testing.T) {
	remote := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "type":"string"
}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(remote))
	}))
	defer server.Close()

	root := fmt.Sprintf(`{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "type":"object",
  "properties": {
    "remote": {"$ref": "%s"}
  }
}`, server.URL)

	loader := &httpLoader{client: server.Client()}
	resolver := NewResolver(loader, ResolveOptions{AllowHTTPRefs: true})
	doc := MustNewDocument(SourceFromFS("root.json"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	resolved, err := resolver.Resolve(context.Background(), doc, payload)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	remoteProp := childObject(t, childObject(t, resolved, "properties"), "remote")
	if typ, _ := remoteProp.Get("type"); typ != "string" {
		t.Fatalf("expected remote type string, got %#v", typ)
	}
}

func TestResolver_CachesDocuments(t *testing.T) {
	root := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "type":"object",
  "properties": {
    "first": {"$ref": "defs.json#/$defs/name"},
    "second": {"$ref": "defs.json#/$defs/name"}
  }
}`
	defs := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "$defs": {"name": {"type":"string"}}
}`
	loader := &memoryLoader{
		docs: map[string]string{
			"root.json": root,
			"defs.json": defs,
		},
		calls: make(map[string]int),
	}
	resolver := NewResolver(loader, ResolveOptions{})
	doc := MustNewDocument(SourceFromFS("root.json"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), doc, payload)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if loader.calls["defs.json"] != 1 {
		t.Fatalf("expected defs.json to load once, got %d", loader.calls["defs.json"])
	}
}

func TestResolver_PreservesPropertyOrder(t *testing.T) {
	root := `{
  "$schema":"https://json-schema.org/draft/2020-12/schema",
  "type":"object",
  "properties": {
    "zeta": {"type":"string"},
    "alpha": {"type":"integer"},
    "mid": {"type":"boolean"}
  }
}`
	loader := &memoryLoader{docs: map[string]string{"root.json": root}}
	resolver := NewResolver(loader, ResolveOptions{})
	doc := MustNewDocument(SourceFromFS("root.json"), []byte(root))
	payload, err := parseSchemaPayload(doc.Raw())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	resolved, err := resolver.Resolve(context.Background(), doc, payload)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	props := childObject(t, resolved, "properties")
	got := objectKeys(props)
	want := []string{"zeta", "alpha", "mid"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected property order %v, got %v", want, got)
	}
}
