package descriptor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemadoc/pkg/schema"
)

func fptr(v float64) *float64 { return &v }

func iptr(v int) *int { return &v }

func extractLines(t *testing.T, root schema.Schema) []string {
	t.Helper()
	list, err := Extract(root)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	lines := make([]string, 0, len(list))
	for _, d := range list {
		lines = append(lines, d.String())
	}
	return lines
}

func TestExtract_RootMustBeObject(t *testing.T) {
	_, err := Extract(schema.Schema{Type: schema.TypeString})
	if !errors.Is(err, ErrRootNotObject) {
		t.Fatalf("expected ErrRootNotObject, got %v", err)
	}
}

func TestExtract_RootAllOfRejected(t *testing.T) {
	root := schema.Schema{
		Type: schema.TypeObject,
		AllOf: []schema.Schema{
			{Type: schema.TypeObject},
		},
	}
	list, err := Extract(root)
	if !errors.Is(err, ErrUnsupportedComposition) {
		t.Fatalf("expected ErrUnsupportedComposition, got %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected zero descriptors, got %d", len(list))
	}
}

func TestExtract_NestedObjectPaddingAndRequired(t *testing.T) {
	root := schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]schema.Schema{
			"a": {
				Type:     schema.TypeObject,
				Required: []string{"b"},
				Properties: map[string]schema.Schema{
					"b": {Type: schema.TypeString},
				},
			},
		},
	}

	list, err := Extract(root)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one descriptor, got %d", len(list))
	}
	d := list[0]
	if d.Name != "b" || d.Depth != 1 || !d.Required {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
	if got, want := d.String(), "{string}  b "; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExtract_RequiredBracketWrap(t *testing.T) {
	root := schema.Schema{
		Type:     schema.TypeObject,
		Required: []string{"kept"},
		Properties: map[string]schema.Schema{
			"kept":    {Type: schema.TypeString},
			"skipped": {Type: schema.TypeString},
		},
		PropertyOrder: []string{"kept", "skipped"},
	}

	got := extractLines(t, root)
	want := []string{
		"{string} kept ",
		"{string} [skipped] ",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_DefaultComposesBeforeBracketWrap(t *testing.T) {
	root := schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]schema.Schema{
			"name": {Type: schema.TypeString, Default: "x"},
		},
	}

	got := extractLines(t, root)
	want := []string{`{string} [name="x"] `}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_ExclusiveBoundsShiftByOne(t *testing.T) {
	root := schema.Schema{
		Type:     schema.TypeObject,
		Required: []string{"count"},
		Properties: map[string]schema.Schema{
			"count": {
				Type:             schema.TypeInteger,
				Minimum:          fptr(5),
				Maximum:          fptr(10),
				ExclusiveMinimum: true,
				ExclusiveMaximum: true,
			},
		},
	}

	got := extractLines(t, root)
	want := []string{"{integer{6..9}} count "}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_NoBoundsMeansNoSuffix(t *testing.T) {
	root := schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]schema.Schema{
			"note":  {Type: schema.TypeString},
			"score": {Type: schema.TypeNumber},
			"tags":  {Type: schema.TypeArray},
		},
		PropertyOrder: []string{"note", "score", "tags"},
	}

	for _, line := range extractLines(t, root) {
		if containsBraceSuffix(line) {
			t.Fatalf("unexpected size suffix in %q", line)
		}
	}
}

func containsBraceSuffix(line string) bool {
	for i := 1; i+1 < len(line); i++ {
		if line[i] == '{' {
			return true
		}
	}
	return false
}

func TestExtract_ZeroBoundTreatedAsAbsent(t *testing.T) {
	root := schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]schema.Schema{
			"name": {Type: schema.TypeString, MinLength: iptr(0), MaxLength: iptr(12)},
		},
	}

	got := extractLines(t, root)
	want := []string{"{string{..12}} [name] "}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_ArrayLeafBounds(t *testing.T) {
	root := schema.Schema{
		Type:     schema.TypeObject,
		Required: []string{"tags"},
		Properties: map[string]schema.Schema{
			"tags": {Type: schema.TypeArray, MinItems: iptr(1), MaxItems: iptr(3)},
		},
	}

	got := extractLines(t, root)
	want := []string{"{array{1..3}} tags "}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_ArraySequenceRecurses(t *testing.T) {
	root := schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]schema.Schema{
			"variants": {
				Type: schema.TypeArray,
				Items: []schema.Schema{
					{
						Type:     schema.TypeObject,
						Required: []string{"kind"},
						Properties: map[string]schema.Schema{
							"kind": {Type: schema.TypeString},
						},
					},
					{
						Type: schema.TypeObject,
						Properties: map[string]schema.Schema{
							"weight": {Type: schema.TypeNumber},
						},
					},
				},
			},
		},
	}

	list, err := Extract(root)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected two descriptors, got %d: %+v", len(list), list)
	}
	for _, d := range list {
		if d.Depth != 1 {
			t.Fatalf("expected member fields at depth 1, got %+v", d)
		}
		if d.Required {
			t.Fatalf("member schemas carry no requiredness, got %+v", d)
		}
	}
	if list[0].Name != "kind" || list[1].Name != "weight" {
		t.Fatalf("unexpected names: %+v", list)
	}
}

func TestExtract_EnumSuffix(t *testing.T) {
	root := schema.Schema{
		Type:     schema.TypeObject,
		Required: []string{"level", "bits"},
		Properties: map[string]schema.Schema{
			"level": {Type: schema.TypeString, Enum: []any{"debug", "info", "warn"}},
			"bits":  {Type: schema.TypeInteger, Enum: []any{8, 16}},
		},
		PropertyOrder: []string{"level", "bits"},
	}

	got := extractLines(t, root)
	want := []string{
		`{string="debug,info,warn"} level `,
		`{integer="8,16"} bits `,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_FormatWinsOverPattern(t *testing.T) {
	root := schema.Schema{
		Type:     schema.TypeObject,
		Required: []string{"email", "slug"},
		Properties: map[string]schema.Schema{
			"email": {Type: schema.TypeString, Format: "email", Pattern: "^.+@.+$"},
			"slug":  {Type: schema.TypeString, Pattern: "^[a-z-]+$"},
		},
		PropertyOrder: []string{"email", "slug"},
	}

	got := extractLines(t, root)
	want := []string{
		"{string / email} email ",
		"{string / ^[a-z-]+$} slug ",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_TitleWinsOverDescription(t *testing.T) {
	root := schema.Schema{
		Type:     schema.TypeObject,
		Required: []string{"id"},
		Properties: map[string]schema.Schema{
			"id": {
				Type:        schema.TypeString,
				Title:       "Identifier",
				Description: "Longer prose that loses.",
			},
		},
	}

	got := extractLines(t, root)
	want := []string{"{string} id Identifier"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_DocumentOrderPreserved(t *testing.T) {
	root := schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]schema.Schema{
			"zeta":  {Type: schema.TypeString},
			"alpha": {Type: schema.TypeString},
			"mid":   {Type: schema.TypeString},
		},
		PropertyOrder: []string{"zeta", "alpha", "mid"},
	}

	list, err := Extract(root)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	names := []string{list[0].Name, list[1].Name, list[2].Name}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	root := schema.Schema{
		Type:     schema.TypeObject,
		Required: []string{"id"},
		Properties: map[string]schema.Schema{
			"id":   {Type: schema.TypeString, MinLength: iptr(3)},
			"tags": {Type: schema.TypeArray, MaxItems: iptr(5)},
			"meta": {
				Type: schema.TypeObject,
				Properties: map[string]schema.Schema{
					"origin": {Type: schema.TypeString},
				},
			},
		},
	}

	first := extractLines(t, root)
	second := extractLines(t, root)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("output not deterministic (-first +second):\n%s", diff)
	}
}

func TestExtract_BooleanLeafIsBare(t *testing.T) {
	root := schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]schema.Schema{
			"active": {Type: schema.TypeBoolean, Default: true, Description: "Soft-delete flag."},
		},
	}

	got := extractLines(t, root)
	want := []string{"{boolean} [active=true] Soft-delete flag."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}
