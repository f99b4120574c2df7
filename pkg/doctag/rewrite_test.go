package doctag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// renderCall keeps exported fields so cmp.Diff can compare values directly.
type renderCall struct {
	Group string
	Path  string
}

func stubRender(lines []string, err error) (RenderFunc, *[]renderCall) {
	calls := &[]renderCall{}
	fn := func(_ context.Context, group, path string) ([]string, error) {
		*calls = append(*calls, renderCall{Group: group, Path: path})
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(lines))
		for _, line := range lines {
			if group != "" {
				line = "(" + group + ") " + line
			}
			out = append(out, line)
		}
		return out, nil
	}
	return fn, calls
}

func TestRewriter_ExpandsTagPreservingLeader(t *testing.T) {
	render, calls := stubRender([]string{"{string} id ", "{string} [name] "}, nil)
	rewriter := NewRewriter(render)

	src := strings.Join([]string{
		"package login",
		"",
		"// Login handles POST /login.",
		"// (auth) {schema} ./schemas/login.json",
		"func Login() {}",
		"",
	}, "\n")

	out, changed, err := rewriter.Rewrite(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if !changed {
		t.Fatal("expected rewrite to report a change")
	}

	want := strings.Join([]string{
		"package login",
		"",
		"// Login handles POST /login.",
		"// (auth) {schema} ./schemas/login.json",
		"// (auth) {string} id ",
		"// (auth) {string} [name] ",
		"func Login() {}",
		"",
	}, "\n")
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]renderCall{{Group: "auth", Path: "./schemas/login.json"}}, *calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriter_Idempotent(t *testing.T) {
	render, _ := stubRender([]string{"{string} id ", "{string} [name] "}, nil)
	rewriter := NewRewriter(render)

	src := strings.Join([]string{
		"// Login handles POST /login.",
		"// (auth) {schema} ./schemas/login.json",
		"func Login() {}",
	}, "\n")

	first, changed, err := rewriter.Rewrite(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("first rewrite: %v", err)
	}
	if !changed {
		t.Fatal("expected first rewrite to report a change")
	}

	second, changed, err := rewriter.Rewrite(context.Background(), first)
	if err != nil {
		t.Fatalf("second rewrite: %v", err)
	}
	if changed {
		t.Fatal("expected second rewrite to report no change")
	}
	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Fatalf("second rewrite not idempotent (-first +second):\n%s", diff)
	}
}

func TestRewriter_ReplacesStaleExpansion(t *testing.T) {
	render, _ := stubRender([]string{"{string} id ", "{integer} [age] "}, nil)
	rewriter := NewRewriter(render)

	src := strings.Join([]string{
		"// (auth) {schema} ./schemas/login.json",
		"// (auth) {string} id ",
		"// (auth) {string} [name] ",
		"// Trailing prose stays.",
		"func Login() {}",
	}, "\n")

	out, changed, err := rewriter.Rewrite(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if !changed {
		t.Fatal("expected stale block to be replaced")
	}

	want := strings.Join([]string{
		"// (auth) {schema} ./schemas/login.json",
		"// (auth) {string} id ",
		"// (auth) {integer} [age] ",
		"// Trailing prose stays.",
		"func Login() {}",
	}, "\n")
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriter_HashAndStarLeaders(t *testing.T) {
	render, _ := stubRender([]string{"{integer} port "}, nil)
	rewriter := NewRewriter(render)

	src := strings.Join([]string{
		"# Service settings.",
		"# {schema} config.yaml",
		"/**",
		" * {schema} config.yaml",
		" */",
	}, "\n")

	out, changed, err := rewriter.Rewrite(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if !changed {
		t.Fatal("expected rewrite to report a change")
	}

	want := strings.Join([]string{
		"# Service settings.",
		"# {schema} config.yaml",
		"# {integer} port ",
		"/**",
		" * {schema} config.yaml",
		" * {integer} port ",
		" */",
	}, "\n")
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriter_LeavesOtherTagsAlone(t *testing.T) {
	render, calls := stubRender([]string{"{string} id "}, nil)
	rewriter := NewRewriter(render)

	src := strings.Join([]string{
		"// {param} name The user name.",
		"// plain prose about {schema} usage",
		"value := \"{schema} not-a-comment.json\"",
	}, "\n")

	out, changed, err := rewriter.Rewrite(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if changed {
		t.Fatal("expected no change")
	}
	if string(out) != src {
		t.Fatalf("expected source untouched\nwant: %q\n got: %q", src, string(out))
	}
	if len(*calls) != 0 {
		t.Fatalf("expected no render calls, got %d", len(*calls))
	}
}

func TestRewriter_RenderErrorAborts(t *testing.T) {
	renderErr := errors.New("schema missing")
	render, _ := stubRender(nil, renderErr)
	rewriter := NewRewriter(render)

	src := "// {schema} gone.json\n"
	out, _, err := rewriter.Rewrite(context.Background(), []byte(src))
	if !errors.Is(err, renderErr) {
		t.Fatalf("expected render error, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no partial output, got %q", string(out))
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}

func TestRewriter_RoundTripsUntaggedSource(t *testing.T) {
	render, _ := stubRender([]string{"{string} id "}, nil)
	rewriter := NewRewriter(render)

	src := "package main\n\nfunc main() {\n\tfmt.Println(\"# not a comment leader in this line\")\n}\n"
	out, changed, err := rewriter.Rewrite(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if changed {
		t.Fatal("expected no change")
	}
	if string(out) != src {
		t.Fatalf("expected byte-identical round trip\nwant: %q\n got: %q", src, string(out))
	}
}

func TestRewriter_RequiresRenderFunc(t *testing.T) {
	rewriter := NewRewriter(nil)
	if _, _, err := rewriter.Rewrite(context.Background(), []byte("// {schema} x.json")); err == nil {
		t.Fatal("expected error for missing render func")
	}
}
