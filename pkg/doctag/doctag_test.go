package doctag

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    Tag
		ok      bool
	}{
		{name: "plain", content: "{schema} ./schemas/login.json", want: Tag{Path: "./schemas/login.json"}, ok: true},
		{name: "grouped", content: "(auth) {schema} schemas/login.yml", want: Tag{Group: "auth", Path: "schemas/login.yml"}, ok: true},
		{name: "padded", content: "   {schema}   user.yaml  ", want: Tag{Path: "user.yaml"}, ok: true},
		{name: "group with spaces", content: "(billing api) {schema} invoice.json", want: Tag{Group: "billing api", Path: "invoice.json"}, ok: true},
		{name: "other tag type", content: "{param} name The user name."},
		{name: "missing path", content: "{schema}"},
		{name: "trailing words", content: "{schema} login.json extra words"},
		{name: "group without separator", content: "(auth){schema} login.json"},
		{name: "case sensitive", content: "{Schema} login.json"},
		{name: "empty", content: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Parse(tc.content)
			if ok != tc.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tc.content, ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.content, got, tc.want)
			}
		})
	}
}
