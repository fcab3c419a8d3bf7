package adf

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{
			name: "single paragraph",
			doc:  NewDocument(Paragraph(Text("hello world"))),
			want: "hello world",
		},
		{
			name: "leaves joined by single spaces in document order",
			doc: NewDocument(
				Paragraph(Text("first"), Text("second")),
				Paragraph(Text("third")),
			),
			want: "first second third",
		},
		{
			name: "nested containers walked depth-first",
			doc: NewDocument(
				Node{Type: "bulletList", Content: []Node{
					{Type: "listItem", Content: []Node{Paragraph(Text("one"))}},
					{Type: "listItem", Content: []Node{Paragraph(Text("two"))}},
				}},
			),
			want: "one two",
		},
		{
			name: "marked text is still a leaf",
			doc:  NewDocument(Paragraph(Link("click here", "https://example.com"))),
			want: "click here",
		},
		{
			name: "empty document",
			doc:  Document{},
			want: "",
		},
		{
			name: "wrong root type",
			doc:  Document{Type: "paragraph", Content: []Node{Text("x")}},
			want: "",
		},
		{
			name: "doc with no content",
			doc:  Document{Type: "doc"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Flatten(tt.doc); got != tt.want {
				t.Errorf("Flatten() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlattenRaw(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "adf object",
			raw:  `{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"from adf"}]}]}`,
			want: "from adf",
		},
		{
			name: "bare string",
			raw:  `"plain description"`,
			want: "plain description",
		},
		{name: "absent", raw: "", want: ""},
		{name: "null", raw: "null", want: ""},
		{name: "malformed", raw: `{"type":`, want: ""},
		{name: "unexpected shape", raw: `42`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlattenRaw(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("FlattenRaw() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuilders(t *testing.T) {
	doc := NewDocument(
		Paragraph(Text("Commit Message:")),
		Paragraph(Text("fix bug")),
		Paragraph(Link("View Commit in GitHub", "https://github.com/o/r/commit/abc")),
	)

	if doc.Type != "doc" || doc.Version != 1 {
		t.Errorf("unexpected document envelope: type=%q version=%d", doc.Type, doc.Version)
	}
	if len(doc.Content) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(doc.Content))
	}

	link := doc.Content[2].Content[0]
	if len(link.Marks) != 1 || link.Marks[0].Type != "link" {
		t.Fatalf("expected a link mark, got %+v", link.Marks)
	}
	if link.Marks[0].Attrs.Href != "https://github.com/o/r/commit/abc" {
		t.Errorf("link href = %q", link.Marks[0].Attrs.Href)
	}

	// Round-trip to make sure omitted fields stay omitted on the wire.
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `"text":"Commit Message:"`; !strings.Contains(string(b), want) {
		t.Errorf("serialized document missing %s: %s", want, b)
	}
	if strings.Contains(string(b), `"marks":[]`) {
		t.Errorf("empty marks should be omitted: %s", b)
	}
}
